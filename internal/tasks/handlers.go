package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/kudosboard/internal/database/models"
	"gorm.io/gorm"
)

type Handler struct {
	db          *gorm.DB
	logger      *slog.Logger
	allowance   int
	resetWindow time.Duration
}

func NewHandler(db *gorm.DB, logger *slog.Logger, allowance int, resetWindow time.Duration) *Handler {
	if allowance <= 0 {
		allowance = models.DefaultKudosAllowance
	}
	if resetWindow <= 0 {
		resetWindow = 7 * 24 * time.Hour
	}
	return &Handler{
		db:          db,
		logger:      logger,
		allowance:   allowance,
		resetWindow: resetWindow,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeWeeklyReset, h.HandleWeeklyReset)
}

// HandleWeeklyReset restores the balance of every active user whose window
// has elapsed and advances their reset timestamp, in one transaction. A user
// reset late still lands at the full allowance with last_kudos_reset = now;
// missed cycles are not back-accrued. Running the sweep twice in a row is a
// no-op the second time, since the first run advanced every eligible
// timestamp. A failed run rolls back whole and is retried on the next tick.
func (h *Handler) HandleWeeklyReset(ctx context.Context, t *asynq.Task) error {
	now := time.Now()
	resetBefore := now.Add(-h.resetWindow)

	var updated int64
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("is_active = ? AND last_kudos_reset <= ?", true, resetBefore).
			Updates(map[string]interface{}{
				"kudos_available":  h.allowance,
				"last_kudos_reset": now,
			})
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected
		return nil
	})
	if err != nil {
		h.logger.Error("weekly kudos reset failed", "error", err)
		return err
	}

	h.logger.Info("weekly kudos reset completed",
		"users_updated", updated,
		"reset_before", resetBefore,
	)
	return nil
}
