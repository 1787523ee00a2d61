package kudos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/kudosboard/internal/database/models"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Give transfers one kudos point from the sender to the receiver. The
// preconditions are checked in order before any mutation; the balance
// decrement and the transfer row commit together or not at all.
func (s *Service) Give(ctx context.Context, senderID, senderOrgID, receiverID uuid.UUID, message string) (*models.Kudos, error) {
	var created models.Kudos

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var receiver models.User
		if err := tx.Where("id = ? AND is_active = ?", receiverID, true).First(&receiver).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReceiverNotFound
			}
			return err
		}

		if receiver.OrganizationID != senderOrgID {
			return ErrCrossOrganization
		}

		if receiver.ID == senderID {
			return ErrSelfKudos
		}

		// The guard re-checks the balance atomically, closing the window
		// between any earlier check and this commit.
		if _, err := TrySpend(tx, senderID); err != nil {
			return err
		}

		created = models.Kudos{
			Base:       models.Base{CreatedBy: &senderID},
			SenderID:   senderID,
			ReceiverID: receiverID,
			Message:    message,
			IsActive:   true,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		First(&created, "id = ?", created.ID).Error; err != nil {
		return nil, err
	}

	return &created, nil
}

// HistoryFilter narrows history queries. Dates are inclusive and compared
// against the transfer creation time.
type HistoryFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

func (f HistoryFilter) apply(query *gorm.DB) *gorm.DB {
	if f.StartDate != nil {
		query = query.Where("kudos.created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		// end of day, inclusive
		query = query.Where("kudos.created_at < ?", f.EndDate.AddDate(0, 0, 1))
	}
	return query
}

// Sent returns the active kudos the user has given, newest first.
func (s *Service) Sent(ctx context.Context, userID uuid.UUID, filter HistoryFilter) ([]models.Kudos, int64, error) {
	return s.history(ctx, "sender_id", userID, filter)
}

// Received returns the active kudos the user has been given, newest first.
func (s *Service) Received(ctx context.Context, userID uuid.UUID, filter HistoryFilter) ([]models.Kudos, int64, error) {
	return s.history(ctx, "receiver_id", userID, filter)
}

func (s *Service) history(ctx context.Context, column string, userID uuid.UUID, filter HistoryFilter) ([]models.Kudos, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Kudos{}).
		Where(column+" = ? AND is_active = ?", userID, true)
	query = filter.apply(query)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.Kudos
	if err := query.
		Preload("Sender").
		Preload("Receiver").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// LeaderboardEntry is one row of the per-organization leaderboard.
type LeaderboardEntry struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	KudosReceivedCount int64     `json:"kudos_received_count"`
}

// Leaderboard ranks the organization's active users by active kudos received,
// descending, with ascending user id as a stable tie-break.
func (s *Service) Leaderboard(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]LeaderboardEntry, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("organization_id = ? AND is_active = ?", orgID, true).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []LeaderboardEntry
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("users.id, users.email, users.first_name, users.last_name, COUNT(k.id) AS kudos_received_count").
		Joins("LEFT JOIN kudos k ON k.receiver_id = users.id AND k.is_active = ? AND k.deleted_at IS NULL", true).
		Where("users.organization_id = ? AND users.is_active = ?", orgID, true).
		Group("users.id, users.email, users.first_name, users.last_name").
		Order("kudos_received_count DESC, users.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// Deactivate soft-deletes a transfer. The point stays spent; hiding a kudos
// never refunds the sender.
func (s *Service) Deactivate(ctx context.Context, orgID, actorID, kudosID uuid.UUID) error {
	return s.setActive(ctx, orgID, actorID, kudosID, false)
}

// Restore reverses a soft-delete.
func (s *Service) Restore(ctx context.Context, orgID, actorID, kudosID uuid.UUID) error {
	return s.setActive(ctx, orgID, actorID, kudosID, true)
}

func (s *Service) setActive(ctx context.Context, orgID, actorID, kudosID uuid.UUID, active bool) error {
	var entry models.Kudos
	if err := s.db.WithContext(ctx).
		Joins("JOIN users sender ON sender.id = kudos.sender_id").
		Where("kudos.id = ? AND sender.organization_id = ?", kudosID, orgID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrKudosNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Model(&entry).Updates(map[string]interface{}{
		"is_active":  active,
		"updated_by": actorID,
	}).Error
}

// Stats are the dashboard counters for one user.
type Stats struct {
	TotalTeamMembers   int64 `json:"total_team_members"`
	TotalKudosReceived int64 `json:"total_kudos_received"`
	TotalKudosSent     int64 `json:"total_kudos_sent"`
}

func (s *Service) DashboardStats(ctx context.Context, orgID, userID uuid.UUID) (*Stats, error) {
	var stats Stats

	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("organization_id = ?", orgID).
		Count(&stats.TotalTeamMembers).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Kudos{}).
		Where("receiver_id = ?", userID).
		Count(&stats.TotalKudosReceived).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Kudos{}).
		Where("sender_id = ?", userID).
		Count(&stats.TotalKudosSent).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
