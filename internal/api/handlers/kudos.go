package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/kudosboard/internal/api/dto"
	"github.com/hugh/kudosboard/internal/api/middleware"
	"github.com/hugh/kudosboard/internal/database/models"
	"github.com/hugh/kudosboard/internal/kudos"
)

type KudosHandler struct {
	service *kudos.Service
}

func NewKudosHandler(service *kudos.Service) *KudosHandler {
	return &KudosHandler{service: service}
}

// Give handles POST /api/v1/kudos/give
func (h *KudosHandler) Give(w http.ResponseWriter, r *http.Request) {
	senderID := middleware.GetUserID(r.Context())
	orgID := middleware.GetOrganizationID(r.Context())

	var req dto.GiveKudosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, dto.ErrValidation, nil, map[string]string{"detail": "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeEnvelope(w, dto.ErrValidation, nil, errs)
		return
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		writeEnvelope(w, dto.ErrValidation, nil, map[string]string{"receiver_id": "Invalid receiver ID"})
		return
	}

	created, err := h.service.Give(r.Context(), senderID, orgID, receiverID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, dto.MsgCreated, dto.ToKudosDTO(created), nil)
}

// History handles GET /api/v1/kudos/history (kudos sent by the caller)
func (h *KudosHandler) History(w http.ResponseWriter, r *http.Request) {
	h.listHistory(w, r, h.service.Sent)
}

// Received handles GET /api/v1/kudos/received
func (h *KudosHandler) Received(w http.ResponseWriter, r *http.Request) {
	h.listHistory(w, r, h.service.Received)
}

type historyQuery func(ctx context.Context, userID uuid.UUID, filter kudos.HistoryFilter) ([]models.Kudos, int64, error)

func (h *KudosHandler) listHistory(w http.ResponseWriter, r *http.Request, query historyQuery) {
	userID := middleware.GetUserID(r.Context())
	p := dto.ParsePagination(r)

	filter, errs := parseDateFilter(r)
	if len(errs) > 0 {
		writeEnvelope(w, dto.ErrValidation, nil, errs)
		return
	}
	filter.Limit = p.PageSize
	filter.Offset = p.Offset()

	entries, total, err := query(r.Context(), userID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]dto.KudosDTO, len(entries))
	for i := range entries {
		out[i] = dto.ToKudosDTO(&entries[i])
	}

	writePaginated(w, r, p, total, out)
}

// Leaderboard handles GET /api/v1/kudos/leaderboard
func (h *KudosHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationID(r.Context())
	p := dto.ParsePagination(r)

	entries, total, err := h.service.Leaderboard(r.Context(), orgID, p.PageSize, p.Offset())
	if err != nil {
		writeError(w, err)
		return
	}

	writePaginated(w, r, p, total, entries)
}

// Deactivate handles DELETE /api/v1/kudos/{id}. Owner only; hides the
// transfer without refunding the spent point.
func (h *KudosHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// Restore handles POST /api/v1/kudos/{id}/restore. Owner only.
func (h *KudosHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *KudosHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	orgID := middleware.GetOrganizationID(r.Context())
	actorID := middleware.GetUserID(r.Context())

	kudosID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeEnvelope(w, dto.ErrValidation, nil, map[string]string{"id": "Invalid kudos ID"})
		return
	}

	if active {
		err = h.service.Restore(r.Context(), orgID, actorID, kudosID)
	} else {
		err = h.service.Deactivate(r.Context(), orgID, actorID, kudosID)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if active {
		writeEnvelope(w, dto.MsgUpdated, nil, nil)
	} else {
		writeEnvelope(w, dto.MsgDeleted, nil, nil)
	}
}

// parseDateFilter reads optional inclusive start_date/end_date query params
// in YYYY-MM-DD form.
func parseDateFilter(r *http.Request) (kudos.HistoryFilter, map[string]string) {
	var filter kudos.HistoryFilter
	errs := make(map[string]string)

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			errs["start_date"] = "Invalid date, expected YYYY-MM-DD"
		} else {
			filter.StartDate = &t
		}
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			errs["end_date"] = "Invalid date, expected YYYY-MM-DD"
		} else {
			filter.EndDate = &t
		}
	}

	return filter, errs
}
