package handlers

import (
	"net/http"

	"github.com/hugh/kudosboard/internal/api/dto"
	"github.com/hugh/kudosboard/internal/api/middleware"
	"github.com/hugh/kudosboard/internal/kudos"
)

type DashboardHandler struct {
	service *kudos.Service
}

func NewDashboardHandler(service *kudos.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats handles GET /api/v1/accounts/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationID(r.Context())
	userID := middleware.GetUserID(r.Context())

	stats, err := h.service.DashboardStats(r.Context(), orgID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, dto.MsgRetrieved, stats, nil)
}
