package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hugh/kudosboard/internal/api/dto"
	"github.com/hugh/kudosboard/internal/api/middleware"
	"github.com/hugh/kudosboard/internal/auth"
)

type ProfileHandler struct {
	authService *auth.Service
}

func NewProfileHandler(authService *auth.Service) *ProfileHandler {
	return &ProfileHandler{authService: authService}
}

// Get handles GET /api/v1/accounts/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, dto.MsgRetrieved, map[string]interface{}{"profile": dto.ToProfileDTO(user)}, nil)
}

// Patch handles PATCH /api/v1/accounts/profile
func (h *ProfileHandler) Patch(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, dto.ErrValidation, nil, map[string]string{"detail": "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeEnvelope(w, dto.ErrValidation, nil, errs)
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), userID, auth.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, dto.MsgUpdated, map[string]interface{}{"profile": dto.ToProfileDTO(user)}, nil)
}

// ChangePassword handles POST /api/v1/accounts/profile/change-password
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, dto.ErrValidation, nil, map[string]string{"detail": "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeEnvelope(w, dto.ErrValidation, nil, errs)
		return
	}

	if err := h.authService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, dto.MsgUpdated, nil, nil)
}
