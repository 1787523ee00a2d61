package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hugh/kudosboard/internal/api/dto"
	"github.com/hugh/kudosboard/internal/auth"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, dto.ErrValidation, nil, map[string]string{"detail": "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeEnvelope(w, dto.ErrValidation, nil, errs)
		return
	}

	user, err := h.authService.Signup(r.Context(), auth.SignupInput{
		Email:            req.Email,
		Password:         req.Password,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	profile := dto.ToProfileDTO(user)
	writeEnvelope(w, dto.MsgSignupSuccess, profile, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, dto.ErrValidation, nil, map[string]string{"detail": "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeEnvelope(w, dto.ErrValidation, nil, errs)
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	profile := dto.ToProfileDTO(resp.User)
	writeEnvelope(w, dto.MsgLoginSuccess, dto.TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		User:         &profile,
	}, nil)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, dto.ErrValidation, nil, map[string]string{"detail": "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeEnvelope(w, dto.ErrValidation, nil, errs)
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, dto.MsgUpdated, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, dto.ErrValidation, nil, map[string]string{"detail": "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeEnvelope(w, dto.ErrValidation, nil, errs)
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, dto.MsgLogoutSuccess, nil, nil)
}
