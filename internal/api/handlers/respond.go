package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hugh/kudosboard/internal/api/dto"
	"github.com/hugh/kudosboard/internal/auth"
	"github.com/hugh/kudosboard/internal/kudos"
)

func writeEnvelope(w http.ResponseWriter, rt dto.ResponseType, data, errs interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rt.StatusCode)
	_ = json.NewEncoder(w).Encode(dto.NewEnvelope(rt, data, errs))
}

func writePaginated(w http.ResponseWriter, r *http.Request, p dto.PaginationParams, total int64, data interface{}) {
	env := dto.NewPaginatedEnvelope(r, p, total, data)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.StatusCode)
	_ = json.NewEncoder(w).Encode(env)
}

// mapError is the single translation from domain errors to the response
// envelope, applied once at the API boundary. Anything unrecognized becomes
// server_error with no internal detail leaked.
func mapError(err error) (dto.ResponseType, interface{}) {
	switch {
	case errors.Is(err, kudos.ErrInsufficientBalance):
		return dto.ErrInsufficientBalance, map[string]string{"sender": err.Error()}
	case errors.Is(err, kudos.ErrSelfKudos):
		return dto.ErrSelfKudos, map[string]string{"receiver": err.Error()}
	case errors.Is(err, kudos.ErrCrossOrganization):
		return dto.ErrCrossOrganization, map[string]string{"receiver": err.Error()}
	case errors.Is(err, kudos.ErrReceiverNotFound), errors.Is(err, kudos.ErrKudosNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		return dto.ErrNotFound, nil
	case errors.Is(err, auth.ErrUserExists):
		return dto.ErrValidation, map[string]string{"email": "Email already exists"}
	case errors.Is(err, auth.ErrOrganizationExists):
		return dto.ErrValidation, map[string]string{"organization_name": "Organization already exists"}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return dto.ErrValidation, map[string]string{"detail": "Invalid credentials. Please try again."}
	case errors.Is(err, auth.ErrInactiveUser):
		return dto.ErrValidation, map[string]string{"detail": "This account has been deactivated. Please contact support."}
	case errors.Is(err, auth.ErrWrongPassword):
		return dto.ErrUnauthorized, map[string]string{"current_password": "Current password is incorrect"}
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenRevoked):
		return dto.ErrTokenInvalid, map[string]string{"detail": "Invalid or expired token"}
	default:
		return dto.ErrServerError, nil
	}
}

func writeError(w http.ResponseWriter, err error) {
	rt, errs := mapError(err)
	writeEnvelope(w, rt, nil, errs)
}
