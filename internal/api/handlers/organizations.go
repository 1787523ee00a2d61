package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hugh/kudosboard/internal/api/dto"
	"github.com/hugh/kudosboard/internal/api/middleware"
	"github.com/hugh/kudosboard/internal/auth"
	"github.com/hugh/kudosboard/internal/database/models"
	"gorm.io/gorm"
)

type OrganizationHandler struct {
	db          *gorm.DB
	authService *auth.Service
}

func NewOrganizationHandler(db *gorm.DB, authService *auth.Service) *OrganizationHandler {
	return &OrganizationHandler{db: db, authService: authService}
}

// List handles GET /api/v1/accounts/organizations. It returns the caller's
// organization members, active only, paginated.
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationID(r.Context())
	p := dto.ParsePagination(r)

	query := h.db.WithContext(r.Context()).Model(&models.User{}).
		Where("organization_id = ? AND is_active = ?", orgID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeError(w, err)
		return
	}

	var users []models.User
	if err := query.
		Order("created_at ASC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&users).Error; err != nil {
		writeError(w, err)
		return
	}

	members := make([]dto.UserListDTO, len(users))
	for i := range users {
		members[i] = dto.ToUserListDTO(&users[i])
	}

	writePaginated(w, r, p, total, members)
}

// AddUser handles POST /api/v1/accounts/organizations/users. Owner only.
func (h *OrganizationHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrganizationID(r.Context())
	actorID := middleware.GetUserID(r.Context())

	var req dto.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, dto.ErrValidation, nil, map[string]string{"detail": "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeEnvelope(w, dto.ErrValidation, nil, errs)
		return
	}

	user, err := h.authService.AddMember(r.Context(), orgID, actorID, auth.AddMemberInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeEnvelope(w, dto.MsgCreated, dto.ToUserListDTO(user), nil)
}
