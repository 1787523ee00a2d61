package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/kudosboard/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrOrganizationExists = errors.New("organization already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type Service struct {
	db       *gorm.DB
	jwt      *JWTService
	denylist Denylist
}

func NewService(db *gorm.DB, jwt *JWTService, denylist Denylist) *Service {
	return &Service{db: db, jwt: jwt, denylist: denylist}
}

type SignupInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	OrganizationName string
}

type LoginInput struct {
	Email    string
	Password string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type LoginResponse struct {
	TokenPair
	User *models.User `json:"user"`
}

// Signup creates the organization and its owner user in one transaction.
// The organization name is stored lowercase and must not already exist.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	orgName := strings.ToLower(strings.TrimSpace(input.OrganizationName))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	if err := s.db.WithContext(ctx).Model(&models.Organization{}).Where("name = ?", orgName).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrOrganizationExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	org := models.Organization{
		Name:     orgName,
		IsActive: true,
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		user = models.User{
			Email:          email,
			PasswordHash:   hash,
			FirstName:      input.FirstName,
			LastName:       input.LastName,
			OrganizationID: org.ID,
			Role:           models.RoleOwner,
			KudosAvailable: models.DefaultKudosAllowance,
			LastKudosReset: time.Now(),
			IsActive:       true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		// The owner created their own organization.
		return tx.Model(&org).Updates(map[string]interface{}{"created_by": user.ID}).Error
	})
	if err != nil {
		return nil, err
	}

	user.Organization = &org
	return &user, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("Organization").
		Where("email = ?", strings.ToLower(input.Email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := s.jwt.GenerateTokenPair(user.ID, user.OrganizationID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		TokenPair: TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    int(s.jwt.AccessExpiry().Seconds()),
		},
		User: &user,
	}, nil
}

// Refresh exchanges a valid, non-revoked refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	access, _, err := s.jwt.GenerateTokenPair(claims.UserID, claims.OrganizationID, claims.Email, claims.Role)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwt.AccessExpiry().Seconds()),
	}, nil
}

// Logout revokes the refresh token for its remaining lifetime. Revoking an
// already-revoked token succeeds; logout is idempotent.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return nil // expired tokens need no revocation
		}
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	return s.denylist.Revoke(ctx, claims.ID, ttl)
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("Organization").
		First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_by": userID}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("email = ? AND id <> ?", email, userID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUserExists
		}
		updates["email"] = email
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetUserByID(ctx, userID)
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !CheckPassword(current, user.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"password_hash": hash,
		"updated_by":    userID,
	}).Error
}

type AddMemberInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AddMember provisions a member account inside an existing organization.
// Only called for callers holding the owner role.
func (s *Service) AddMember(ctx context.Context, orgID, createdBy uuid.UUID, input AddMemberInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Base:           models.Base{CreatedBy: &createdBy},
		Email:          email,
		PasswordHash:   hash,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		OrganizationID: orgID,
		Role:           models.RoleMember,
		KudosAvailable: models.DefaultKudosAllowance,
		LastKudosReset: time.Now(),
		IsActive:       true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
