package dto

import (
	"strings"
	"time"

	"github.com/hugh/kudosboard/internal/api/validation"
	"github.com/hugh/kudosboard/internal/database/models"
)

type SignupRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	PasswordConfirm  string `json:"password_confirm"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	OrganizationName string `json:"organization_name"`
}

func (r SignupRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Enter a valid email address"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}
	if r.Password != r.PasswordConfirm {
		errors["password_confirm"] = "Passwords don't match"
	}
	if r.FirstName == "" {
		errors["first_name"] = "First name is required"
	}
	if strings.TrimSpace(r.OrganizationName) == "" {
		errors["organization_name"] = "Organization name is required"
	}

	return errors
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.RefreshToken == "" {
		errors["refresh_token"] = "Refresh token is required"
	}
	return errors
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r LogoutRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.RefreshToken == "" {
		errors["refresh_token"] = "Refresh token is required"
	}
	return errors
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
}

func (r UpdateProfileRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.FirstName != nil && *r.FirstName == "" {
		errors["first_name"] = "First name cannot be empty"
	}
	if r.Email != nil && !validation.IsValidEmail(*r.Email) {
		errors["email"] = "Enter a valid email address"
	}

	return errors
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r ChangePasswordRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.CurrentPassword == "" {
		errors["current_password"] = "Current password is required"
	}
	if r.NewPassword == "" {
		errors["new_password"] = "New password is required"
	} else if ok, msg := validation.IsValidPassword(r.NewPassword); !ok {
		errors["new_password"] = msg
	}
	if r.NewPassword != r.ConfirmPassword {
		errors["confirm_password"] = "New password and confirm password do not match"
	}

	return errors
}

type AddMemberRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r AddMemberRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Enter a valid email address"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}
	if r.FirstName == "" {
		errors["first_name"] = "First name is required"
	}

	return errors
}

type TokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
	User         *ProfileDTO `json:"user,omitempty"`
}

type OrganizationDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type ProfileDTO struct {
	ID             string           `json:"id"`
	Email          string           `json:"email"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	Role           string           `json:"role"`
	Organization   *OrganizationDTO `json:"organization,omitempty"`
	KudosAvailable int              `json:"kudos_available"`
	NextKudosReset time.Time        `json:"next_kudos_reset"`
	IsActive       bool             `json:"is_active"`
}

func ToProfileDTO(u *models.User) ProfileDTO {
	dto := ProfileDTO{
		ID:             u.ID.String(),
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		KudosAvailable: u.KudosAvailable,
		NextKudosReset: u.NextKudosReset(),
		IsActive:       u.IsActive,
	}
	if u.Organization != nil {
		dto.Organization = &OrganizationDTO{
			ID:       u.Organization.ID.String(),
			Name:     u.Organization.Name,
			IsActive: u.Organization.IsActive,
		}
	}
	return dto
}

// UserListDTO is the short user shape used in organization member listings.
type UserListDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

func ToUserListDTO(u *models.User) UserListDTO {
	return UserListDTO{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}
