package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// DefaultKudosAllowance is the balance every user starts each cycle with.
const DefaultKudosAllowance = 3

type User struct {
	Base
	Email          string    `gorm:"uniqueIndex;not null" json:"email"` // lowercase, login identity
	PasswordHash   string    `gorm:"not null" json:"-"`
	FirstName      string    `gorm:"not null" json:"first_name"`
	LastName       string    `json:"last_name"`
	OrganizationID uuid.UUID `gorm:"type:uuid;index" json:"organization_id"`
	Role           string    `gorm:"default:'member'" json:"role"` // owner, member

	// KudosAvailable is only mutated by the balance guard (spend) and the
	// weekly reset job. Never negative.
	KudosAvailable int       `gorm:"default:3;check:kudos_available >= 0" json:"kudos_available"`
	LastKudosReset time.Time `gorm:"index" json:"last_kudos_reset"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`

	// Relationships
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// NextKudosReset returns when the user's balance becomes eligible for reset.
func (u *User) NextKudosReset() time.Time {
	return u.LastKudosReset.Add(7 * 24 * time.Hour)
}
