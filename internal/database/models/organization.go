package models

// Organization is a tenant. Kudos never cross organization boundaries.
type Organization struct {
	Base
	Name     string `gorm:"uniqueIndex;not null" json:"name"` // stored lowercase
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Users []User `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Organization) TableName() string {
	return "organizations"
}
