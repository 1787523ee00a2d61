package models

import "github.com/google/uuid"

// Kudos is one transferred recognition point. Rows are immutable after
// creation except for soft-delete/restore, which never refunds the point.
type Kudos struct {
	Base
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`

	// Relationships
	Sender   *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

func (Kudos) TableName() string {
	return "kudos"
}
