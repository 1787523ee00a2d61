package dto

import (
	"strings"
	"time"

	"github.com/hugh/kudosboard/internal/api/validation"
	"github.com/hugh/kudosboard/internal/database/models"
)

type GiveKudosRequest struct {
	ReceiverID string `json:"receiver_id"`
	Message    string `json:"message"`
}

func (r GiveKudosRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.ReceiverID == "" {
		errors["receiver_id"] = "Receiver is required"
	} else if !validation.IsValidUUID(r.ReceiverID) {
		errors["receiver_id"] = "Invalid receiver ID"
	}
	if strings.TrimSpace(r.Message) == "" {
		errors["message"] = "Message is required"
	}

	return errors
}

// UserBriefDTO is the nested sender/receiver shape inside a kudos record.
type UserBriefDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type KudosDTO struct {
	ID        string        `json:"id"`
	Sender    *UserBriefDTO `json:"sender"`
	Receiver  *UserBriefDTO `json:"receiver"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
}

func ToKudosDTO(k *models.Kudos) KudosDTO {
	dto := KudosDTO{
		ID:        k.ID.String(),
		Message:   k.Message,
		CreatedAt: k.CreatedAt,
	}
	if k.Sender != nil {
		dto.Sender = toUserBrief(k.Sender)
	}
	if k.Receiver != nil {
		dto.Receiver = toUserBrief(k.Receiver)
	}
	return dto
}

func toUserBrief(u *models.User) *UserBriefDTO {
	return &UserBriefDTO{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
