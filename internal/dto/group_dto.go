package dto

import (
	"time"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

// GroupCreateRequest describes the payload for creating a group.
type GroupCreateRequest struct {
	Number string `json:"number" validate:"required,max=25"`
	Title  string `json:"title" validate:"omitempty,max=200"`
}

// GroupUpdateRequest describes a partial group update.
type GroupUpdateRequest struct {
	Number *string `json:"number" validate:"omitempty,min=1,max=25"`
	Title  *string `json:"title" validate:"omitempty,max=200"`
}

// GroupResponse is the serialized group.
type GroupResponse struct {
	ID          uint      `json:"id"`
	PresidentID uint      `json:"president_id"`
	Number      string    `json:"number"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewGroupResponse converts a model into a DTO.
func NewGroupResponse(model models.Group) GroupResponse {
	return GroupResponse{
		ID:          model.ID,
		PresidentID: model.PresidentID,
		Number:      model.Number,
		Title:       model.Title,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// InviteCreateRequest invites an email address to the president's group.
type InviteCreateRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// InviteResponse is the serialized invite. The token is never exposed.
type InviteResponse struct {
	ID          uint       `json:"id"`
	GroupID     uint       `json:"group_id"`
	SenderID    uint       `json:"sender_id"`
	RecipientID *uint      `json:"recipient_id"`
	Email       string     `json:"email"`
	SentAt      time.Time  `json:"sent_at"`
	AcceptedAt  *time.Time `json:"accepted_at"`
}

// NewInviteResponse converts a model into a DTO.
func NewInviteResponse(model models.Invite) InviteResponse {
	return InviteResponse{
		ID:          model.ID,
		GroupID:     model.GroupID,
		SenderID:    model.SenderID,
		RecipientID: model.RecipientID,
		Email:       model.Email,
		SentAt:      model.SentAt,
		AcceptedAt:  model.AcceptedAt,
	}
}
