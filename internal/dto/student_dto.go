package dto

import (
	"time"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

// StudentResponse is a classmate as seen by group members.
type StudentResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	About     string    `json:"about"`
	President bool      `json:"president"`
	GroupID   *uint     `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:        model.ID,
		UserID:    model.UserID,
		FullName:  model.FullName,
		Email:     model.Email,
		Phone:     model.Phone,
		About:     model.About,
		President: model.President,
		GroupID:   model.GroupID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
