package dto

import (
	"time"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Title  string `json:"title" validate:"required,max=200"`
	Active *bool  `json:"active"`
}

// CourseUpdateRequest describes a partial course update.
type CourseUpdateRequest struct {
	Title  *string `json:"title" validate:"omitempty,min=1,max=200"`
	Active *bool   `json:"active"`
}

// CourseResponse is the serialized course.
type CourseResponse struct {
	ID        uint      `json:"id"`
	GroupID   uint      `json:"group_id"`
	Title     string    `json:"title"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:        model.ID,
		GroupID:   model.GroupID,
		Title:     model.Title,
		Active:    model.Active,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
