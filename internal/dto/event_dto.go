package dto

import (
	"encoding/json"
	"time"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

const isoLayout = time.RFC3339

// Event kinds accepted on creation.
const (
	EventKindPersonal = "personal"
	EventKindGroup    = "group"
)

// EventCreateRequest describes a new calendar event.
type EventCreateRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"omitempty,max=255"`
	StartAt     string   `json:"start_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndAt       *string  `json:"end_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Timezone    string   `json:"timezone" validate:"omitempty,timezone"`
	Kind        string   `json:"kind" validate:"omitempty,oneof=personal group"`
	StudentID   *uint    `json:"student_id" validate:"omitempty,gt=0"`
	CourseID    *uint    `json:"course_id" validate:"omitempty,gt=0"`
	Recurrence  []string `json:"recurrence" validate:"omitempty,max=10,dive,required,max=500"`
}

// EventUpdateRequest describes a partial event update. The event's owner
// (student or group) cannot change.
type EventUpdateRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=255"`
	StartAt     *string  `json:"start_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndAt       *string  `json:"end_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Timezone    *string  `json:"timezone" validate:"omitempty,timezone"`
	CourseID    *uint    `json:"course_id" validate:"omitempty,gt=0"`
	Recurrence  []string `json:"recurrence" validate:"omitempty,max=10,dive,required,max=500"`
}

// EventResponse is the serialized event.
type EventResponse struct {
	ID            uint            `json:"id"`
	CreatorID     uint            `json:"creator_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	StartAt       string          `json:"start_at"`
	EndAt         *string         `json:"end_at"`
	Timezone      string          `json:"timezone"`
	Status        string          `json:"status"`
	CourseID      *uint           `json:"course_id"`
	EventableType string          `json:"eventable_type"`
	EventableID   uint            `json:"eventable_id"`
	Recurrence    json.RawMessage `json:"recurrence,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewEventResponse converts a model into a DTO.
func NewEventResponse(model models.Event) EventResponse {
	response := EventResponse{
		ID:            model.ID,
		CreatorID:     model.CreatorID,
		Title:         model.Title,
		Description:   model.Description,
		StartAt:       model.StartAt.UTC().Format(isoLayout),
		Timezone:      model.Timezone,
		Status:        model.Status,
		CourseID:      model.CourseID,
		EventableType: model.EventableType,
		EventableID:   model.EventableID,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
	if model.EndAt != nil {
		end := model.EndAt.UTC().Format(isoLayout)
		response.EndAt = &end
	}
	if len(model.Recurrence) > 0 {
		response.Recurrence = json.RawMessage(model.Recurrence)
	}
	return response
}

// TaskCreateRequest describes a new task attached to an event.
type TaskCreateRequest struct {
	EventID     uint     `json:"event_id" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	ExpiredAt   *string  `json:"expired_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ExtraLinks  []string `json:"extra_links" validate:"omitempty,max=10,dive,url"`
	StudentIDs  []uint   `json:"student_ids" validate:"omitempty,max=200,dive,gt=0"`
}

// TaskUpdateRequest describes a partial task update. StudentIDs, when
// present, replaces the task's assignees.
type TaskUpdateRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	ExpiredAt   *string  `json:"expired_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ExtraLinks  []string `json:"extra_links" validate:"omitempty,max=10,dive,url"`
	StudentIDs  *[]uint  `json:"student_ids" validate:"omitempty,max=200,dive,gt=0"`
}

// TaskResponse is the serialized task.
type TaskResponse struct {
	ID          uint            `json:"id"`
	AuthorID    uint            `json:"author_id"`
	EventID     uint            `json:"event_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ExpiredAt   *string         `json:"expired_at"`
	ExtraLinks  json.RawMessage `json:"extra_links,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewTaskResponse converts a model into a DTO.
func NewTaskResponse(model models.Task) TaskResponse {
	response := TaskResponse{
		ID:          model.ID,
		AuthorID:    model.AuthorID,
		EventID:     model.EventID,
		Title:       model.Title,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if model.ExpiredAt != nil {
		expired := model.ExpiredAt.UTC().Format(isoLayout)
		response.ExpiredAt = &expired
	}
	if len(model.ExtraLinks) > 0 {
		response.ExtraLinks = json.RawMessage(model.ExtraLinks)
	}
	return response
}

// AssignmentUpdateRequest reports progress on an assigned task.
type AssignmentUpdateRequest struct {
	Accomplished *bool    `json:"accomplished"`
	Report       *string  `json:"report" validate:"omitempty,max=10000"`
	ExtraLinks   []string `json:"extra_links" validate:"omitempty,max=10,dive,url"`
}

// AssignmentResponse is the serialized assignment.
type AssignmentResponse struct {
	ID           uint            `json:"id"`
	TaskID       uint            `json:"task_id"`
	StudentID    uint            `json:"student_id"`
	Accomplished bool            `json:"accomplished"`
	Report       string          `json:"report"`
	ExtraLinks   json.RawMessage `json:"extra_links,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:           model.ID,
		TaskID:       model.TaskID,
		StudentID:    model.StudentID,
		Accomplished: model.Accomplished,
		Report:       model.Report,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
	if len(model.ExtraLinks) > 0 {
		response.ExtraLinks = json.RawMessage(model.ExtraLinks)
	}
	return response
}
