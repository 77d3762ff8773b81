package models

import (
	"time"

	"gorm.io/datatypes"
)

// Eventable types an event can be attached to.
const (
	EventableStudent = "Student"
	EventableGroup   = "Group"
)

// EventStatusConfirmed is the default event status.
const EventStatusConfirmed = "confirmed"

// Event is a calendar entry owned either by a student (personal) or a group.
type Event struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatorID     uint           `gorm:"not null;index" json:"creator_id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"size:255" json:"description"`
	StartAt       time.Time      `gorm:"not null" json:"start_at"`
	EndAt         *time.Time     `json:"end_at"`
	Timezone      string         `gorm:"size:64;not null" json:"timezone"`
	Status        string         `gorm:"size:32;not null;default:confirmed" json:"status"`
	CourseID      *uint          `gorm:"index" json:"course_id"`
	EventableType string         `gorm:"size:32;not null;index:idx_events_eventable" json:"eventable_type"`
	EventableID   uint           `gorm:"not null;index:idx_events_eventable" json:"eventable_id"`
	Recurrence    datatypes.JSON `json:"recurrence"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TargetType implements eventlog targets.
func (Event) TargetType() string { return TargetEvent }

// TargetID implements eventlog targets.
func (e Event) TargetID() uint { return e.ID }

// Task is a piece of work attached to an event.
type Task struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AuthorID    uint           `gorm:"not null;index" json:"author_id"`
	EventID     uint           `gorm:"not null;index" json:"event_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	ExpiredAt   *time.Time     `json:"expired_at"`
	ExtraLinks  datatypes.JSON `json:"extra_links"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TargetType implements eventlog targets.
func (Task) TargetType() string { return TargetTask }

// TargetID implements eventlog targets.
func (t Task) TargetID() uint { return t.ID }
