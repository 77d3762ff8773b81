package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assignment links a task to a student it is appointed to.
type Assignment struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	StudentID    uint           `gorm:"not null;uniqueIndex:idx_assignments_student_task" json:"student_id"`
	TaskID       uint           `gorm:"not null;uniqueIndex:idx_assignments_student_task;index" json:"task_id"`
	Accomplished bool           `gorm:"not null;default:false" json:"accomplished"`
	Report       string         `gorm:"type:text" json:"report"`
	ExtraLinks   datatypes.JSON `json:"extra_links"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TargetType implements eventlog targets.
func (Assignment) TargetType() string { return TargetAssignment }

// TargetID implements eventlog targets.
func (a Assignment) TargetID() uint { return a.ID }
