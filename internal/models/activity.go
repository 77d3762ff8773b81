package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Target type tags stored in event log rows.
const (
	TargetUser        = "User"
	TargetStudent     = "Student"
	TargetGroup       = "Group"
	TargetCourse      = "Course"
	TargetEvent       = "Event"
	TargetTask        = "Task"
	TargetAssignment  = "Assignment"
	TargetInvite      = "Invite"
	TargetBugReport   = "BugReport"
	TargetAbuseReport = "AbuseReport"
)

// ActivityAction enumerates actions recorded in the activity feed.
type ActivityAction string

const (
	ActivityCreated ActivityAction = "created"
	ActivityUpdated ActivityAction = "updated"
	ActivityDeleted ActivityAction = "deleted"
)

// AuditType enumerates audit event kinds.
type AuditType string

const (
	AuditAuthentication  AuditType = "authentication"
	AuditPermanentAction AuditType = "permanent_action"
)

// ErrAppendOnly is returned when code tries to amend a recorded event.
var ErrAppendOnly = errors.New("event log is append-only")

// ActivityEvent is a user-visible record of an action performed on an entity.
type ActivityEvent struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	AuthorID   uint              `gorm:"not null;index;index:idx_activity_events_created_author,priority:2" json:"author_id"`
	Author     *User             `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	TargetType string            `gorm:"size:64;not null;index:idx_activity_events_target" json:"target_type"`
	TargetID   uint              `gorm:"not null;index:idx_activity_events_target" json:"target_id"`
	Action     ActivityAction    `gorm:"size:32;not null;index" json:"action"`
	Details    datatypes.JSONMap `gorm:"type:json" json:"details"`
	CreatedAt  time.Time         `gorm:"index:idx_activity_events_created_author,priority:1" json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// BeforeUpdate rejects any amendment of a recorded activity event.
func (ActivityEvent) BeforeUpdate(*gorm.DB) error {
	return ErrAppendOnly
}

// AuditEvent is a compliance record of a sensitive action.
type AuditEvent struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	AuthorID   uint              `gorm:"not null;index;index:idx_audit_events_created_author,priority:2" json:"author_id"`
	Author     *User             `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	EntityType string            `gorm:"size:64;not null;index:idx_audit_events_entity" json:"entity_type"`
	EntityID   uint              `gorm:"not null;index:idx_audit_events_entity" json:"entity_id"`
	AuditType  AuditType         `gorm:"size:32;not null;index" json:"audit_type"`
	Details    datatypes.JSONMap `gorm:"type:json" json:"details"`
	CreatedAt  time.Time         `gorm:"index:idx_audit_events_created_author,priority:1" json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// BeforeUpdate rejects any amendment of a recorded audit event.
func (AuditEvent) BeforeUpdate(*gorm.DB) error {
	return ErrAppendOnly
}

// All lists every model managed by migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Student{},
		&Group{},
		&Course{},
		&Invite{},
		&Event{},
		&Task{},
		&Assignment{},
		&BugReport{},
		&AbuseReport{},
		&ActivityEvent{},
		&AuditEvent{},
	}
}
