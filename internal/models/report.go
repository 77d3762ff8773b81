package models

import "time"

// BugReport is a bug reported by a user.
type BugReport struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReporterID uint      `gorm:"not null;index" json:"reporter_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TargetType implements eventlog targets.
func (BugReport) TargetType() string { return TargetBugReport }

// TargetID implements eventlog targets.
func (r BugReport) TargetID() uint { return r.ID }

// AbuseReport is a complaint about another user. A user can be reported once.
type AbuseReport struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReporterID uint      `gorm:"not null;index" json:"reporter_id"`
	UserID     uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TargetType implements eventlog targets.
func (AbuseReport) TargetType() string { return TargetAbuseReport }

// TargetID implements eventlog targets.
func (r AbuseReport) TargetID() uint { return r.ID }
