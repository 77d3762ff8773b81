package models

import "time"

// Group is a students group administered by its president.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PresidentID uint      `gorm:"not null;index" json:"president_id"`
	Number      string    `gorm:"size:25;not null" json:"number"`
	Title       string    `gorm:"size:200" json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TargetType implements eventlog targets.
func (Group) TargetType() string { return TargetGroup }

// TargetID implements eventlog targets.
func (g Group) TargetID() uint { return g.ID }

// Course is a subject studied by a group.
type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_courses_group_title" json:"group_id"`
	Title     string    `gorm:"size:200;not null;uniqueIndex:idx_courses_group_title" json:"title"`
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TargetType implements eventlog targets.
func (Course) TargetType() string { return TargetCourse }

// TargetID implements eventlog targets.
func (c Course) TargetID() uint { return c.ID }

// Invite is an invitation to join a group sent to an email address.
type Invite struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	SenderID        uint       `gorm:"not null;index" json:"sender_id"`
	RecipientID     *uint      `gorm:"index" json:"recipient_id"`
	GroupID         uint       `gorm:"not null;uniqueIndex:idx_invites_group_email" json:"group_id"`
	Email           string     `gorm:"size:255;not null;uniqueIndex:idx_invites_group_email" json:"email"`
	InvitationToken string     `gorm:"size:64;uniqueIndex" json:"-"`
	SentAt          time.Time  `gorm:"not null" json:"sent_at"`
	AcceptedAt      *time.Time `json:"accepted_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TargetType implements eventlog targets.
func (Invite) TargetType() string { return TargetInvite }

// TargetID implements eventlog targets.
func (i Invite) TargetID() uint { return i.ID }
