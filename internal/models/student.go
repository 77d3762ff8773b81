package models

import "time"

// Student is the profile a user carries inside a group.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	FullName  string    `gorm:"size:200" json:"full_name"`
	Email     string    `gorm:"size:100" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone"`
	About     string    `gorm:"type:text" json:"about"`
	President bool      `gorm:"not null;default:false" json:"president"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TargetType implements eventlog targets.
func (Student) TargetType() string { return TargetStudent }

// TargetID implements eventlog targets.
func (s Student) TargetID() uint { return s.ID }

// InGroup reports whether the student belongs to any group.
func (s Student) InGroup() bool {
	return s.GroupID != nil && *s.GroupID != 0
}
