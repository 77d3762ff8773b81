package models

import "time"

// User statuses understood by the admin users finder.
const (
	UserStatusActive    = "active"
	UserStatusConfirmed = "confirmed"
	UserStatusBanned    = "banned"
	UserStatusAdmins    = "admins"
)

// DefaultTimezone is assigned to users registering without one.
const DefaultTimezone = "UTC"

// User represents a registered account.
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Username          string     `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email             string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	EncryptedPassword string     `gorm:"size:255;not null" json:"-"`
	Admin             bool       `gorm:"not null;default:false;index" json:"admin"`
	ConfirmedAt       *time.Time `json:"confirmed_at"`
	BannedAt          *time.Time `json:"banned_at"`
	Locale            string     `gorm:"size:16" json:"locale"`
	Timezone          string     `gorm:"size:64;not null;default:UTC" json:"timezone"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TargetType implements eventlog targets.
func (User) TargetType() string { return TargetUser }

// TargetID implements eventlog targets.
func (u User) TargetID() uint { return u.ID }

// Banned reports whether the account is banned.
func (u User) Banned() bool {
	return u.BannedAt != nil
}
