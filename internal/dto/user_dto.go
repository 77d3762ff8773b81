package dto

import (
	"time"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

// RegistrationRequest describes a sign-up.
type RegistrationRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=64"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"omitempty,max=200"`
	Locale   string `json:"locale" validate:"omitempty,max=16"`
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
}

// Admin user management actions.
const (
	UserActionBan     = "ban"
	UserActionUnban   = "unban"
	UserActionConfirm = "confirm"
)

// UserManageRequest applies an administrative action to an account.
type UserManageRequest struct {
	Action string `json:"action" validate:"required,oneof=ban unban confirm"`
}

// UserResponse is the serialized account.
type UserResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Admin       bool       `json:"admin"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	BannedAt    *time.Time `json:"banned_at"`
	Locale      string     `json:"locale"`
	Timezone    string     `json:"timezone"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:          model.ID,
		Username:    model.Username,
		Email:       model.Email,
		Admin:       model.Admin,
		ConfirmedAt: model.ConfirmedAt,
		BannedAt:    model.BannedAt,
		Locale:      model.Locale,
		Timezone:    model.Timezone,
		CreatedAt:   model.CreatedAt,
	}
}
