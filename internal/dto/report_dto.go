package dto

import (
	"time"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

// BugReportCreateRequest describes a new bug report.
type BugReportCreateRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
}

// AbuseReportCreateRequest describes a complaint about another user.
type AbuseReportCreateRequest struct {
	UserID  uint   `json:"user_id" validate:"required,gt=0"`
	Message string `json:"message" validate:"required,max=5000"`
}

// BugReportResponse is the serialized bug report.
type BugReportResponse struct {
	ID         uint      `json:"id"`
	ReporterID uint      `json:"reporter_id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewBugReportResponse converts a model into a DTO.
func NewBugReportResponse(model models.BugReport) BugReportResponse {
	return BugReportResponse{
		ID:         model.ID,
		ReporterID: model.ReporterID,
		Message:    model.Message,
		CreatedAt:  model.CreatedAt,
	}
}

// AbuseReportResponse is the serialized abuse report.
type AbuseReportResponse struct {
	ID         uint      `json:"id"`
	ReporterID uint      `json:"reporter_id"`
	UserID     uint      `json:"user_id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewAbuseReportResponse converts a model into a DTO.
func NewAbuseReportResponse(model models.AbuseReport) AbuseReportResponse {
	return AbuseReportResponse{
		ID:         model.ID,
		ReporterID: model.ReporterID,
		UserID:     model.UserID,
		Message:    model.Message,
		CreatedAt:  model.CreatedAt,
	}
}
