package dto

import (
	"time"

	"github.com/noah-isme/elplano-go-api/internal/eventlog"
	"github.com/noah-isme/elplano-go-api/internal/models"
)

// ActivityEventResponse is an activity feed entry with its resolved target.
type ActivityEventResponse struct {
	ID        uint                   `json:"id"`
	AuthorID  uint                   `json:"author_id"`
	Action    string                 `json:"action"`
	Target    eventlog.Resolved      `json:"target"`
	Details   map[string]interface{} `json:"details"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewActivityEventResponse converts a model and its resolved target into a DTO.
func NewActivityEventResponse(model models.ActivityEvent, target eventlog.Resolved) ActivityEventResponse {
	return ActivityEventResponse{
		ID:        model.ID,
		AuthorID:  model.AuthorID,
		Action:    string(model.Action),
		Target:    target,
		Details:   details(model.Details),
		CreatedAt: model.CreatedAt,
	}
}

// AuditEventResponse is an audit trail entry with its resolved entity.
type AuditEventResponse struct {
	ID        uint                   `json:"id"`
	AuthorID  uint                   `json:"author_id"`
	AuditType string                 `json:"audit_type"`
	Entity    eventlog.Resolved      `json:"entity"`
	Details   map[string]interface{} `json:"details"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewAuditEventResponse converts a model and its resolved entity into a DTO.
func NewAuditEventResponse(model models.AuditEvent, entity eventlog.Resolved) AuditEventResponse {
	return AuditEventResponse{
		ID:        model.ID,
		AuthorID:  model.AuthorID,
		AuditType: string(model.AuditType),
		Entity:    entity,
		Details:   details(model.Details),
		CreatedAt: model.CreatedAt,
	}
}

func details(values map[string]interface{}) map[string]interface{} {
	if values == nil {
		return map[string]interface{}{}
	}
	return values
}
