package eventlog

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/observability"
)

const masked = "***"

var sensitiveKeys = []string{"email", "token", "password", "secret"}

// Recorder appends activity and audit events. It writes through the handle it
// is given so the event commits or rolls back with the caller's mutation.
type Recorder struct {
	policy      *bluemonday.Policy
	tracer      trace.Tracer
	invalidator Invalidator
}

// Invalidator drops anything cached from an author's event feeds.
type Invalidator interface {
	Invalidate(ctx context.Context, author uint)
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithInvalidator makes the recorder invalidate the author's cached feeds
// after every write.
func WithInvalidator(invalidator Invalidator) Option {
	return func(r *Recorder) {
		r.invalidator = invalidator
	}
}

// NewRecorder constructs the event recorder.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		policy: bluemonday.StrictPolicy(),
		tracer: observability.Tracer("eventlog"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Activity records a user-visible action on target.
func (r *Recorder) Activity(ctx context.Context, tx *gorm.DB, author uint, target Target, action models.ActivityAction, details map[string]interface{}) (models.ActivityEvent, error) {
	switch action {
	case models.ActivityCreated, models.ActivityUpdated, models.ActivityDeleted:
	default:
		return models.ActivityEvent{}, fmt.Errorf("eventlog: unknown activity action %q", action)
	}
	if err := checkAuthorAndTarget(author, target); err != nil {
		return models.ActivityEvent{}, err
	}

	event := models.ActivityEvent{
		AuthorID:   author,
		TargetType: target.Type,
		TargetID:   target.ID,
		Action:     action,
		Details:    r.sanitize(details),
	}
	err := r.write(ctx, tx, "activity", string(action), author, target, &event)
	return event, err
}

// Audit records a compliance event on entity.
func (r *Recorder) Audit(ctx context.Context, tx *gorm.DB, author uint, entity Target, auditType models.AuditType, details map[string]interface{}) (models.AuditEvent, error) {
	switch auditType {
	case models.AuditAuthentication, models.AuditPermanentAction:
	default:
		return models.AuditEvent{}, fmt.Errorf("eventlog: unknown audit type %q", auditType)
	}
	if err := checkAuthorAndTarget(author, entity); err != nil {
		return models.AuditEvent{}, err
	}

	event := models.AuditEvent{
		AuthorID:   author,
		EntityType: entity.Type,
		EntityID:   entity.ID,
		AuditType:  auditType,
		Details:    r.sanitize(details),
	}
	err := r.write(ctx, tx, "audit", string(auditType), author, entity, &event)
	return event, err
}

func (r *Recorder) write(ctx context.Context, tx *gorm.DB, kind, action string, author uint, target Target, row interface{}) error {
	ctx, span := r.tracer.Start(ctx, "eventlog.record", trace.WithAttributes(
		attribute.String("eventlog.kind", kind),
		attribute.String("eventlog.action", action),
		attribute.String("eventlog.target", target.String()),
	))
	defer span.End()

	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return apperror.Transaction("record "+kind+" event", err)
	}

	observability.EventLogWrites().WithLabelValues(kind, action).Inc()
	if r.invalidator != nil {
		r.invalidator.Invalidate(ctx, author)
	}
	return nil
}

func checkAuthorAndTarget(author uint, target Target) error {
	if author == 0 {
		return fmt.Errorf("eventlog: author is required")
	}
	return target.valid()
}

// sanitize strips markup from free-form details and masks contact data and
// credentials.
func (r *Recorder) sanitize(details map[string]interface{}) datatypes.JSONMap {
	sanitized := datatypes.JSONMap{}
	for key, value := range details {
		if sensitive(key) {
			sanitized[key] = masked
			continue
		}
		sanitized[key] = r.sanitizeValue(value)
	}
	return sanitized
}

func (r *Recorder) sanitizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return r.text(v)
	case map[string]interface{}:
		return map[string]interface{}(r.sanitize(v))
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = r.sanitizeValue(item)
		}
		return out
	case []string:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = r.text(item)
		}
		return out
	default:
		return v
	}
}

func (r *Recorder) text(value string) string {
	return html.UnescapeString(r.policy.Sanitize(value))
}

func sensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range sensitiveKeys {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
