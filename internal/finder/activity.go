package finder

import (
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// ActivityEventsDefinition is the actor's activity feed.
func ActivityEventsDefinition() Definition {
	return Definition{
		Name:     "activity_events",
		Resource: scope.ResourceActivityEvents,
		Filters: []Filter{
			{Key: "action", Kind: KindList, Rule: "oneof=created updated deleted", Apply: func(v Value) Predicate {
				return In("activity_events.action", v.List)
			}},
			{Key: "target_type", Kind: KindText, Apply: func(v Value) Predicate {
				return Equals("activity_events.target_type", v.Text)
			}},
			{Key: "target_id", Kind: KindID, Apply: func(v Value) Predicate {
				return Equals("activity_events.target_id", v.ID)
			}},
			{Key: "created_after", Kind: KindTime, Apply: func(v Value) Predicate {
				return RangeAfterOrEqual("activity_events.created_at", v.Time)
			}},
			{Key: "created_before", Kind: KindTime, Apply: func(v Value) Predicate {
				return RangeBefore("activity_events.created_at", v.Time)
			}},
		},
	}
}

// AuditEventsDefinition is the actor's audit trail.
func AuditEventsDefinition() Definition {
	return Definition{
		Name:     "audit_events",
		Resource: scope.ResourceAuditEvents,
		Filters: []Filter{
			{Key: "type", Kind: KindList, Rule: "oneof=authentication permanent_action", Apply: func(v Value) Predicate {
				return In("audit_events.audit_type", v.List)
			}},
			{Key: "created_after", Kind: KindTime, Apply: func(v Value) Predicate {
				return RangeAfterOrEqual("audit_events.created_at", v.Time)
			}},
			{Key: "created_before", Kind: KindTime, Apply: func(v Value) Predicate {
				return RangeBefore("audit_events.created_at", v.Time)
			}},
		},
	}
}

// NewActivityEventsFinder builds the activity feed finder.
func NewActivityEventsFinder(resolver *scope.Resolver, opts Options) *Finder[models.ActivityEvent] {
	return New[models.ActivityEvent](resolver, ActivityEventsDefinition(), opts)
}

// NewAuditEventsFinder builds the audit trail finder.
func NewAuditEventsFinder(resolver *scope.Resolver, opts Options) *Finder[models.AuditEvent] {
	return New[models.AuditEvent](resolver, AuditEventsDefinition(), opts)
}
