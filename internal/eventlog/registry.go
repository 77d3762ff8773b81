package eventlog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/models"
)

// Lookup loads the entity behind a target id. It returns apperror.ErrNotFound
// when the row is gone.
type Lookup func(ctx context.Context, db *gorm.DB, id uint) (interface{}, error)

// BatchLookup loads several entities of one type at once, keyed by id.
// Missing ids are simply absent from the result.
type BatchLookup func(ctx context.Context, db *gorm.DB, ids []uint) (map[uint]interface{}, error)

// Resolved is a target rendered for readers. Removed is set when the entity
// no longer exists; Entity is nil then.
type Resolved struct {
	Target
	Removed bool        `json:"removed,omitempty"`
	Entity  interface{} `json:"entity,omitempty"`
}

// Registry maps target type tags to lookups.
type Registry struct {
	lookups map[string]Lookup
	batches map[string]BatchLookup
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{lookups: make(map[string]Lookup), batches: make(map[string]BatchLookup)}
}

// DefaultRegistry knows every target type the service records.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registerModel[models.User](registry, models.TargetUser)
	registerModel[models.Student](registry, models.TargetStudent)
	registerModel[models.Group](registry, models.TargetGroup)
	registerModel[models.Course](registry, models.TargetCourse)
	registerModel[models.Event](registry, models.TargetEvent)
	registerModel[models.Task](registry, models.TargetTask)
	registerModel[models.Assignment](registry, models.TargetAssignment)
	registerModel[models.Invite](registry, models.TargetInvite)
	registerModel[models.BugReport](registry, models.TargetBugReport)
	registerModel[models.AbuseReport](registry, models.TargetAbuseReport)
	return registry
}

func registerModel[T Targetable](registry *Registry, targetType string) {
	registry.Register(targetType, ModelLookup[T]())
	registry.RegisterBatch(targetType, ModelBatchLookup[T]())
}

// Register binds a lookup to a type tag, replacing any previous one.
func (r *Registry) Register(targetType string, lookup Lookup) {
	r.lookups[targetType] = lookup
}

// RegisterBatch binds a batch lookup to a type tag. ResolveAll prefers it over
// the single lookup.
func (r *Registry) RegisterBatch(targetType string, lookup BatchLookup) {
	r.batches[targetType] = lookup
}

// ModelBatchLookup loads every T whose primary key is in ids with one query.
func ModelBatchLookup[T Targetable]() BatchLookup {
	return func(ctx context.Context, db *gorm.DB, ids []uint) (map[uint]interface{}, error) {
		var rows []T
		if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, err
		}
		found := make(map[uint]interface{}, len(rows))
		for _, row := range rows {
			found[row.TargetID()] = row
		}
		return found, nil
	}
}

// ModelLookup loads a T by primary key.
func ModelLookup[T any]() Lookup {
	return func(ctx context.Context, db *gorm.DB, id uint) (interface{}, error) {
		var entity T
		err := db.WithContext(ctx).Take(&entity, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return entity, nil
	}
}

// Resolve loads the entity behind target. Missing rows and unknown type tags
// produce a removed placeholder instead of an error.
func (r *Registry) Resolve(ctx context.Context, db *gorm.DB, target Target) (Resolved, error) {
	lookup, ok := r.lookups[target.Type]
	if !ok {
		return Resolved{Target: target, Removed: true}, nil
	}

	entity, err := lookup(ctx, db, target.ID)
	if errors.Is(err, apperror.ErrNotFound) {
		return Resolved{Target: target, Removed: true}, nil
	}
	if err != nil {
		return Resolved{}, fmt.Errorf("resolve %s: %w", target, err)
	}
	return Resolved{Target: target, Entity: entity}, nil
}

// ResolveAll resolves targets in order, issuing one query per target type
// that has a batch lookup.
func (r *Registry) ResolveAll(ctx context.Context, db *gorm.DB, targets []Target) ([]Resolved, error) {
	ids := make(map[string][]uint)
	for _, target := range targets {
		if _, ok := r.batches[target.Type]; ok {
			ids[target.Type] = append(ids[target.Type], target.ID)
		}
	}

	loaded := make(map[string]map[uint]interface{}, len(ids))
	for targetType, typeIDs := range ids {
		found, err := r.batches[targetType](ctx, db, typeIDs)
		if err != nil {
			return nil, fmt.Errorf("resolve %s targets: %w", targetType, err)
		}
		loaded[targetType] = found
	}

	resolved := make([]Resolved, 0, len(targets))
	for _, target := range targets {
		found, batched := loaded[target.Type]
		if !batched {
			item, err := r.Resolve(ctx, db, target)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, item)
			continue
		}

		if entity, ok := found[target.ID]; ok {
			resolved = append(resolved, Resolved{Target: target, Entity: entity})
		} else {
			resolved = append(resolved, Resolved{Target: target, Removed: true})
		}
	}
	return resolved, nil
}

// ActivityTarget returns the target an activity event points at.
func ActivityTarget(event models.ActivityEvent) Target {
	return Target{Type: event.TargetType, ID: event.TargetID}
}

// AuditTarget returns the entity an audit event points at.
func AuditTarget(event models.AuditEvent) Target {
	return Target{Type: event.EntityType, ID: event.EntityID}
}
