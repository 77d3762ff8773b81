package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/dto"
	"github.com/noah-isme/elplano-go-api/internal/eventlog"
	"github.com/noah-isme/elplano-go-api/internal/finder"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/observability"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// EventFeedService lists the actor's activity feed and audit trail with
// their targets resolved.
type EventFeedService interface {
	Activity(ctx context.Context, actor scope.Actor, filters finder.FilterSet) (dto.ListResponse[dto.ActivityEventResponse], error)
	Audit(ctx context.Context, actor scope.Actor, filters finder.FilterSet) (dto.ListResponse[dto.AuditEventResponse], error)
}

type eventFeedService struct {
	db       *gorm.DB
	activity *finder.Finder[models.ActivityEvent]
	audit    *finder.Finder[models.AuditEvent]
	registry *eventlog.Registry
	cache    *redis.Client
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewEventFeedService builds the feed service. A nil cache disables caching.
func NewEventFeedService(db *gorm.DB, activity *finder.Finder[models.ActivityEvent], audit *finder.Finder[models.AuditEvent], registry *eventlog.Registry, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) EventFeedService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if registry == nil {
		registry = eventlog.DefaultRegistry()
	}
	return &eventFeedService{
		db:       db,
		activity: activity,
		audit:    audit,
		registry: registry,
		cache:    cache,
		ttl:      ttl,
		logger:   logger.With().Str("component", "event_feed_service").Logger(),
	}
}

func (s *eventFeedService) Activity(ctx context.Context, actor scope.Actor, filters finder.FilterSet) (dto.ListResponse[dto.ActivityEventResponse], error) {
	var response dto.ListResponse[dto.ActivityEventResponse]
	key := s.cacheKey(s.activity.Name(), actor, filters)
	if s.cached(ctx, s.activity.Name(), key, &response) {
		return response, nil
	}

	result, err := s.activity.Execute(ctx, actor, filters)
	if err != nil {
		return response, err
	}

	targets := make([]eventlog.Target, len(result.Items))
	for i, event := range result.Items {
		targets[i] = eventlog.ActivityTarget(event)
	}
	resolved, err := s.registry.ResolveAll(ctx, s.db, targets)
	if err != nil {
		return response, err
	}

	response = dto.ListResponse[dto.ActivityEventResponse]{
		Items:      make([]dto.ActivityEventResponse, 0, len(result.Items)),
		Pagination: result.Page,
	}
	for i, event := range result.Items {
		response.Items = append(response.Items, dto.NewActivityEventResponse(event, resolved[i]))
	}

	s.store(ctx, key, response)
	return response, nil
}

func (s *eventFeedService) Audit(ctx context.Context, actor scope.Actor, filters finder.FilterSet) (dto.ListResponse[dto.AuditEventResponse], error) {
	var response dto.ListResponse[dto.AuditEventResponse]
	key := s.cacheKey(s.audit.Name(), actor, filters)
	if s.cached(ctx, s.audit.Name(), key, &response) {
		return response, nil
	}

	result, err := s.audit.Execute(ctx, actor, filters)
	if err != nil {
		return response, err
	}

	targets := make([]eventlog.Target, len(result.Items))
	for i, event := range result.Items {
		targets[i] = eventlog.AuditTarget(event)
	}
	resolved, err := s.registry.ResolveAll(ctx, s.db, targets)
	if err != nil {
		return response, err
	}

	response = dto.ListResponse[dto.AuditEventResponse]{
		Items:      make([]dto.AuditEventResponse, 0, len(result.Items)),
		Pagination: result.Page,
	}
	for i, event := range result.Items {
		response.Items = append(response.Items, dto.NewAuditEventResponse(event, resolved[i]))
	}

	s.store(ctx, key, response)
	return response, nil
}

// cacheKey is empty when caching is off. encoding/json sorts map keys, so
// equal filter sets share a key.
func (s *eventFeedService) cacheKey(feed string, actor scope.Actor, filters finder.FilterSet) string {
	if s.cache == nil || !actor.Authenticated() {
		return ""
	}
	encoded, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s%s:%d:%s", feedKeyPrefix, feed, actor.UserID, encoded)
}

func (s *eventFeedService) cached(ctx context.Context, feed, key string, out interface{}) bool {
	if key == "" {
		return false
	}
	payload, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("feed", feed).Msg("failed to read feed cache")
		}
		observability.FeedCacheRequests().WithLabelValues(feed, "miss").Inc()
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		observability.FeedCacheRequests().WithLabelValues(feed, "miss").Inc()
		return false
	}
	observability.FeedCacheRequests().WithLabelValues(feed, "hit").Inc()
	return true
}

func (s *eventFeedService) store(ctx context.Context, key string, response interface{}) {
	if key == "" {
		return
	}
	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write feed cache")
	}
}
