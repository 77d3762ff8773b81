package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/elplano-go-api/internal/middleware"
	"github.com/noah-isme/elplano-go-api/internal/service"
	"github.com/noah-isme/elplano-go-api/internal/utils"
)

// EventLogHandler serves the actor's activity feed and audit trail.
type EventLogHandler struct {
	feed   service.EventFeedService
	logger zerolog.Logger
}

// NewEventLogHandler constructs the handler.
func NewEventLogHandler(feed service.EventFeedService, logger zerolog.Logger) *EventLogHandler {
	return &EventLogHandler{
		feed:   feed,
		logger: logger.With().Str("component", "event_log_handler").Logger(),
	}
}

// RegisterActivity attaches /activity routes.
func (h *EventLogHandler) RegisterActivity(router fiber.Router) {
	router.Get("/events", h.activity)
}

// RegisterAudit attaches /audit routes.
func (h *EventLogHandler) RegisterAudit(router fiber.Router) {
	router.Get("/events", h.audit)
}

func (h *EventLogHandler) activity(c *fiber.Ctx) error {
	set, err := parseFilterSet(c)
	if err != nil {
		return respond(c, h.logger, err)
	}
	page, err := h.feed.Activity(c.UserContext(), middleware.Actor(c), set)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "activity retrieved", page)
}

func (h *EventLogHandler) audit(c *fiber.Ctx) error {
	set, err := parseFilterSet(c)
	if err != nil {
		return respond(c, h.logger, err)
	}
	page, err := h.feed.Audit(c.UserContext(), middleware.Actor(c), set)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "audit events retrieved", page)
}
