package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/elplano-go-api/internal/dto"
	"github.com/noah-isme/elplano-go-api/internal/finder"
	"github.com/noah-isme/elplano-go-api/internal/middleware"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/service"
	"github.com/noah-isme/elplano-go-api/internal/utils"
)

// EventHandler serves calendar events and their tasks.
type EventHandler struct {
	service service.EventService
	events  *finder.Finder[models.Event]
	tasks   *finder.Finder[models.Task]
	logger  zerolog.Logger
}

// NewEventHandler constructs the handler.
func NewEventHandler(svc service.EventService, events *finder.Finder[models.Event], tasks *finder.Finder[models.Task], logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		service: svc,
		events:  events,
		tasks:   tasks,
		logger:  logger.With().Str("component", "event_handler").Logger(),
	}
}

// RegisterEvents attaches /events routes.
func (h *EventHandler) RegisterEvents(router fiber.Router) {
	router.Get("", h.listEvents)
	router.Get("/:id", h.getEvent)
	router.Post("", h.createEvent)
	router.Put("/:id", h.updateEvent)
	router.Delete("/:id", h.deleteEvent)
}

// RegisterTasks attaches /tasks routes.
func (h *EventHandler) RegisterTasks(router fiber.Router) {
	router.Get("", h.listTasks)
	router.Get("/:id", h.getTask)
	router.Post("", h.createTask)
	router.Put("/:id", h.updateTask)
	router.Delete("/:id", h.deleteTask)
	router.Get("/:id/assignment", h.getAssignment)
	router.Put("/:id/assignment", h.updateAssignment)
	router.Patch("/:id/assignment", h.updateAssignment)
}

func (h *EventHandler) listEvents(c *fiber.Ctx) error {
	page, err := list(c, h.events, dto.NewEventResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "events retrieved", page)
}

func (h *EventHandler) getEvent(c *fiber.Ctx) error {
	event, err := show(c, h.events, dto.NewEventResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "event retrieved", event)
}

func (h *EventHandler) createEvent(c *fiber.Ctx) error {
	var payload dto.EventCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}

	event, err := h.service.CreateEvent(c.UserContext(), middleware.Actor(c), payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "event created", event)
}

func (h *EventHandler) updateEvent(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respond(c, h.logger, err)
	}
	var payload dto.EventUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}
	event, err := h.service.UpdateEvent(c.UserContext(), middleware.Actor(c), id, payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "event updated", event)
}

func (h *EventHandler) deleteEvent(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respond(c, h.logger, err)
	}
	if err := h.service.DeleteEvent(c.UserContext(), middleware.Actor(c), id); err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "event deleted", fiber.Map{"id": id})
}

func (h *EventHandler) listTasks(c *fiber.Ctx) error {
	page, err := list(c, h.tasks, dto.NewTaskResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "tasks retrieved", page)
}

func (h *EventHandler) getTask(c *fiber.Ctx) error {
	task, err := show(c, h.tasks, dto.NewTaskResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "task retrieved", task)
}

func (h *EventHandler) createTask(c *fiber.Ctx) error {
	var payload dto.TaskCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}

	task, err := h.service.CreateTask(c.UserContext(), middleware.Actor(c), payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "task created", task)
}

func (h *EventHandler) updateTask(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respond(c, h.logger, err)
	}
	var payload dto.TaskUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}
	task, err := h.service.UpdateTask(c.UserContext(), middleware.Actor(c), id, payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "task updated", task)
}

func (h *EventHandler) deleteTask(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respond(c, h.logger, err)
	}
	if err := h.service.DeleteTask(c.UserContext(), middleware.Actor(c), id); err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "task deleted", fiber.Map{"id": id})
}

func (h *EventHandler) getAssignment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respond(c, h.logger, err)
	}
	assignment, err := h.service.GetAssignment(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "assignment retrieved", assignment)
}

func (h *EventHandler) updateAssignment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respond(c, h.logger, err)
	}
	var payload dto.AssignmentUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}
	assignment, err := h.service.UpdateAssignment(c.UserContext(), middleware.Actor(c), id, payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "assignment updated", assignment)
}
