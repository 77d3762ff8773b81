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

// GroupHandler serves the actor's group, its classmates, courses and invites.
type GroupHandler struct {
	groups   service.GroupService
	invites  service.InviteService
	courses  service.CourseService
	students *finder.Finder[models.Student]
	courseF  *finder.Finder[models.Course]
	logger   zerolog.Logger
}

// NewGroupHandler constructs the handler.
func NewGroupHandler(groups service.GroupService, invites service.InviteService, courses service.CourseService, students *finder.Finder[models.Student], courseFinder *finder.Finder[models.Course], logger zerolog.Logger) *GroupHandler {
	return &GroupHandler{
		groups:   groups,
		invites:  invites,
		courses:  courses,
		students: students,
		courseF:  courseFinder,
		logger:   logger.With().Str("component", "group_handler").Logger(),
	}
}

// Register attaches /group routes.
func (h *GroupHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Post("", h.create)
	router.Put("", h.update)

	router.Get("/students", h.listStudents)
	router.Get("/students/:id", h.getStudent)

	router.Get("/courses", h.listCourses)
	router.Post("/courses", h.createCourse)
	router.Get("/courses/:id", h.getCourse)
	router.Put("/courses/:id", h.updateCourse)
	router.Delete("/courses/:id", h.deleteCourse)
}

// RegisterInvites attaches /invites routes.
func (h *GroupHandler) RegisterInvites(router fiber.Router) {
	router.Post("", h.createInvite)
}

func (h *GroupHandler) get(c *fiber.Ctx) error {
	group, err := h.groups.Get(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "group retrieved", group)
}

func (h *GroupHandler) create(c *fiber.Ctx) error {
	var payload dto.GroupCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}
	group, err := h.groups.Create(c.UserContext(), middleware.Actor(c), payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "group created", group)
}

func (h *GroupHandler) update(c *fiber.Ctx) error {
	var payload dto.GroupUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}
	group, err := h.groups.Update(c.UserContext(), middleware.Actor(c), payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "group updated", group)
}

func (h *GroupHandler) listStudents(c *fiber.Ctx) error {
	page, err := list(c, h.students, dto.NewStudentResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "students retrieved", page)
}

func (h *GroupHandler) getStudent(c *fiber.Ctx) error {
	student, err := show(c, h.students, dto.NewStudentResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *GroupHandler) listCourses(c *fiber.Ctx) error {
	page, err := list(c, h.courseF, dto.NewCourseResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "courses retrieved", page)
}

func (h *GroupHandler) getCourse(c *fiber.Ctx) error {
	course, err := show(c, h.courseF, dto.NewCourseResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *GroupHandler) createCourse(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}
	course, err := h.courses.Create(c.UserContext(), middleware.Actor(c), payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *GroupHandler) updateCourse(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respond(c, h.logger, err)
	}
	var payload dto.CourseUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}
	course, err := h.courses.Update(c.UserContext(), middleware.Actor(c), id, payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "course updated", course)
}

func (h *GroupHandler) deleteCourse(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respond(c, h.logger, err)
	}
	if err := h.courses.Delete(c.UserContext(), middleware.Actor(c), id); err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "course deleted", fiber.Map{"id": id})
}

func (h *GroupHandler) createInvite(c *fiber.Ctx) error {
	var payload dto.InviteCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}
	invite, err := h.invites.Create(c.UserContext(), middleware.Actor(c), payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "invite sent", invite)
}
