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

// AdminHandler serves administrator routes.
type AdminHandler struct {
	users  service.AdminUserService
	userF  *finder.Finder[models.User]
	bugs   *finder.Finder[models.BugReport]
	abuse  *finder.Finder[models.AbuseReport]
	logger zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(users service.AdminUserService, usersFinder *finder.Finder[models.User], bugs *finder.Finder[models.BugReport], abuse *finder.Finder[models.AbuseReport], logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		users:  users,
		userF:  usersFinder,
		bugs:   bugs,
		abuse:  abuse,
		logger: logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches /admin routes. The router is expected to be guarded by
// an admin role check.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/users", h.listUsers)
	router.Get("/users/:id", h.getUser)
	router.Patch("/users/:id", h.manageUser)
	router.Delete("/users/:id", h.deleteUser)

	router.Get("/bug_reports", h.listBugReports)
	router.Get("/abuse_reports", h.listAbuseReports)
}

func (h *AdminHandler) listUsers(c *fiber.Ctx) error {
	page, err := list(c, h.userF, dto.NewUserResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "users retrieved", page)
}

func (h *AdminHandler) getUser(c *fiber.Ctx) error {
	user, err := show(c, h.userF, dto.NewUserResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "user retrieved", user)
}

func (h *AdminHandler) manageUser(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respond(c, h.logger, err)
	}
	var payload dto.UserManageRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}
	user, err := h.users.Manage(c.UserContext(), middleware.Actor(c), id, payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "user updated", user)
}

func (h *AdminHandler) deleteUser(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respond(c, h.logger, err)
	}
	if err := h.users.Delete(c.UserContext(), middleware.Actor(c), id); err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "user deleted", fiber.Map{"id": id})
}

func (h *AdminHandler) listBugReports(c *fiber.Ctx) error {
	page, err := list(c, h.bugs, dto.NewBugReportResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "bug reports retrieved", page)
}

func (h *AdminHandler) listAbuseReports(c *fiber.Ctx) error {
	page, err := list(c, h.abuse, dto.NewAbuseReportResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "abuse reports retrieved", page)
}
