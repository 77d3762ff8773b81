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

// ReportHandler serves the actor's bug and abuse reports.
type ReportHandler struct {
	service service.ReportService
	bugs    *finder.Finder[models.BugReport]
	abuse   *finder.Finder[models.AbuseReport]
	logger  zerolog.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(svc service.ReportService, bugs *finder.Finder[models.BugReport], abuse *finder.Finder[models.AbuseReport], logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		bugs:    bugs,
		abuse:   abuse,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// RegisterBugReports attaches /bug_reports routes.
func (h *ReportHandler) RegisterBugReports(router fiber.Router) {
	router.Get("", h.listBugReports)
	router.Post("", h.createBugReport)
}

// RegisterAbuseReports attaches /abuse_reports routes.
func (h *ReportHandler) RegisterAbuseReports(router fiber.Router) {
	router.Get("", h.listAbuseReports)
	router.Post("", h.createAbuseReport)
}

func (h *ReportHandler) listBugReports(c *fiber.Ctx) error {
	page, err := list(c, h.bugs, dto.NewBugReportResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "bug reports retrieved", page)
}

func (h *ReportHandler) createBugReport(c *fiber.Ctx) error {
	var payload dto.BugReportCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}
	report, err := h.service.CreateBugReport(c.UserContext(), middleware.Actor(c), payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "bug report filed", report)
}

func (h *ReportHandler) listAbuseReports(c *fiber.Ctx) error {
	page, err := list(c, h.abuse, dto.NewAbuseReportResponse)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccess(c, "abuse reports retrieved", page)
}

func (h *ReportHandler) createAbuseReport(c *fiber.Ctx) error {
	var payload dto.AbuseReportCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}
	report, err := h.service.CreateAbuseReport(c.UserContext(), middleware.Actor(c), payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "abuse report filed", report)
}
