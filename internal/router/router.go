package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/elplano-go-api/internal/config"
	"github.com/noah-isme/elplano-go-api/internal/handler"
	"github.com/noah-isme/elplano-go-api/internal/middleware"
	"github.com/noah-isme/elplano-go-api/internal/observability"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EventHandler    *handler.EventHandler
	GroupHandler    *handler.GroupHandler
	ReportHandler   *handler.ReportHandler
	UserHandler     *handler.UserHandler
	EventLogHandler *handler.EventLogHandler
	AdminHandler    *handler.AdminHandler

	// AuthMiddleware parses the bearer token. Defaults to JWTOptional.
	AuthMiddleware fiber.Handler
	// ActorLoader turns the token subject into a scope.Actor.
	ActorLoader middleware.ActorLoader
	// DB is probed by the health endpoint when set.
	DB handler.Pinger
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.DB))

	auth := deps.AuthMiddleware
	if auth == nil {
		auth = middleware.JWTOptional(cfg.JWTSecret)
	}
	api.Use(auth, middleware.WithActor(deps.ActorLoader), middleware.RateLimit("api", cfg.RateLimitMax, cfg.RateLimitWindow))

	if deps.UserHandler != nil {
		deps.UserHandler.Register(api.Group("/users"))
	}

	protected := func(prefix string, handlers ...fiber.Handler) fiber.Router {
		return api.Group(prefix, append([]fiber.Handler{middleware.RequireUser()}, handlers...)...)
	}

	if deps.EventHandler != nil {
		deps.EventHandler.RegisterEvents(protected("/events"))
		deps.EventHandler.RegisterTasks(protected("/tasks"))
	}
	if deps.GroupHandler != nil {
		deps.GroupHandler.Register(protected("/group"))
		deps.GroupHandler.RegisterInvites(protected("/invites"))
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.RegisterBugReports(protected("/bug_reports"))
		deps.ReportHandler.RegisterAbuseReports(protected("/abuse_reports"))
	}
	if deps.EventLogHandler != nil {
		deps.EventLogHandler.RegisterActivity(protected("/activity"))
		deps.EventLogHandler.RegisterAudit(protected("/audit"))
	}
	if deps.AdminHandler != nil {
		deps.AdminHandler.Register(protected("/admin", middleware.RequireRole(scope.RoleAdmin)))
	}
}
