package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/elplano-go-api/internal/config"
	"github.com/noah-isme/elplano-go-api/internal/database"
	"github.com/noah-isme/elplano-go-api/internal/eventlog"
	"github.com/noah-isme/elplano-go-api/internal/finder"
	"github.com/noah-isme/elplano-go-api/internal/handler"
	"github.com/noah-isme/elplano-go-api/internal/logger"
	"github.com/noah-isme/elplano-go-api/internal/middleware"
	"github.com/noah-isme/elplano-go-api/internal/notify"
	"github.com/noah-isme/elplano-go-api/internal/repository"
	"github.com/noah-isme/elplano-go-api/internal/router"
	"github.com/noah-isme/elplano-go-api/internal/scope"
	"github.com/noah-isme/elplano-go-api/internal/service"
	"github.com/noah-isme/elplano-go-api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log, closer := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Service: cfg.AppName, Env: cfg.AppEnv})
	defer closer.Close()

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to access database handle")
	}
	defer sqlDB.Close()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL, cfg.AppName)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer natsConn.Close()
	}

	notifier := notify.Multi{
		notify.NewBroker(redisClient, natsConn, cfg.NotifyChannel, log),
		notify.NewShoutrrr(cfg.NotifyURLs, log),
	}

	validate := service.NewValidator()
	recorder := eventlog.NewRecorder(eventlog.WithInvalidator(service.NewFeedCache(redisClient, log)))
	resolver := scope.NewResolver(db)
	opts := finder.Options{
		Validator:       validate,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	eventRepo := repository.NewEventRepository(db)
	reportRepo := repository.NewReportRepository(db)

	eventsFinder := finder.NewEventsFinder(resolver, opts)
	tasksFinder := finder.NewTasksFinder(resolver, opts)
	coursesFinder := finder.NewCoursesFinder(resolver, opts)
	studentsFinder := finder.NewStudentsFinder(resolver, opts)
	usersFinder := finder.NewUsersFinder(resolver, opts)
	activityFinder := finder.NewActivityEventsFinder(resolver, opts)
	auditFinder := finder.NewAuditEventsFinder(resolver, opts)

	eventService := service.NewEventService(db, eventRepo, studentRepo, eventsFinder, tasksFinder, coursesFinder, recorder, validate, log)
	groupService := service.NewGroupService(db, groupRepo, studentRepo, recorder, validate, log)
	inviteService := service.NewInviteService(db, groupRepo, recorder, notifier, validate, log)
	courseService := service.NewCourseService(db, courseRepo, coursesFinder, recorder, validate, log)
	reportService := service.NewReportService(db, reportRepo, userRepo, recorder, validate, log)
	registrationService := service.NewRegistrationService(db, userRepo, recorder, validate, log)
	adminUserService := service.NewAdminUserService(db, userRepo, usersFinder, recorder, validate, log)
	feedService := service.NewEventFeedService(db, activityFinder, auditFinder, eventlog.DefaultRegistry(), redisClient, cfg.FeedCacheTTL, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ErrorHandler: utils.SendAppError,
	})

	middleware.Register(app, middleware.Config{Logger: &log, AllowOrigins: cfg.AllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		EventHandler:    handler.NewEventHandler(eventService, eventsFinder, tasksFinder, log),
		GroupHandler:    handler.NewGroupHandler(groupService, inviteService, courseService, studentsFinder, coursesFinder, log),
		ReportHandler:   handler.NewReportHandler(reportService, finder.NewBugReportsFinder(resolver, opts), finder.NewAbuseReportsFinder(resolver, opts), log),
		UserHandler:     handler.NewUserHandler(registrationService, log),
		EventLogHandler: handler.NewEventLogHandler(feedService, log),
		AdminHandler:    handler.NewAdminHandler(adminUserService, usersFinder, finder.NewAdminBugReportsFinder(resolver, opts), finder.NewAdminAbuseReportsFinder(resolver, opts), log),
		ActorLoader:     repository.NewActorRepository(db),
		DB:              sqlDB,
	})

	go func() {
		log.Info().Str("address", cfg.HTTPAddress()).Msg("starting server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, log)
}

func waitForShutdown(app *fiber.App, log zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("server stopped")
}
