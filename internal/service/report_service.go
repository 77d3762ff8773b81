package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/dto"
	"github.com/noah-isme/elplano-go-api/internal/eventlog"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/repository"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// ReportService files bug and abuse reports.
type ReportService interface {
	CreateBugReport(ctx context.Context, actor scope.Actor, payload dto.BugReportCreateRequest) (dto.BugReportResponse, error)
	CreateAbuseReport(ctx context.Context, actor scope.Actor, payload dto.AbuseReportCreateRequest) (dto.AbuseReportResponse, error)
}

type reportService struct {
	db        *gorm.DB
	reports   repository.ReportRepository
	users     repository.UserRepository
	recorder  *eventlog.Recorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewReportService constructs the report service.
func NewReportService(db *gorm.DB, reports repository.ReportRepository, users repository.UserRepository, recorder *eventlog.Recorder, validate *validator.Validate, logger zerolog.Logger) ReportService {
	return &reportService{
		db:        db,
		reports:   reports,
		users:     users,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) CreateBugReport(ctx context.Context, actor scope.Actor, payload dto.BugReportCreateRequest) (dto.BugReportResponse, error) {
	if err := scope.Authorize(actor, scope.PermReport); err != nil {
		return dto.BugReportResponse{}, err
	}
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.BugReportResponse{}, err
	}

	report := models.BugReport{ReporterID: actor.UserID, Message: plainText(payload.Message)}
	if report.Message == "" {
		return dto.BugReportResponse{}, apperror.Invalid("message", "must not be blank")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.reports.WithTx(tx).CreateBug(ctx, &report); err != nil {
			return err
		}
		_, err := s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(report), models.ActivityCreated, nil)
		return err
	})
	if err != nil {
		return dto.BugReportResponse{}, apperror.Transaction("create bug report", err)
	}

	return dto.NewBugReportResponse(report), nil
}

// CreateAbuseReport files a complaint. A user can be reported only once and
// never by themselves.
func (s *reportService) CreateAbuseReport(ctx context.Context, actor scope.Actor, payload dto.AbuseReportCreateRequest) (dto.AbuseReportResponse, error) {
	if err := scope.Authorize(actor, scope.PermReport); err != nil {
		return dto.AbuseReportResponse{}, err
	}
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.AbuseReportResponse{}, err
	}
	if payload.UserID == actor.UserID {
		return dto.AbuseReportResponse{}, apperror.Invalid("user_id", "cannot report yourself")
	}

	report := models.AbuseReport{ReporterID: actor.UserID, UserID: payload.UserID, Message: plainText(payload.Message)}
	if report.Message == "" {
		return dto.AbuseReportResponse{}, apperror.Invalid("message", "must not be blank")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.users.WithTx(tx).GetByID(ctx, payload.UserID); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.Invalid("user_id", "does not exist")
			}
			return err
		}

		reports := s.reports.WithTx(tx)
		reported, err := reports.AbuseReported(ctx, payload.UserID)
		if err != nil {
			return err
		}
		if reported {
			return apperror.Invalid("user_id", "has already been reported")
		}

		if err := reports.CreateAbuse(ctx, &report); err != nil {
			if repository.IsDuplicate(err) {
				return apperror.Invalid("user_id", "has already been reported")
			}
			return err
		}

		_, err = s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(report), models.ActivityCreated, map[string]interface{}{
			"user_id": report.UserID,
		})
		return err
	})
	if err != nil {
		return dto.AbuseReportResponse{}, apperror.Transaction("create abuse report", err)
	}

	s.logger.Info().Uint("reporter_id", actor.UserID).Uint("user_id", report.UserID).Msg("abuse report filed")
	return dto.NewAbuseReportResponse(report), nil
}
