package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/dto"
	"github.com/noah-isme/elplano-go-api/internal/eventlog"
	"github.com/noah-isme/elplano-go-api/internal/finder"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/repository"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// AdminUserService lets administrators manage accounts.
type AdminUserService interface {
	Manage(ctx context.Context, actor scope.Actor, id uint, payload dto.UserManageRequest) (dto.UserResponse, error)
	Delete(ctx context.Context, actor scope.Actor, id uint) error
}

type adminUserService struct {
	db        *gorm.DB
	users     repository.UserRepository
	finder    *finder.Finder[models.User]
	recorder  *eventlog.Recorder
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAdminUserService constructs the admin user service.
func NewAdminUserService(db *gorm.DB, users repository.UserRepository, usersFinder *finder.Finder[models.User], recorder *eventlog.Recorder, validate *validator.Validate, logger zerolog.Logger) AdminUserService {
	return &adminUserService{
		db:        db,
		users:     users,
		finder:    usersFinder,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "admin_user_service").Logger(),
		now:       time.Now,
	}
}

func (s *adminUserService) Manage(ctx context.Context, actor scope.Actor, id uint, payload dto.UserManageRequest) (dto.UserResponse, error) {
	if err := scope.Authorize(actor, scope.PermAdminister); err != nil {
		return dto.UserResponse{}, err
	}
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.UserResponse{}, err
	}
	if id == actor.UserID && payload.Action == dto.UserActionBan {
		return dto.UserResponse{}, apperror.Invalid("action", "cannot ban yourself")
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = s.finder.FindWith(tx, actor, scope.ViewDefault, id)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		switch payload.Action {
		case dto.UserActionBan:
			user.BannedAt = &now
		case dto.UserActionUnban:
			user.BannedAt = nil
		case dto.UserActionConfirm:
			if user.ConfirmedAt == nil {
				user.ConfirmedAt = &now
			}
		}

		if err := s.users.WithTx(tx).Save(ctx, &user); err != nil {
			return err
		}

		_, err = s.recorder.Audit(ctx, tx, actor.UserID, eventlog.TargetOf(user), models.AuditPermanentAction, map[string]interface{}{
			"action": payload.Action,
		})
		return err
	})
	if err != nil {
		return dto.UserResponse{}, apperror.Transaction("manage user", err)
	}

	s.logger.Info().Uint("admin_id", actor.UserID).Uint("user_id", id).Str("action", payload.Action).Msg("user managed")
	return dto.NewUserResponse(user), nil
}

// Delete removes an account and every event it authored. The audit event
// describing the deletion is authored by the administrator and survives.
func (s *adminUserService) Delete(ctx context.Context, actor scope.Actor, id uint) error {
	if err := scope.Authorize(actor, scope.PermAdminister); err != nil {
		return err
	}
	if id == actor.UserID {
		return apperror.Invalid("id", "cannot delete yourself")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.finder.FindWith(tx, actor, scope.ViewDefault, id)
		if err != nil {
			return err
		}
		if err := s.users.WithTx(tx).Delete(ctx, user.ID); err != nil {
			return err
		}

		_, err = s.recorder.Audit(ctx, tx, actor.UserID, eventlog.TargetOf(user), models.AuditPermanentAction, map[string]interface{}{
			"action":   "delete",
			"username": user.Username,
		})
		return err
	})
	if err != nil {
		return apperror.Transaction("delete user", err)
	}

	s.logger.Warn().Uint("admin_id", actor.UserID).Uint("user_id", id).Msg("user deleted")
	return nil
}
