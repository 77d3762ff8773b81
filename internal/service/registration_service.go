package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/dto"
	"github.com/noah-isme/elplano-go-api/internal/eventlog"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/repository"
)

// RegistrationService signs up new accounts.
type RegistrationService interface {
	Register(ctx context.Context, payload dto.RegistrationRequest) (dto.UserResponse, error)
}

type registrationService struct {
	db        *gorm.DB
	users     repository.UserRepository
	recorder  *eventlog.Recorder
	validator *validator.Validate
	logger    zerolog.Logger
	cost      int
}

// NewRegistrationService constructs the registration service.
func NewRegistrationService(db *gorm.DB, users repository.UserRepository, recorder *eventlog.Recorder, validate *validator.Validate, logger zerolog.Logger) RegistrationService {
	return &registrationService{
		db:        db,
		users:     users,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "registration_service").Logger(),
		cost:      bcrypt.DefaultCost,
	}
}

// Register creates the user with an empty student profile and records both
// the activity and the authentication audit event.
func (s *registrationService) Register(ctx context.Context, payload dto.RegistrationRequest) (dto.UserResponse, error) {
	payload.Username = strings.TrimSpace(payload.Username)
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.UserResponse{}, err
	}

	username, email := payload.Username, payload.Email

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.cost)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:          username,
		Email:             email,
		EncryptedPassword: string(hash),
		Locale:            payload.Locale,
		Timezone:          payload.Timezone,
	}
	if user.Timezone == "" {
		user.Timezone = models.DefaultTimezone
	}
	student := models.Student{FullName: plainText(payload.FullName), Email: email}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		taken, err := users.Taken(ctx, username, email)
		if err != nil {
			return err
		}
		if taken {
			return apperror.Invalid("username", "or email has already been taken")
		}

		if err := users.Create(ctx, &user, &student); err != nil {
			if repository.IsDuplicate(err) {
				return apperror.Invalid("username", "or email has already been taken")
			}
			return err
		}

		target := eventlog.TargetOf(user)
		if _, err := s.recorder.Activity(ctx, tx, user.ID, target, models.ActivityCreated, nil); err != nil {
			return err
		}
		_, err = s.recorder.Audit(ctx, tx, user.ID, target, models.AuditAuthentication, map[string]interface{}{
			"event": "registration",
		})
		return err
	})
	if err != nil {
		return dto.UserResponse{}, apperror.Transaction("register user", err)
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user registered")
	return dto.NewUserResponse(user), nil
}
