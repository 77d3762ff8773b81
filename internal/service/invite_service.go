package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/dto"
	"github.com/noah-isme/elplano-go-api/internal/eventlog"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/notify"
	"github.com/noah-isme/elplano-go-api/internal/repository"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// InviteService sends group invitations.
type InviteService interface {
	Create(ctx context.Context, actor scope.Actor, payload dto.InviteCreateRequest) (dto.InviteResponse, error)
}

type inviteService struct {
	db        *gorm.DB
	groups    repository.GroupRepository
	recorder  *eventlog.Recorder
	notifier  notify.Notifier
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewInviteService constructs the invite service.
func NewInviteService(db *gorm.DB, groups repository.GroupRepository, recorder *eventlog.Recorder, notifier notify.Notifier, validate *validator.Validate, logger zerolog.Logger) InviteService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &inviteService{
		db:        db,
		groups:    groups,
		recorder:  recorder,
		notifier:  notifier,
		validator: validate,
		logger:    logger.With().Str("component", "invite_service").Logger(),
		now:       time.Now,
	}
}

func (s *inviteService) Create(ctx context.Context, actor scope.Actor, payload dto.InviteCreateRequest) (dto.InviteResponse, error) {
	if err := scope.Authorize(actor, scope.PermCreateInvite); err != nil {
		return dto.InviteResponse{}, err
	}
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.InviteResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	invite := models.Invite{
		SenderID:        actor.StudentID,
		GroupID:         actor.Group(),
		Email:           email,
		InvitationToken: uuid.NewString(),
		SentAt:          s.now().UTC(),
	}

	var group models.Group
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		groups := s.groups.WithTx(tx)

		exists, err := groups.InviteExists(ctx, invite.GroupID, email)
		if err != nil {
			return err
		}
		if exists {
			return apperror.Invalid("email", "has already been invited")
		}

		if group, err = groups.GetByID(ctx, invite.GroupID); err != nil {
			return err
		}

		var recipient models.User
		lookup := tx.WithContext(ctx).Where("LOWER(email) = ?", email).Limit(1).Find(&recipient)
		if lookup.Error != nil {
			return lookup.Error
		}
		if lookup.RowsAffected > 0 {
			invite.RecipientID = &recipient.ID
		}

		if err := groups.CreateInvite(ctx, &invite); err != nil {
			if repository.IsDuplicate(err) {
				return apperror.Invalid("email", "has already been invited")
			}
			return err
		}

		_, err = s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(invite), models.ActivityCreated, map[string]interface{}{
			"email":    email,
			"group_id": invite.GroupID,
		})
		return err
	})
	if err != nil {
		if !apperror.IsValidation(err) && !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error().Err(err).Str("email", maskEmailAddress(email)).Msg("failed to create invite")
		}
		return dto.InviteResponse{}, apperror.Transaction("create invite", err)
	}

	s.notifier.Notify(ctx, notify.Notification{
		Type:           notify.TypeInvitation,
		RecipientEmail: email,
		RecipientID:    invite.RecipientID,
		Title:          "Group invitation",
		Message:        fmt.Sprintf("You have been invited to join group %s.", group.Number),
		Data: map[string]interface{}{
			"invite_id": invite.ID,
			"group_id":  invite.GroupID,
			"token":     invite.InvitationToken,
		},
	})

	s.logger.Info().Uint("invite_id", invite.ID).Str("email", maskEmailAddress(email)).Msg("invite created")
	return dto.NewInviteResponse(invite), nil
}
