package service

import (
	"context"
	"strings"

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

// GroupService manages the actor's group.
type GroupService interface {
	Get(ctx context.Context, actor scope.Actor) (dto.GroupResponse, error)
	Create(ctx context.Context, actor scope.Actor, payload dto.GroupCreateRequest) (dto.GroupResponse, error)
	Update(ctx context.Context, actor scope.Actor, payload dto.GroupUpdateRequest) (dto.GroupResponse, error)
}

type groupService struct {
	db        *gorm.DB
	groups    repository.GroupRepository
	students  repository.StudentRepository
	recorder  *eventlog.Recorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewGroupService constructs the group service.
func NewGroupService(db *gorm.DB, groups repository.GroupRepository, students repository.StudentRepository, recorder *eventlog.Recorder, validate *validator.Validate, logger zerolog.Logger) GroupService {
	return &groupService{
		db:        db,
		groups:    groups,
		students:  students,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "group_service").Logger(),
	}
}

func (s *groupService) Get(ctx context.Context, actor scope.Actor) (dto.GroupResponse, error) {
	if !actor.HasGroup() {
		return dto.GroupResponse{}, apperror.ErrNotFound
	}
	group, err := s.groups.GetByID(ctx, actor.Group())
	if err != nil {
		return dto.GroupResponse{}, err
	}
	return dto.NewGroupResponse(group), nil
}

func (s *groupService) Create(ctx context.Context, actor scope.Actor, payload dto.GroupCreateRequest) (dto.GroupResponse, error) {
	if err := scope.Authorize(actor, scope.PermCreateGroup); err != nil {
		return dto.GroupResponse{}, err
	}
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.GroupResponse{}, err
	}

	group := models.Group{
		PresidentID: actor.StudentID,
		Number:      strings.TrimSpace(payload.Number),
		Title:       plainText(payload.Title),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.groups.WithTx(tx).Create(ctx, &group); err != nil {
			return err
		}

		students := s.students.WithTx(tx)
		student, err := students.GetByID(ctx, actor.StudentID)
		if err != nil {
			return err
		}
		student.GroupID = &group.ID
		student.President = true
		if err := students.Save(ctx, &student); err != nil {
			return err
		}

		_, err = s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(group), models.ActivityCreated, map[string]interface{}{
			"number": group.Number,
		})
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("student_id", actor.StudentID).Msg("failed to create group")
		return dto.GroupResponse{}, apperror.Transaction("create group", err)
	}

	s.logger.Info().Uint("group_id", group.ID).Uint("student_id", actor.StudentID).Msg("group created")
	return dto.NewGroupResponse(group), nil
}

func (s *groupService) Update(ctx context.Context, actor scope.Actor, payload dto.GroupUpdateRequest) (dto.GroupResponse, error) {
	if err := scope.Authorize(actor, scope.PermManageGroup); err != nil {
		return dto.GroupResponse{}, err
	}
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.GroupResponse{}, err
	}

	var group models.Group
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		groups := s.groups.WithTx(tx)
		var err error
		group, err = groups.GetByID(ctx, actor.Group())
		if err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if payload.Number != nil {
			group.Number = strings.TrimSpace(*payload.Number)
			changes["number"] = group.Number
		}
		if payload.Title != nil {
			group.Title = plainText(*payload.Title)
			changes["title"] = group.Title
		}
		if err := groups.Save(ctx, &group); err != nil {
			return err
		}

		_, err = s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(group), models.ActivityUpdated, changes)
		return err
	})
	if err != nil {
		return dto.GroupResponse{}, apperror.Transaction("update group", err)
	}

	return dto.NewGroupResponse(group), nil
}
