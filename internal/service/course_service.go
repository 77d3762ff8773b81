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
	"github.com/noah-isme/elplano-go-api/internal/finder"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/repository"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// CourseService manages the courses of the president's group.
type CourseService interface {
	Create(ctx context.Context, actor scope.Actor, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, actor scope.Actor, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, actor scope.Actor, id uint) error
}

type courseService struct {
	db        *gorm.DB
	courses   repository.CourseRepository
	finder    *finder.Finder[models.Course]
	recorder  *eventlog.Recorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCourseService constructs the course service. Lookups go through the
// courses finder so only the president's own courses can be changed.
func NewCourseService(db *gorm.DB, courses repository.CourseRepository, courseFinder *finder.Finder[models.Course], recorder *eventlog.Recorder, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		db:        db,
		courses:   courses,
		finder:    courseFinder,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) Create(ctx context.Context, actor scope.Actor, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := scope.Authorize(actor, scope.PermManageCourses); err != nil {
		return dto.CourseResponse{}, err
	}
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		GroupID: actor.Group(),
		Title:   strings.TrimSpace(payload.Title),
		Active:  true,
	}
	if payload.Active != nil {
		course.Active = *payload.Active
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := s.courses.WithTx(tx)
		if err := s.ensureTitleFree(ctx, courses, course.GroupID, course.Title, 0); err != nil {
			return err
		}
		if err := courses.Create(ctx, &course); err != nil {
			return duplicateTitle(err)
		}

		_, err := s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(course), models.ActivityCreated, map[string]interface{}{
			"title": course.Title,
		})
		return err
	})
	if err != nil {
		return dto.CourseResponse{}, apperror.Transaction("create course", err)
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, actor scope.Actor, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := scope.Authorize(actor, scope.PermManageCourses); err != nil {
		return dto.CourseResponse{}, err
	}
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.CourseResponse{}, err
	}

	var course models.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = s.finder.FindWith(tx, actor, scope.ViewDefault, id)
		if err != nil {
			return err
		}

		courses := s.courses.WithTx(tx)
		changes := map[string]interface{}{}
		if payload.Title != nil {
			title := strings.TrimSpace(*payload.Title)
			if err := s.ensureTitleFree(ctx, courses, course.GroupID, title, course.ID); err != nil {
				return err
			}
			course.Title = title
			changes["title"] = title
		}
		if payload.Active != nil {
			course.Active = *payload.Active
			changes["active"] = course.Active
		}

		if err := courses.Save(ctx, &course); err != nil {
			return duplicateTitle(err)
		}

		_, err = s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(course), models.ActivityUpdated, changes)
		return err
	})
	if err != nil {
		return dto.CourseResponse{}, apperror.Transaction("update course", err)
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, actor scope.Actor, id uint) error {
	if err := scope.Authorize(actor, scope.PermManageCourses); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.finder.FindWith(tx, actor, scope.ViewDefault, id)
		if err != nil {
			return err
		}
		if err := s.courses.WithTx(tx).Delete(ctx, &course); err != nil {
			return err
		}

		_, err = s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(course), models.ActivityDeleted, map[string]interface{}{
			"title": course.Title,
		})
		return err
	})
	if err != nil {
		return apperror.Transaction("delete course", err)
	}

	s.logger.Info().Uint("course_id", id).Uint("group_id", actor.Group()).Msg("course deleted")
	return nil
}

func (s *courseService) ensureTitleFree(ctx context.Context, courses repository.CourseRepository, groupID uint, title string, exceptID uint) error {
	taken, err := courses.TitleTaken(ctx, groupID, title, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Invalid("title", "has already been taken")
	}
	return nil
}

func duplicateTitle(err error) error {
	if repository.IsDuplicate(err) {
		return apperror.Invalid("title", "has already been taken")
	}
	return err
}
