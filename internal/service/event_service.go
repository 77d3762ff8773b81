package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/dto"
	"github.com/noah-isme/elplano-go-api/internal/eventlog"
	"github.com/noah-isme/elplano-go-api/internal/finder"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/repository"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// EventService manages calendar events, their tasks and the actor's
// assignments.
type EventService interface {
	CreateEvent(ctx context.Context, actor scope.Actor, payload dto.EventCreateRequest) (dto.EventResponse, error)
	UpdateEvent(ctx context.Context, actor scope.Actor, id uint, payload dto.EventUpdateRequest) (dto.EventResponse, error)
	DeleteEvent(ctx context.Context, actor scope.Actor, id uint) error
	CreateTask(ctx context.Context, actor scope.Actor, payload dto.TaskCreateRequest) (dto.TaskResponse, error)
	UpdateTask(ctx context.Context, actor scope.Actor, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error)
	DeleteTask(ctx context.Context, actor scope.Actor, id uint) error
	GetAssignment(ctx context.Context, actor scope.Actor, taskID uint) (dto.AssignmentResponse, error)
	UpdateAssignment(ctx context.Context, actor scope.Actor, taskID uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
}

type eventService struct {
	db        *gorm.DB
	events    repository.EventRepository
	students  repository.StudentRepository
	eventsF   *finder.Finder[models.Event]
	tasksF    *finder.Finder[models.Task]
	coursesF  *finder.Finder[models.Course]
	recorder  *eventlog.Recorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEventService constructs the event service.
func NewEventService(db *gorm.DB, events repository.EventRepository, students repository.StudentRepository, eventsFinder *finder.Finder[models.Event], tasksFinder *finder.Finder[models.Task], coursesFinder *finder.Finder[models.Course], recorder *eventlog.Recorder, validate *validator.Validate, logger zerolog.Logger) EventService {
	return &eventService{
		db:        db,
		events:    events,
		students:  students,
		eventsF:   eventsFinder,
		tasksF:    tasksFinder,
		coursesF:  coursesFinder,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "event_service").Logger(),
	}
}

// CreateEvent adds a personal event for the actor, a personal event for a
// classmate (presidents only) or a group event (presidents only).
func (s *eventService) CreateEvent(ctx context.Context, actor scope.Actor, payload dto.EventCreateRequest) (dto.EventResponse, error) {
	if err := scope.Authorize(actor, scope.PermCreateEvent); err != nil {
		return dto.EventResponse{}, err
	}
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.EventResponse{}, err
	}

	kind := payload.Kind
	if kind == "" {
		kind = dto.EventKindPersonal
	}
	othersEvent := payload.StudentID != nil && *payload.StudentID != actor.StudentID
	if kind == dto.EventKindGroup || othersEvent {
		if err := scope.Authorize(actor, scope.PermCreateGroupEvent); err != nil {
			return dto.EventResponse{}, err
		}
	}

	event := models.Event{
		CreatorID:   actor.StudentID,
		Title:       plainText(payload.Title),
		Description: plainText(payload.Description),
		Timezone:    payload.Timezone,
		Status:      models.EventStatusConfirmed,
		CourseID:    payload.CourseID,
	}
	if event.Timezone == "" {
		event.Timezone = models.DefaultTimezone
	}

	start, err := parseTimestamp("start_at", payload.StartAt)
	if err != nil {
		return dto.EventResponse{}, err
	}
	event.StartAt = start
	if payload.EndAt != nil {
		end, err := parseTimestamp("end_at", *payload.EndAt)
		if err != nil {
			return dto.EventResponse{}, err
		}
		if !end.After(start) {
			return dto.EventResponse{}, apperror.Invalid("end_at", "must be after start_at")
		}
		event.EndAt = &end
	}

	if len(payload.Recurrence) > 0 {
		encoded, err := json.Marshal(payload.Recurrence)
		if err != nil {
			return dto.EventResponse{}, fmt.Errorf("encode recurrence: %w", err)
		}
		event.Recurrence = datatypes.JSON(encoded)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch {
		case kind == dto.EventKindGroup:
			event.EventableType = models.EventableGroup
			event.EventableID = actor.Group()
		case othersEvent:
			student, err := s.students.WithTx(tx).GetByID(ctx, *payload.StudentID)
			if err != nil {
				return err
			}
			if student.GroupID == nil || *student.GroupID != actor.Group() {
				return apperror.Invalid("student_id", "is not a member of your group")
			}
			event.EventableType = models.EventableStudent
			event.EventableID = student.ID
		default:
			event.EventableType = models.EventableStudent
			event.EventableID = actor.StudentID
		}

		if err := s.checkCourse(tx, actor, event.CourseID); err != nil {
			return err
		}

		if err := s.events.WithTx(tx).Create(ctx, &event); err != nil {
			return err
		}

		_, err := s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(event), models.ActivityCreated, map[string]interface{}{
			"title":          event.Title,
			"eventable_type": event.EventableType,
		})
		return err
	})
	if err != nil {
		return dto.EventResponse{}, apperror.Transaction("create event", err)
	}

	return dto.NewEventResponse(event), nil
}

// UpdateEvent changes an event the actor created.
func (s *eventService) UpdateEvent(ctx context.Context, actor scope.Actor, id uint, payload dto.EventUpdateRequest) (dto.EventResponse, error) {
	if err := scope.Authorize(actor, scope.PermManageEvents); err != nil {
		return dto.EventResponse{}, err
	}
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.EventResponse{}, err
	}

	var event models.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		event, err = s.authoredEvent(tx, actor, id)
		if err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if payload.Title != nil {
			event.Title = plainText(*payload.Title)
			if event.Title == "" {
				return apperror.Invalid("title", "must not be blank")
			}
			changes["title"] = event.Title
		}
		if payload.Description != nil {
			event.Description = plainText(*payload.Description)
			changes["description"] = event.Description
		}
		if payload.Timezone != nil && *payload.Timezone != "" {
			event.Timezone = *payload.Timezone
			changes["timezone"] = event.Timezone
		}
		if payload.StartAt != nil {
			start, err := parseTimestamp("start_at", *payload.StartAt)
			if err != nil {
				return err
			}
			event.StartAt = start
			changes["start_at"] = *payload.StartAt
		}
		if payload.EndAt != nil {
			end, err := parseTimestamp("end_at", *payload.EndAt)
			if err != nil {
				return err
			}
			event.EndAt = &end
			changes["end_at"] = *payload.EndAt
		}
		if event.EndAt != nil && !event.EndAt.After(event.StartAt) {
			return apperror.Invalid("end_at", "must be after start_at")
		}
		if payload.CourseID != nil {
			if err := s.checkCourse(tx, actor, payload.CourseID); err != nil {
				return err
			}
			event.CourseID = payload.CourseID
			changes["course_id"] = *payload.CourseID
		}
		if payload.Recurrence != nil {
			encoded, err := json.Marshal(payload.Recurrence)
			if err != nil {
				return fmt.Errorf("encode recurrence: %w", err)
			}
			event.Recurrence = datatypes.JSON(encoded)
			changes["recurrence"] = len(payload.Recurrence)
		}

		if err := s.events.WithTx(tx).Save(ctx, &event); err != nil {
			return err
		}

		_, err = s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(event), models.ActivityUpdated, changes)
		return err
	})
	if err != nil {
		return dto.EventResponse{}, apperror.Transaction("update event", err)
	}

	return dto.NewEventResponse(event), nil
}

// DeleteEvent removes an event the actor created together with its tasks.
func (s *eventService) DeleteEvent(ctx context.Context, actor scope.Actor, id uint) error {
	if err := scope.Authorize(actor, scope.PermManageEvents); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := s.authoredEvent(tx, actor, id)
		if err != nil {
			return err
		}
		if err := s.events.WithTx(tx).Delete(ctx, &event); err != nil {
			return err
		}

		_, err = s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(event), models.ActivityDeleted, map[string]interface{}{
			"title": event.Title,
		})
		return err
	})
	if err != nil {
		return apperror.Transaction("delete event", err)
	}

	s.logger.Info().Uint("event_id", id).Uint("student_id", actor.StudentID).Msg("event deleted")
	return nil
}

// CreateTask attaches a task to an event the actor can see. Members may only
// assign the task to themselves; presidents may assign any classmate.
func (s *eventService) CreateTask(ctx context.Context, actor scope.Actor, payload dto.TaskCreateRequest) (dto.TaskResponse, error) {
	if err := scope.Authorize(actor, scope.PermCreateTask); err != nil {
		return dto.TaskResponse{}, err
	}
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task := models.Task{
		AuthorID:    actor.StudentID,
		EventID:     payload.EventID,
		Title:       plainText(payload.Title),
		Description: plainText(payload.Description),
	}
	if payload.ExpiredAt != nil {
		expired, err := parseTimestamp("expired_at", *payload.ExpiredAt)
		if err != nil {
			return dto.TaskResponse{}, err
		}
		task.ExpiredAt = &expired
	}
	if len(payload.ExtraLinks) > 0 {
		encoded, err := json.Marshal(payload.ExtraLinks)
		if err != nil {
			return dto.TaskResponse{}, fmt.Errorf("encode extra links: %w", err)
		}
		task.ExtraLinks = datatypes.JSON(encoded)
	}

	assignees := uniqueIDs(payload.StudentIDs)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.eventsF.FindWith(tx, actor, scope.ViewAny, task.EventID); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.Invalid("event_id", "does not exist")
			}
			return err
		}

		if err := s.checkAssignees(ctx, tx, actor, assignees); err != nil {
			return err
		}

		if err := s.events.WithTx(tx).CreateTask(ctx, &task, assignees); err != nil {
			return err
		}

		_, err := s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(task), models.ActivityCreated, map[string]interface{}{
			"title":     task.Title,
			"event_id":  task.EventID,
			"assignees": len(assignees),
		})
		return err
	})
	if err != nil {
		return dto.TaskResponse{}, apperror.Transaction("create task", err)
	}

	return dto.NewTaskResponse(task), nil
}

// UpdateTask changes a task the actor authored. A new assignee list replaces
// the old one; students who stay assigned keep their progress.
func (s *eventService) UpdateTask(ctx context.Context, actor scope.Actor, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error) {
	if err := scope.Authorize(actor, scope.PermManageTasks); err != nil {
		return dto.TaskResponse{}, err
	}
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.TaskResponse{}, err
	}

	var task models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		task, err = s.authoredTask(tx, actor, id)
		if err != nil {
			return err
		}

		events := s.events.WithTx(tx)
		changes := map[string]interface{}{}
		if payload.Title != nil {
			task.Title = plainText(*payload.Title)
			if task.Title == "" {
				return apperror.Invalid("title", "must not be blank")
			}
			changes["title"] = task.Title
		}
		if payload.Description != nil {
			task.Description = plainText(*payload.Description)
			changes["description"] = task.Description
		}
		if payload.ExpiredAt != nil {
			expired, err := parseTimestamp("expired_at", *payload.ExpiredAt)
			if err != nil {
				return err
			}
			task.ExpiredAt = &expired
			changes["expired_at"] = *payload.ExpiredAt
		}
		if payload.ExtraLinks != nil {
			encoded, err := json.Marshal(payload.ExtraLinks)
			if err != nil {
				return fmt.Errorf("encode extra links: %w", err)
			}
			task.ExtraLinks = datatypes.JSON(encoded)
			changes["extra_links"] = len(payload.ExtraLinks)
		}
		if payload.StudentIDs != nil {
			assignees := uniqueIDs(*payload.StudentIDs)
			if err := s.checkAssignees(ctx, tx, actor, assignees); err != nil {
				return err
			}
			if err := events.ReplaceAssignees(ctx, task.ID, assignees); err != nil {
				return err
			}
			changes["assignees"] = len(assignees)
		}

		if err := events.SaveTask(ctx, &task); err != nil {
			return err
		}

		_, err = s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(task), models.ActivityUpdated, changes)
		return err
	})
	if err != nil {
		return dto.TaskResponse{}, apperror.Transaction("update task", err)
	}

	return dto.NewTaskResponse(task), nil
}

// DeleteTask removes a task the actor authored with its assignments.
func (s *eventService) DeleteTask(ctx context.Context, actor scope.Actor, id uint) error {
	if err := scope.Authorize(actor, scope.PermManageTasks); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := s.authoredTask(tx, actor, id)
		if err != nil {
			return err
		}
		if err := s.events.WithTx(tx).DeleteTask(ctx, &task); err != nil {
			return err
		}

		_, err = s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(task), models.ActivityDeleted, map[string]interface{}{
			"title":    task.Title,
			"event_id": task.EventID,
		})
		return err
	})
	if err != nil {
		return apperror.Transaction("delete task", err)
	}

	s.logger.Info().Uint("task_id", id).Uint("student_id", actor.StudentID).Msg("task deleted")
	return nil
}

// GetAssignment returns the actor's assignment on a task appointed to them.
func (s *eventService) GetAssignment(ctx context.Context, actor scope.Actor, taskID uint) (dto.AssignmentResponse, error) {
	db := s.db.WithContext(ctx)
	task, err := s.tasksF.FindWith(db, actor, scope.ViewAppointed, taskID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	assignment, err := s.events.WithTx(db).GetAssignment(ctx, task.ID, actor.StudentID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	return dto.NewAssignmentResponse(assignment), nil
}

// UpdateAssignment records the actor's progress on a task appointed to them.
func (s *eventService) UpdateAssignment(ctx context.Context, actor scope.Actor, taskID uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := scope.Authorize(actor, scope.PermUpdateAssignment); err != nil {
		return dto.AssignmentResponse{}, err
	}
	if err := validateStruct(s.validator, payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	var assignment models.Assignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := s.tasksF.FindWith(tx, actor, scope.ViewAppointed, taskID)
		if err != nil {
			return err
		}

		events := s.events.WithTx(tx)
		assignment, err = events.GetAssignment(ctx, task.ID, actor.StudentID)
		if err != nil {
			return err
		}

		changes := map[string]interface{}{"task_id": task.ID}
		if payload.Accomplished != nil {
			assignment.Accomplished = *payload.Accomplished
			changes["accomplished"] = assignment.Accomplished
		}
		if payload.Report != nil {
			assignment.Report = plainText(*payload.Report)
			changes["report"] = len(assignment.Report) > 0
		}
		if payload.ExtraLinks != nil {
			encoded, err := json.Marshal(payload.ExtraLinks)
			if err != nil {
				return fmt.Errorf("encode extra links: %w", err)
			}
			assignment.ExtraLinks = datatypes.JSON(encoded)
			changes["extra_links"] = len(payload.ExtraLinks)
		}

		if err := events.SaveAssignment(ctx, &assignment); err != nil {
			return err
		}

		_, err = s.recorder.Activity(ctx, tx, actor.UserID, eventlog.TargetOf(assignment), models.ActivityUpdated, changes)
		return err
	})
	if err != nil {
		return dto.AssignmentResponse{}, apperror.Transaction("update assignment", err)
	}

	return dto.NewAssignmentResponse(assignment), nil
}

// authoredEvent loads an event the actor created. Events the actor can only
// see are forbidden; the rest are not found.
func (s *eventService) authoredEvent(tx *gorm.DB, actor scope.Actor, id uint) (models.Event, error) {
	event, err := s.eventsF.FindWith(tx, actor, scope.ViewAuthored, id)
	if !apperror.IsNotFound(err) {
		return event, err
	}
	if _, lookupErr := s.eventsF.FindWith(tx, actor, scope.ViewAny, id); lookupErr == nil {
		return models.Event{}, apperror.Forbidden("only the event's creator may change it")
	}
	return models.Event{}, err
}

// authoredTask loads a task the actor authored, like authoredEvent.
func (s *eventService) authoredTask(tx *gorm.DB, actor scope.Actor, id uint) (models.Task, error) {
	task, err := s.tasksF.FindWith(tx, actor, scope.ViewAuthored, id)
	if !apperror.IsNotFound(err) {
		return task, err
	}
	if _, lookupErr := s.tasksF.FindWith(tx, actor, scope.ViewAny, id); lookupErr == nil {
		return models.Task{}, apperror.Forbidden("only the task's author may change it")
	}
	return models.Task{}, err
}

func (s *eventService) checkCourse(tx *gorm.DB, actor scope.Actor, courseID *uint) error {
	if courseID == nil {
		return nil
	}
	if _, err := s.coursesF.FindWith(tx, actor, scope.ViewDefault, *courseID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.Invalid("course_id", "does not exist")
		}
		return err
	}
	return nil
}

func (s *eventService) checkAssignees(ctx context.Context, tx *gorm.DB, actor scope.Actor, assignees []uint) error {
	if len(assignees) == 0 {
		return nil
	}

	if !actor.GroupOwner() {
		if len(assignees) == 1 && assignees[0] == actor.StudentID {
			return nil
		}
		return apperror.Forbidden("only the group president may assign classmates")
	}

	members, err := s.students.WithTx(tx).GroupMemberIDs(ctx, actor.Group())
	if err != nil {
		return err
	}
	allowed := make(map[uint]struct{}, len(members))
	for _, id := range members {
		allowed[id] = struct{}{}
	}
	for _, id := range assignees {
		if _, ok := allowed[id]; !ok {
			return apperror.Invalid("student_ids", "student %d is not a member of your group", id)
		}
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
