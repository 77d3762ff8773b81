package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

// EventRepository persists calendar events, their tasks and assignments.
type EventRepository interface {
	WithTx(tx *gorm.DB) EventRepository
	Create(ctx context.Context, event *models.Event) error
	Save(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, event *models.Event) error
	CreateTask(ctx context.Context, task *models.Task, studentIDs []uint) error
	SaveTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, task *models.Task) error
	ReplaceAssignees(ctx context.Context, taskID uint, studentIDs []uint) error
	GetAssignment(ctx context.Context, taskID, studentID uint) (models.Assignment, error)
	SaveAssignment(ctx context.Context, assignment *models.Assignment) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository constructs an event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) WithTx(tx *gorm.DB) EventRepository {
	return &eventRepository{db: tx}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Save(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// Delete removes the event with its tasks and their assignments.
func (r *eventRepository) Delete(ctx context.Context, event *models.Event) error {
	db := r.db.WithContext(ctx)
	tasks := db.Model(&models.Task{}).Select("id").Where("event_id = ?", event.ID)
	if err := db.Where("task_id IN (?)", tasks).Delete(&models.Assignment{}).Error; err != nil {
		return err
	}
	if err := db.Where("event_id = ?", event.ID).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	return db.Delete(event).Error
}

// CreateTask stores the task and one assignment per student.
func (r *eventRepository) CreateTask(ctx context.Context, task *models.Task, studentIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(task).Error; err != nil {
		return err
	}
	return createAssignments(db, task.ID, studentIDs)
}

func (r *eventRepository) SaveTask(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// DeleteTask removes the task and its assignments.
func (r *eventRepository) DeleteTask(ctx context.Context, task *models.Task) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("task_id = ?", task.ID).Delete(&models.Assignment{}).Error; err != nil {
		return err
	}
	return db.Delete(task).Error
}

// ReplaceAssignees makes studentIDs the task's assignees. Assignments of
// students that stay keep their progress.
func (r *eventRepository) ReplaceAssignees(ctx context.Context, taskID uint, studentIDs []uint) error {
	db := r.db.WithContext(ctx)

	stale := db.Where("task_id = ?", taskID)
	if len(studentIDs) > 0 {
		stale = stale.Where("student_id NOT IN ?", studentIDs)
	}
	if err := stale.Delete(&models.Assignment{}).Error; err != nil {
		return err
	}

	var kept []uint
	if err := db.Model(&models.Assignment{}).Where("task_id = ?", taskID).Pluck("student_id", &kept).Error; err != nil {
		return err
	}
	existing := make(map[uint]struct{}, len(kept))
	for _, id := range kept {
		existing[id] = struct{}{}
	}
	missing := make([]uint, 0, len(studentIDs))
	for _, id := range studentIDs {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	return createAssignments(db, taskID, missing)
}

func (r *eventRepository) GetAssignment(ctx context.Context, taskID, studentID uint) (models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).Where("task_id = ? AND student_id = ?", taskID, studentID).Take(&assignment).Error
	return assignment, notFound(err)
}

func (r *eventRepository) SaveAssignment(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func createAssignments(db *gorm.DB, taskID uint, studentIDs []uint) error {
	if len(studentIDs) == 0 {
		return nil
	}

	assignments := make([]models.Assignment, 0, len(studentIDs))
	for _, id := range studentIDs {
		assignments = append(assignments, models.Assignment{StudentID: id, TaskID: taskID})
	}
	return db.Create(&assignments).Error
}
