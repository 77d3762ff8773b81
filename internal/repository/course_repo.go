package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

// CourseRepository persists group courses.
type CourseRepository interface {
	WithTx(tx *gorm.DB) CourseRepository
	Create(ctx context.Context, course *models.Course) error
	Save(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, course *models.Course) error
	TitleTaken(ctx context.Context, groupID uint, title string, exceptID uint) (bool, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) WithTx(tx *gorm.DB) CourseRepository {
	return &courseRepository{db: tx}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Save(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

// Delete removes the course and detaches it from the group's events.
func (r *courseRepository) Delete(ctx context.Context, course *models.Course) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Event{}).Where("course_id = ?", course.ID).UpdateColumn("course_id", nil).Error; err != nil {
		return err
	}
	return db.Delete(course).Error
}

// TitleTaken reports whether another course of the group already uses title.
func (r *courseRepository) TitleTaken(ctx context.Context, groupID uint, title string, exceptID uint) (bool, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Course{}).Where("group_id = ? AND LOWER(title) = LOWER(?)", groupID, title)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	err := query.Count(&total).Error
	return total > 0, err
}
