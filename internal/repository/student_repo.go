package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

// StudentRepository provides access to student records.
type StudentRepository interface {
	WithTx(tx *gorm.DB) StudentRepository
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByUserID(ctx context.Context, userID uint) (models.Student, error)
	GroupMemberIDs(ctx context.Context, groupID uint) ([]uint, error)
	Save(ctx context.Context, student *models.Student) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) WithTx(tx *gorm.DB) StudentRepository {
	return &studentRepository{db: tx}
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, notFound(err)
	}

	return student, nil
}

func (r *studentRepository) GetByUserID(ctx context.Context, userID uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").First(&student).Error; err != nil {
		return models.Student{}, notFound(err)
	}

	return student, nil
}

func (r *studentRepository) GroupMemberIDs(ctx context.Context, groupID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Student{}).Where("group_id = ?", groupID).Order("id").Pluck("id", &ids).Error
	return ids, err
}

func (r *studentRepository) Save(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}
