package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

// UserRepository persists accounts.
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	GetByID(ctx context.Context, id uint) (models.User, error)
	Taken(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, user *models.User, student *models.Student) error
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, notFound(err)
	}
	return user, nil
}

// Taken reports whether the username or email is already registered, ignoring case.
func (r *userRepository) Taken(ctx context.Context, username, email string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", username, email).
		Count(&total).Error
	return total > 0, err
}

// Create stores the user and its student profile.
func (r *userRepository) Create(ctx context.Context, user *models.User, student *models.Student) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(user).Error; err != nil {
		return err
	}
	if student == nil {
		return nil
	}
	student.UserID = user.ID
	return db.Create(student).Error
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes the user together with the student profile and every event
// the user authored. Run it inside a transaction.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("author_id = ?", id).Delete(&models.ActivityEvent{}).Error; err != nil {
		return fmt.Errorf("delete activity events of user %d: %w", id, err)
	}
	if err := db.Where("author_id = ?", id).Delete(&models.AuditEvent{}).Error; err != nil {
		return fmt.Errorf("delete audit events of user %d: %w", id, err)
	}
	if err := db.Where("user_id = ?", id).Delete(&models.Student{}).Error; err != nil {
		return fmt.Errorf("delete students of user %d: %w", id, err)
	}

	result := db.Delete(&models.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}
