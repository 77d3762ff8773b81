package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// ActorRepository builds request actors from stored accounts.
type ActorRepository interface {
	Load(ctx context.Context, userID uint) (scope.Actor, error)
}

type actorRepository struct {
	db *gorm.DB
}

// NewActorRepository constructs an actor repository.
func NewActorRepository(db *gorm.DB) ActorRepository {
	return &actorRepository{db: db}
}

// Load returns the actor for userID. Unknown users yield apperror.ErrNotFound
// and banned users an authorization error.
func (r *actorRepository) Load(ctx context.Context, userID uint) (scope.Actor, error) {
	if userID == 0 {
		return scope.Anonymous(), nil
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return scope.Anonymous(), notFound(err)
	}
	if user.Banned() {
		return scope.Anonymous(), apperror.Forbidden("account is banned")
	}

	actor := scope.Actor{UserID: user.ID, Admin: user.Admin}

	var student models.Student
	err := r.db.WithContext(ctx).Where("user_id = ?", user.ID).Order("id").First(&student).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return actor, nil
	case err != nil:
		return scope.Anonymous(), fmt.Errorf("load student of user %d: %w", user.ID, err)
	}

	actor.StudentID = student.ID
	actor.GroupID = student.GroupID
	actor.President = student.President
	return actor, nil
}
