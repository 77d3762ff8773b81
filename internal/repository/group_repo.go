package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

// GroupRepository persists groups and their invites.
type GroupRepository interface {
	WithTx(tx *gorm.DB) GroupRepository
	GetByID(ctx context.Context, id uint) (models.Group, error)
	Create(ctx context.Context, group *models.Group) error
	Save(ctx context.Context, group *models.Group) error
	InviteExists(ctx context.Context, groupID uint, email string) (bool, error)
	CreateInvite(ctx context.Context, invite *models.Invite) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository constructs a group repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) WithTx(tx *gorm.DB) GroupRepository {
	return &groupRepository{db: tx}
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return models.Group{}, notFound(err)
	}
	return group, nil
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) Save(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// InviteExists reports whether email was already invited to the group, ignoring case.
func (r *groupRepository) InviteExists(ctx context.Context, groupID uint, email string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Invite{}).
		Where("group_id = ? AND LOWER(email) = LOWER(?)", groupID, email).
		Count(&total).Error
	return total > 0, err
}

func (r *groupRepository) CreateInvite(ctx context.Context, invite *models.Invite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}
