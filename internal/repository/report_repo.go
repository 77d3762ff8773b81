package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

// ReportRepository persists bug and abuse reports.
type ReportRepository interface {
	WithTx(tx *gorm.DB) ReportRepository
	CreateBug(ctx context.Context, report *models.BugReport) error
	CreateAbuse(ctx context.Context, report *models.AbuseReport) error
	AbuseReported(ctx context.Context, userID uint) (bool, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository constructs a report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) WithTx(tx *gorm.DB) ReportRepository {
	return &reportRepository{db: tx}
}

func (r *reportRepository) CreateBug(ctx context.Context, report *models.BugReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) CreateAbuse(ctx context.Context, report *models.AbuseReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// AbuseReported reports whether userID already has an abuse report against them.
func (r *reportRepository) AbuseReported(ctx context.Context, userID uint) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.AbuseReport{}).Where("user_id = ?", userID).Count(&total).Error
	return total > 0, err
}
