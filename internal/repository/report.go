package repository

import (
	"context"

	"descubre/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines interface for report operations
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ListOpen(ctx context.Context, limit, offset int) ([]*models.Report, error)
	CountAgainstUser(ctx context.Context, userID uint) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) ListOpen(ctx context.Context, limit, offset int) ([]*models.Report, error) {
	var reports []*models.Report
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Where("status = ?", models.ReportStatusOpen).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	return reports, err
}

func (r *reportRepository) CountAgainstUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("target_type = ? AND target_id = ?", models.ReportTargetUser, userID).
		Count(&count).Error
	return count, err
}
