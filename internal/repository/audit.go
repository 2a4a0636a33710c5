package repository

import (
	"context"
	"time"

	"descubre/internal/models"
	"descubre/internal/moderation"

	"gorm.io/gorm"
)

// AuditRepository is the moderation audit boundary plus the admin read paths.
type AuditRepository interface {
	moderation.AuditStore
	GetByRef(ctx context.Context, ref string) (*models.ModerationRecord, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]models.ModerationRecord, error)
}

// auditStore implements AuditRepository over moderation_records.
type auditStore struct {
	db *gorm.DB
}

// NewAuditStore creates the engine's audit boundary.
func NewAuditStore(db *gorm.DB) AuditRepository {
	return &auditStore{db: db}
}

func (s *auditStore) Append(ctx context.Context, rec *models.ModerationRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// AttachSanction writes the sanction detail onto the record exactly once.
// The guarded UPDATE makes this the idempotency gate for sanction application:
// it reports false when another caller already attached.
func (s *auditStore) AttachSanction(ctx context.Context, ref string, level moderation.SanctionLevel, expiresAt *time.Time) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.ModerationRecord{}).
		Where("ref = ? AND (sanction_level = '' OR sanction_level IS NULL)", ref).
		Updates(map[string]interface{}{
			"sanction_level":   string(level),
			"sanction_expires": expiresAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *auditStore) SetAppealState(ctx context.Context, ref string, state models.AppealState) error {
	return s.db.WithContext(ctx).
		Model(&models.ModerationRecord{}).
		Where("ref = ?", ref).
		Update("appeal_state", string(state)).Error
}

func (s *auditStore) QueryByAccount(ctx context.Context, accountID uint, since time.Time, automatedOnly bool) ([]models.ModerationRecord, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", accountID, since).
		Order("created_at DESC")
	if automatedOnly {
		q = q.Where("automated = ?", true)
	}

	var records []models.ModerationRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetByRef loads one record by its public reference.
func (s *auditStore) GetByRef(ctx context.Context, ref string) (*models.ModerationRecord, error) {
	var rec models.ModerationRecord
	if err := s.db.WithContext(ctx).Where("ref = ?", ref).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByAction returns records with the given action, newest first. Backs the
// admin review queue for FLAG_FOR_REVIEW content.
func (s *auditStore) ListByAction(ctx context.Context, action string, limit, offset int) ([]models.ModerationRecord, error) {
	var records []models.ModerationRecord
	err := s.db.WithContext(ctx).
		Where("action_type = ?", action).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, err
}
