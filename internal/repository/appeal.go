package repository

import (
	"context"

	"descubre/internal/models"
	"descubre/internal/moderation"

	"gorm.io/gorm"
)

// appealStore implements moderation.AppealStore.
type appealStore struct {
	db *gorm.DB
}

// NewAppealStore creates the engine's appeal boundary.
func NewAppealStore(db *gorm.DB) moderation.AppealStore {
	return &appealStore{db: db}
}

// Create inserts the appeal unless the account already has one pending. The
// invariant is enforced here with an explicit check inside the transaction
// rather than relying on a storage-level unique index.
func (s *appealStore) Create(ctx context.Context, appeal *models.Appeal) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending int64
		if err := tx.Model(&models.Appeal{}).
			Where("user_id = ? AND status = ?", appeal.UserID, models.AppealStatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return models.NewConflictError("An appeal is already pending for this account")
		}
		return tx.Create(appeal).Error
	})
}

func (s *appealStore) GetByRef(ctx context.Context, ref string) (*models.Appeal, error) {
	var appeal models.Appeal
	if err := s.db.WithContext(ctx).Where("ref = ?", ref).First(&appeal).Error; err != nil {
		return nil, err
	}
	return &appeal, nil
}

// Resolve writes the terminal state and, for approvals, reverses the sanction
// against the same transaction. A partial failure can never leave an approved
// appeal without its lift, or a lifted sanction without the recorded verdict.
func (s *appealStore) Resolve(ctx context.Context, appeal *models.Appeal, lift func(ctx context.Context, accounts moderation.AccountStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(appeal).Error; err != nil {
			return err
		}
		if lift != nil {
			return lift(ctx, NewAccountStore(tx))
		}
		return nil
	})
}

func (s *appealStore) ListByUser(ctx context.Context, userID uint) ([]models.Appeal, error) {
	var appeals []models.Appeal
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&appeals).Error
	return appeals, err
}

func (s *appealStore) ListPending(ctx context.Context, limit, offset int) ([]models.Appeal, error) {
	var appeals []models.Appeal
	err := s.db.WithContext(ctx).
		Where("status = ?", models.AppealStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&appeals).Error
	return appeals, err
}
