package repository

import (
	"context"
	"time"

	"descubre/internal/models"
	"descubre/internal/moderation"

	"gorm.io/gorm"
)

// accountStore implements moderation.AccountStore over the users table.
type accountStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAccountStore creates the engine's account boundary.
func NewAccountStore(db *gorm.DB) moderation.AccountStore {
	return &accountStore{db: db, now: time.Now}
}

func (s *accountStore) GetSignals(ctx context.Context, accountID uint) (moderation.AccountSignals, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, accountID).Error; err != nil {
		return moderation.AccountSignals{}, err
	}
	return moderation.AccountSignals{
		EmailVerified:  user.Stats.EmailVerified,
		PhoneVerified:  user.Stats.PhoneVerified,
		AccountAgeDays: user.AccountAgeDays(s.now()),
		Reviews:        user.Stats.ReviewCount,
		Photos:         user.Stats.PhotoCount,
		HelpfulVotes:   user.Stats.HelpfulVotes,
		Strikes:        user.Sanction.StrikeCount,
		DeletedContent: user.Stats.DeletedContent,
		ReportsAgainst: user.Stats.ReportsAgainst,
	}, nil
}

func (s *accountStore) GetSanctionState(ctx context.Context, accountID uint) (models.SanctionState, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Select("muted_until", "mute_reason", "is_banned", "ban_reason", "strike_count").
		First(&user, accountID).Error; err != nil {
		return models.SanctionState{}, err
	}
	return user.Sanction, nil
}

// ApplySanction escalates the account in a single conditional UPDATE so that
// concurrent submissions cannot lose strike increments, and an existing
// longer mute is never shortened.
func (s *accountStore) ApplySanction(ctx context.Context, accountID uint, level moderation.SanctionLevel, reason string, expiresAt *time.Time) (models.SanctionState, error) {
	updates := map[string]interface{}{
		"strike_count": gorm.Expr("strike_count + ?", level.Strikes()),
	}

	if level == moderation.SanctionBan {
		updates["is_banned"] = true
		updates["ban_reason"] = reason
	} else if expiresAt != nil {
		updates["muted_until"] = gorm.Expr(
			"CASE WHEN muted_until IS NULL OR muted_until < ? THEN ? ELSE muted_until END",
			*expiresAt, *expiresAt,
		)
		updates["mute_reason"] = reason
	}

	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", accountID).
		Updates(updates).Error; err != nil {
		return models.SanctionState{}, err
	}

	return s.GetSanctionState(ctx, accountID)
}

// LiftSanction reverses a mute or ban after an approved appeal. Strikes are
// reset only when explicitly requested.
func (s *accountStore) LiftSanction(ctx context.Context, accountID uint, kind models.AppealType, resetStrikes bool) error {
	updates := map[string]interface{}{}
	switch kind {
	case models.AppealTypeMute:
		updates["muted_until"] = nil
		updates["mute_reason"] = ""
	case models.AppealTypeBan:
		updates["is_banned"] = false
		updates["ban_reason"] = ""
	}
	if resetStrikes {
		updates["strike_count"] = 0
	}

	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", accountID).
		Updates(updates).Error
}
