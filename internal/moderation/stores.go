package moderation

import (
	"context"
	"time"

	"descubre/internal/models"
)

// AccountStore is the engine's view of account storage. Implementations live
// in the repository layer; sanction mutations must be atomic conditional
// updates so concurrent submissions for the same account cannot lose strikes.
type AccountStore interface {
	// GetSignals returns the trust-score inputs for the account.
	GetSignals(ctx context.Context, accountID uint) (AccountSignals, error)
	// GetSanctionState returns the account's current sanction fields.
	GetSanctionState(ctx context.Context, accountID uint) (models.SanctionState, error)
	// ApplySanction escalates the account's sanction state for the given
	// level and returns the updated state.
	ApplySanction(ctx context.Context, accountID uint, level SanctionLevel, reason string, expiresAt *time.Time) (models.SanctionState, error)
	// LiftSanction reverses a mute or ban after an approved appeal.
	// Strikes are reset only when explicitly requested.
	LiftSanction(ctx context.Context, accountID uint, kind models.AppealType, resetStrikes bool) error
}

// AuditStore persists and queries moderation records. Records are append-only;
// the only permitted mutations are the one-shot sanction attachment and the
// appeal-state transitions.
type AuditStore interface {
	// Append durably writes a new record. The caller sets the public Ref.
	Append(ctx context.Context, rec *models.ModerationRecord) error
	// AttachSanction writes the applied sanction onto the record identified
	// by ref. It reports false when a sanction is already attached, which
	// makes retried submissions idempotent: the account mutation is only
	// performed by the caller that won the attach.
	AttachSanction(ctx context.Context, ref string, level SanctionLevel, expiresAt *time.Time) (bool, error)
	// SetAppealState transitions the appeal-state field on the record.
	SetAppealState(ctx context.Context, ref string, state models.AppealState) error
	// QueryByAccount returns the account's records created at or after since,
	// optionally restricted to automated decisions.
	QueryByAccount(ctx context.Context, accountID uint, since time.Time, automatedOnly bool) ([]models.ModerationRecord, error)
}

// AppealStore persists appeals. Create must reject a second PENDING appeal
// for the same account with a conflict error; that invariant is enforced at
// this boundary, not just by a storage index.
type AppealStore interface {
	Create(ctx context.Context, appeal *models.Appeal) error
	GetByRef(ctx context.Context, ref string) (*models.Appeal, error)
	// Resolve persists the appeal's terminal state. A non-nil lift runs in
	// the same storage transaction, so an approved appeal can never be
	// recorded without its sanction reversal, nor the reverse.
	Resolve(ctx context.Context, appeal *models.Appeal, lift func(ctx context.Context, accounts AccountStore) error) error
	ListByUser(ctx context.Context, userID uint) ([]models.Appeal, error)
	ListPending(ctx context.Context, limit, offset int) ([]models.Appeal, error)
}
