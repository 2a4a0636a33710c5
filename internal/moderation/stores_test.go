package moderation

import (
	"context"
	"sync"
	"time"

	"descubre/internal/models"
)

// fakeAccountStore is an in-memory AccountStore recording every mutation.
type fakeAccountStore struct {
	mu      sync.Mutex
	signals AccountSignals
	state   models.SanctionState

	signalsErr error
	stateErr   error
	applyErr   error

	applied []appliedSanction
	lifted  []liftedSanction
}

type appliedSanction struct {
	accountID uint
	level     SanctionLevel
	reason    string
	expiresAt *time.Time
}

type liftedSanction struct {
	accountID    uint
	kind         models.AppealType
	resetStrikes bool
}

func (f *fakeAccountStore) GetSignals(_ context.Context, _ uint) (AccountSignals, error) {
	if f.signalsErr != nil {
		return AccountSignals{}, f.signalsErr
	}
	return f.signals, nil
}

func (f *fakeAccountStore) GetSanctionState(_ context.Context, _ uint) (models.SanctionState, error) {
	if f.stateErr != nil {
		return models.SanctionState{}, f.stateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, nil
}

func (f *fakeAccountStore) ApplySanction(_ context.Context, accountID uint, level SanctionLevel, reason string, expiresAt *time.Time) (models.SanctionState, error) {
	if f.applyErr != nil {
		return models.SanctionState{}, f.applyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, appliedSanction{accountID, level, reason, expiresAt})
	f.state.StrikeCount += level.Strikes()
	switch level {
	case SanctionBan:
		f.state.IsBanned = true
		f.state.BanReason = reason
	default:
		f.state.MutedUntil = expiresAt
		f.state.MuteReason = reason
	}
	return f.state, nil
}

func (f *fakeAccountStore) LiftSanction(_ context.Context, accountID uint, kind models.AppealType, resetStrikes bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lifted = append(f.lifted, liftedSanction{accountID, kind, resetStrikes})
	switch kind {
	case models.AppealTypeBan:
		f.state.IsBanned = false
		f.state.BanReason = ""
	case models.AppealTypeMute:
		f.state.MutedUntil = nil
		f.state.MuteReason = ""
	}
	if resetStrikes {
		f.state.StrikeCount = 0
	}
	return nil
}

// fakeAuditStore keeps appended records in memory and lets tests preload the
// history returned by QueryByAccount.
type fakeAuditStore struct {
	mu       sync.Mutex
	appended []*models.ModerationRecord
	history  []models.ModerationRecord

	appendErr      error
	queryErr       error
	attachErr      error
	attachLost     bool // simulate a concurrent attach winning first
	attached       []string
	appealStates   map[string]models.AppealState
	lastQuerySince time.Time
	lastQueryAuto  bool
}

func (f *fakeAuditStore) Append(_ context.Context, rec *models.ModerationRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, rec)
	return nil
}

func (f *fakeAuditStore) AttachSanction(_ context.Context, ref string, _ SanctionLevel, _ *time.Time) (bool, error) {
	if f.attachErr != nil {
		return false, f.attachErr
	}
	if f.attachLost {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached = append(f.attached, ref)
	return true, nil
}

func (f *fakeAuditStore) SetAppealState(_ context.Context, ref string, state models.AppealState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appealStates == nil {
		f.appealStates = make(map[string]models.AppealState)
	}
	f.appealStates[ref] = state
	return nil
}

func (f *fakeAuditStore) QueryByAccount(_ context.Context, _ uint, since time.Time, automatedOnly bool) ([]models.ModerationRecord, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuerySince = since
	f.lastQueryAuto = automatedOnly
	return f.history, nil
}

// fakeAppealStore is an in-memory AppealStore enforcing the single-pending
// invariant the way the real store does. Resolve hands the configured account
// store to the lift callback, mirroring the transactional coupling of the
// gorm implementation.
type fakeAppealStore struct {
	mu         sync.Mutex
	appeals    []*models.Appeal
	accounts   AccountStore
	createErr  error
	resolveErr error
}

func (f *fakeAppealStore) Create(_ context.Context, appeal *models.Appeal) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.appeals {
		if a.UserID == appeal.UserID && a.Status == models.AppealStatusPending {
			return models.NewConflictError("You already have a pending appeal")
		}
	}
	appeal.ID = uint(len(f.appeals) + 1)
	f.appeals = append(f.appeals, appeal)
	return nil
}

func (f *fakeAppealStore) GetByRef(_ context.Context, ref string) (*models.Appeal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.appeals {
		if a.Ref == ref {
			cp := *a
			return &cp, nil
		}
	}
	return nil, models.NewNotFoundError("Appeal", ref)
}

func (f *fakeAppealStore) Resolve(ctx context.Context, appeal *models.Appeal, lift func(context.Context, AccountStore) error) error {
	if f.resolveErr != nil {
		// The transaction failed: neither the verdict nor the lift happened.
		return f.resolveErr
	}
	if lift != nil {
		if err := lift(ctx, f.accounts); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.appeals {
		if a.ID == appeal.ID {
			f.appeals[i] = appeal
			return nil
		}
	}
	return models.NewNotFoundError("Appeal", appeal.Ref)
}

func (f *fakeAppealStore) ListByUser(_ context.Context, userID uint) ([]models.Appeal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appeal
	for _, a := range f.appeals {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppealStore) ListPending(_ context.Context, limit, offset int) ([]models.Appeal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appeal
	for _, a := range f.appeals {
		if a.Status == models.AppealStatusPending {
			out = append(out, *a)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fixedScorer returns the same toxicity scores for every call.
type fixedScorer struct {
	scores ToxicityScores
}

func (s fixedScorer) Score(context.Context, string, string) ToxicityScores {
	return s.scores
}
