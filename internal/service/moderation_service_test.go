package service

import (
	"context"
	"testing"
	"time"

	"descubre/internal/models"
	"descubre/internal/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// auditRepoStub implements repository.AuditRepository with overridable funcs.
type auditRepoStub struct {
	appendFn         func(ctx context.Context, rec *models.ModerationRecord) error
	attachSanctionFn func(ctx context.Context, ref string, level moderation.SanctionLevel, expiresAt *time.Time) (bool, error)
	setAppealStateFn func(ctx context.Context, ref string, state models.AppealState) error
	queryByAccountFn func(ctx context.Context, accountID uint, since time.Time, automatedOnly bool) ([]models.ModerationRecord, error)
	getByRefFn       func(ctx context.Context, ref string) (*models.ModerationRecord, error)
	listByActionFn   func(ctx context.Context, action string, limit, offset int) ([]models.ModerationRecord, error)
}

func noopAuditRepo() *auditRepoStub {
	return &auditRepoStub{}
}

func (s *auditRepoStub) Append(ctx context.Context, rec *models.ModerationRecord) error {
	if s.appendFn != nil {
		return s.appendFn(ctx, rec)
	}
	return nil
}

func (s *auditRepoStub) AttachSanction(ctx context.Context, ref string, level moderation.SanctionLevel, expiresAt *time.Time) (bool, error) {
	if s.attachSanctionFn != nil {
		return s.attachSanctionFn(ctx, ref, level, expiresAt)
	}
	return true, nil
}

func (s *auditRepoStub) SetAppealState(ctx context.Context, ref string, state models.AppealState) error {
	if s.setAppealStateFn != nil {
		return s.setAppealStateFn(ctx, ref, state)
	}
	return nil
}

func (s *auditRepoStub) QueryByAccount(ctx context.Context, accountID uint, since time.Time, automatedOnly bool) ([]models.ModerationRecord, error) {
	if s.queryByAccountFn != nil {
		return s.queryByAccountFn(ctx, accountID, since, automatedOnly)
	}
	return nil, nil
}

func (s *auditRepoStub) GetByRef(ctx context.Context, ref string) (*models.ModerationRecord, error) {
	if s.getByRefFn != nil {
		return s.getByRefFn(ctx, ref)
	}
	return &models.ModerationRecord{Ref: ref}, nil
}

func (s *auditRepoStub) ListByAction(ctx context.Context, action string, limit, offset int) ([]models.ModerationRecord, error) {
	if s.listByActionFn != nil {
		return s.listByActionFn(ctx, action, limit, offset)
	}
	return nil, nil
}

// accountStoreStub implements moderation.AccountStore for admin-detail tests.
type accountStoreStub struct {
	signals moderation.AccountSignals
	state   models.SanctionState
}

func (s *accountStoreStub) GetSignals(context.Context, uint) (moderation.AccountSignals, error) {
	return s.signals, nil
}

func (s *accountStoreStub) GetSanctionState(context.Context, uint) (models.SanctionState, error) {
	return s.state, nil
}

func (s *accountStoreStub) ApplySanction(context.Context, uint, moderation.SanctionLevel, string, *time.Time) (models.SanctionState, error) {
	return s.state, nil
}

func (s *accountStoreStub) LiftSanction(context.Context, uint, models.AppealType, bool) error {
	return nil
}

func newModerationTestService(t *testing.T, audit *auditRepoStub, accounts *accountStoreStub, reports *reportRepoStub) *ModerationService {
	t.Helper()
	lex, err := moderation.NewLexicon()
	require.NoError(t, err)
	pipeline := moderation.NewPipeline(accounts, audit, lex, nil)
	return NewModerationService(pipeline, accounts, audit, noopUserRepo(), reports, 0)
}

func TestModerationService_Preview(t *testing.T) {
	t.Parallel()
	audit := noopAuditRepo()
	audit.appendFn = func(_ context.Context, _ *models.ModerationRecord) error {
		t.Fatal("previews must not persist records")
		return nil
	}
	svc := newModerationTestService(t, audit, &accountStoreStub{}, noopReportRepo())

	check, err := svc.Preview(context.Background(), "te voy a matar", "es")
	require.NoError(t, err)
	assert.True(t, check.ShouldReject)
	assert.Equal(t, moderation.SeveritySevero, check.Severity)

	check, err = svc.Preview(context.Background(), "un parque precioso", "es")
	require.NoError(t, err)
	assert.False(t, check.ShouldReject)
	assert.Equal(t, moderation.SeverityLeve, check.Severity)
}

func TestModerationService_ListFlagged(t *testing.T) {
	t.Parallel()
	audit := noopAuditRepo()
	var gotAction string
	var gotLimit int
	audit.listByActionFn = func(_ context.Context, action string, limit, _ int) ([]models.ModerationRecord, error) {
		gotAction, gotLimit = action, limit
		return []models.ModerationRecord{{Ref: "r1"}}, nil
	}
	svc := newModerationTestService(t, audit, &accountStoreStub{}, noopReportRepo())

	records, err := svc.ListFlagged(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, string(moderation.ActionFlagForReview), gotAction)
	assert.Equal(t, 20, gotLimit)
}

func TestModerationService_ListForUser(t *testing.T) {
	t.Parallel()
	audit := noopAuditRepo()
	var gotAutomated bool
	var gotSince time.Time
	audit.queryByAccountFn = func(_ context.Context, _ uint, since time.Time, automatedOnly bool) ([]models.ModerationRecord, error) {
		gotSince, gotAutomated = since, automatedOnly
		return nil, nil
	}
	svc := newModerationTestService(t, audit, &accountStoreStub{}, noopReportRepo())

	_, err := svc.ListForUser(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, gotAutomated, "user history includes manual entries")
	assert.WithinDuration(t, time.Now().Add(-moderation.DefaultViolationWindow), gotSince, time.Minute)
}

func TestModerationService_GetAdminUserDetail(t *testing.T) {
	t.Parallel()
	accounts := &accountStoreStub{signals: moderation.AccountSignals{
		EmailVerified:  true,
		AccountAgeDays: 10,
		Reviews:        2,
	}}
	audit := noopAuditRepo()
	audit.queryByAccountFn = func(_ context.Context, _ uint, _ time.Time, _ bool) ([]models.ModerationRecord, error) {
		return []models.ModerationRecord{
			{ActionType: string(moderation.ActionReject), Category: moderation.CategorySpam, Severity: string(moderation.SeverityModerado)},
			{ActionType: string(moderation.ActionApprove), Category: moderation.CategoryClean},
		}, nil
	}
	reports := noopReportRepo()
	reports.countAgainstUserFn = func(_ context.Context, _ uint) (int64, error) { return 2, nil }
	svc := newModerationTestService(t, audit, accounts, reports)

	detail, err := svc.GetAdminUserDetail(context.Background(), 6)
	require.NoError(t, err)

	// 10 + 20 + 10 = 40: a young account stays in the strict bucket.
	assert.Equal(t, 40, detail.TrustScore)
	assert.Equal(t, moderation.TrustStrict, detail.TrustLevel)
	assert.Equal(t, 1, detail.History.Total, "approvals are not violations")
	assert.Len(t, detail.RecentRecords, 2)
	assert.Equal(t, int64(2), detail.OpenReports)
}

func TestModerationService_GetRecord(t *testing.T) {
	t.Parallel()
	audit := noopAuditRepo()
	audit.getByRefFn = func(_ context.Context, ref string) (*models.ModerationRecord, error) {
		return &models.ModerationRecord{Ref: ref, ActionType: string(moderation.ActionReject)}, nil
	}
	svc := newModerationTestService(t, audit, &accountStoreStub{}, noopReportRepo())

	rec, err := svc.GetRecord(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", rec.Ref)
}
