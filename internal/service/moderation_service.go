package service

import (
	"context"
	"time"

	"descubre/internal/models"
	"descubre/internal/moderation"
	"descubre/internal/repository"
)

// AdminUserDetail aggregates the account and its moderation history for the
// admin console.
type AdminUserDetail struct {
	User          models.User                 `json:"user"`
	TrustScore    int                         `json:"trust_score"`
	TrustLevel    moderation.TrustLevel       `json:"trust_level"`
	History       moderation.ViolationHistory `json:"history"`
	RecentRecords []models.ModerationRecord   `json:"recent_records"`
	OpenReports   int64                       `json:"open_reports"`
}

// ModerationService exposes the admin-facing moderation surface: detector
// previews, record queries, and per-account detail views.
type ModerationService struct {
	pipeline   *moderation.Pipeline
	accounts   moderation.AccountStore
	auditRepo  repository.AuditRepository
	userRepo   repository.UserRepository
	reportRepo repository.ReportRepository
	window     time.Duration
}

// NewModerationService returns a new ModerationService.
func NewModerationService(
	pipeline *moderation.Pipeline,
	accounts moderation.AccountStore,
	auditRepo repository.AuditRepository,
	userRepo repository.UserRepository,
	reportRepo repository.ReportRepository,
	window time.Duration,
) *ModerationService {
	if window <= 0 {
		window = moderation.DefaultViolationWindow
	}
	return &ModerationService{
		pipeline:   pipeline,
		accounts:   accounts,
		auditRepo:  auditRepo,
		userRepo:   userRepo,
		reportRepo: reportRepo,
		window:     window,
	}
}

// Preview runs the detectors only, with no persistence or sanctions. Admins
// use it to probe how a given text would be classified.
func (s *ModerationService) Preview(ctx context.Context, text, language string) (*moderation.CheckResult, error) {
	return s.pipeline.Check(ctx, text, language)
}

// GetRecord loads one moderation record by its public reference.
func (s *ModerationService) GetRecord(ctx context.Context, ref string) (*models.ModerationRecord, error) {
	return s.auditRepo.GetByRef(ctx, ref)
}

// ListFlagged returns the human-review queue, newest first.
func (s *ModerationService) ListFlagged(ctx context.Context, limit, offset int) ([]models.ModerationRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.auditRepo.ListByAction(ctx, string(moderation.ActionFlagForReview), limit, offset)
}

// ListForUser returns the account's records inside the violation window.
func (s *ModerationService) ListForUser(ctx context.Context, userID uint) ([]models.ModerationRecord, error) {
	since := time.Now().Add(-s.window)
	return s.auditRepo.QueryByAccount(ctx, userID, since, false)
}

// GetAdminUserDetail returns the account plus its trust standing and
// violation history for admin views.
func (s *ModerationService) GetAdminUserDetail(ctx context.Context, userID uint) (*AdminUserDetail, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	signals, err := s.accounts.GetSignals(ctx, userID)
	if err != nil {
		return nil, err
	}
	trust := moderation.TrustScore(signals)

	now := time.Now()
	agg := moderation.NewHistoryAggregator(s.auditRepo, s.window)
	history, err := agg.Aggregate(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	records, err := s.auditRepo.QueryByAccount(ctx, userID, now.Add(-s.window), false)
	if err != nil {
		return nil, err
	}

	openReports, err := s.reportRepo.CountAgainstUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &AdminUserDetail{
		User:          *user,
		TrustScore:    trust,
		TrustLevel:    moderation.TrustLevelFor(trust),
		History:       history,
		RecentRecords: records,
		OpenReports:   openReports,
	}, nil
}
