package service

import (
	"context"
	"log/slog"

	"descubre/internal/models"
	"descubre/internal/moderation"
	"descubre/internal/observability"
	"descubre/internal/ratelimit"
	"descubre/internal/repository"
)

const maxReportReasonLen = 2000

// ReportService files user reports. The free-text reason runs through the
// moderation pipeline like any other submission, so abusive reports sanction
// the reporter.
type ReportService struct {
	reportRepo repository.ReportRepository
	userRepo   repository.UserRepository
	moderator  Moderator
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
}

type CreateReportInput struct {
	ReporterID uint
	TargetType models.ReportTargetType
	TargetID   uint
	Reason     string
	Language   string
}

// ReportResult pairs the created report with its moderation decision.
type ReportResult struct {
	Report   *models.Report       `json:"report,omitempty"`
	Decision *moderation.Decision `json:"moderation"`
}

func NewReportService(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	moderator Moderator,
	limiter *ratelimit.Limiter,
	logger *slog.Logger,
) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		moderator:  moderator,
		limiter:    limiter,
		logger:     logger,
	}
}

func (s *ReportService) CreateReport(ctx context.Context, in CreateReportInput) (*ReportResult, error) {
	switch in.TargetType {
	case models.ReportTargetPlace, models.ReportTargetReview, models.ReportTargetUser:
	default:
		return nil, models.NewValidationError("Target type must be place, review, or user")
	}
	if in.Reason == "" {
		return nil, models.NewValidationErrorWithCode(models.CodeEmptyContent, "Reason is required")
	}
	if len(in.Reason) > maxReportReasonLen {
		return nil, models.NewValidationError("Reason too long (max 2000 characters)")
	}

	if s.limiter != nil && !s.limiter.Allow(in.ReporterID, "report") {
		observability.RateLimitRejections.WithLabelValues("report").Inc()
		return nil, models.NewRateLimitError("Too many reports, slow down")
	}

	decision, err := s.moderator.Moderate(ctx, moderation.Submission{
		Text:        in.Reason,
		AccountID:   in.ReporterID,
		ContentType: moderation.ContentReport,
		Language:    in.Language,
	})
	if err != nil {
		return nil, err
	}

	observability.SubmissionsTotal.WithLabelValues(string(moderation.ContentReport), string(decision.Action)).Inc()

	if decision.Action == moderation.ActionReject {
		return &ReportResult{Decision: decision}, nil
	}

	report := &models.Report{
		ReporterID: in.ReporterID,
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		Reason:     in.Reason,
		Language:   in.Language,
		Status:     models.ReportStatusOpen,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	if in.TargetType == models.ReportTargetUser {
		if err := s.userRepo.IncrementReportsAgainst(ctx, in.TargetID); err != nil {
			s.logger.WarnContext(ctx, "failed to bump reports-against counter",
				slog.Uint64("target_id", uint64(in.TargetID)), slog.String("error", err.Error()))
		}
	}
	if err := s.userRepo.AwardPoints(ctx, in.ReporterID, models.PointsReport, "report_filed"); err != nil {
		s.logger.WarnContext(ctx, "failed to award report points",
			slog.Uint64("user_id", uint64(in.ReporterID)), slog.String("error", err.Error()))
	}

	return &ReportResult{Report: report, Decision: decision}, nil
}

func (s *ReportService) ListOpen(ctx context.Context, limit, offset int) ([]*models.Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reportRepo.ListOpen(ctx, limit, offset)
}
