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

const maxReviewLen = 5000

// Moderator is the slice of the moderation pipeline the content services use.
type Moderator interface {
	Moderate(ctx context.Context, sub moderation.Submission) (*moderation.Decision, error)
}

// ReviewService creates reviews, gating every submission through the
// moderation pipeline before anything is persisted.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	placeRepo  repository.PlaceRepository
	userRepo   repository.UserRepository
	moderator  Moderator
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
}

type CreateReviewInput struct {
	UserID   uint
	PlaceID  uint
	Rating   int
	Text     string
	Language string
}

// ReviewResult pairs the created review with its moderation decision. On a
// REJECT the review is nil and the decision carries the reason and record
// reference.
type ReviewResult struct {
	Review   *models.Review       `json:"review,omitempty"`
	Decision *moderation.Decision `json:"moderation"`
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	placeRepo repository.PlaceRepository,
	userRepo repository.UserRepository,
	moderator Moderator,
	limiter *ratelimit.Limiter,
	logger *slog.Logger,
) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{
		reviewRepo: reviewRepo,
		placeRepo:  placeRepo,
		userRepo:   userRepo,
		moderator:  moderator,
		limiter:    limiter,
		logger:     logger,
	}
}

func (s *ReviewService) CreateReview(ctx context.Context, in CreateReviewInput) (*ReviewResult, error) {
	if _, err := s.placeRepo.GetByID(ctx, in.PlaceID); err != nil {
		return nil, err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, models.NewValidationError("Rating must be between 1 and 5")
	}
	if in.Text == "" {
		return nil, models.NewValidationErrorWithCode(models.CodeEmptyContent, "Text is required")
	}
	if len(in.Text) > maxReviewLen {
		return nil, models.NewValidationError("Review too long (max 5000 characters)")
	}

	if s.limiter != nil && !s.limiter.Allow(in.UserID, "review") {
		observability.RateLimitRejections.WithLabelValues("review").Inc()
		return nil, models.NewRateLimitError("Too many reviews, slow down")
	}

	decision, err := s.moderator.Moderate(ctx, moderation.Submission{
		Text:        in.Text,
		AccountID:   in.UserID,
		ContentType: moderation.ContentReview,
		Language:    in.Language,
	})
	if err != nil {
		return nil, err
	}

	observability.SubmissionsTotal.WithLabelValues(string(moderation.ContentReview), string(decision.Action)).Inc()

	if decision.Action == moderation.ActionReject {
		return &ReviewResult{Decision: decision}, nil
	}

	status := models.ReviewStatusPublished
	if decision.Action == moderation.ActionFlagForReview {
		status = models.ReviewStatusFlagged
	}

	review := &models.Review{
		UserID:   in.UserID,
		PlaceID:  in.PlaceID,
		Rating:   in.Rating,
		Text:     in.Text,
		Language: in.Language,
		Status:   status,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.placeRepo.AddRating(ctx, in.PlaceID, in.Rating); err != nil {
		s.logger.WarnContext(ctx, "failed to fold rating into place aggregate",
			slog.Uint64("place_id", uint64(in.PlaceID)), slog.String("error", err.Error()))
	}
	if err := s.userRepo.IncrementReviewCount(ctx, in.UserID); err != nil {
		s.logger.WarnContext(ctx, "failed to bump review count",
			slog.Uint64("user_id", uint64(in.UserID)), slog.String("error", err.Error()))
	}
	if err := s.userRepo.AwardPoints(ctx, in.UserID, models.PointsReview, "review_created"); err != nil {
		s.logger.WarnContext(ctx, "failed to award review points",
			slog.Uint64("user_id", uint64(in.UserID)), slog.String("error", err.Error()))
	}

	created, err := s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return &ReviewResult{Review: created, Decision: decision}, nil
}

func (s *ReviewService) ListByPlace(ctx context.Context, placeID uint, limit, offset int) ([]*models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if _, err := s.placeRepo.GetByID(ctx, placeID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByPlace(ctx, placeID, limit, offset)
}

func (s *ReviewService) ListByUser(ctx context.Context, userID uint) ([]*models.Review, error) {
	return s.reviewRepo.ListByUser(ctx, userID)
}
