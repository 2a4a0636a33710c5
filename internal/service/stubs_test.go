package service

import (
	"context"
	"testing"

	"descubre/internal/models"
	"descubre/internal/moderation"
	"descubre/internal/repository"

	"github.com/stretchr/testify/require"
)

// userRepoStub implements repository.UserRepository with overridable funcs.
type userRepoStub struct {
	createFn                  func(ctx context.Context, user *models.User) error
	getByIDFn                 func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFn              func(ctx context.Context, email string) (*models.User, error)
	getByUsernameFn           func(ctx context.Context, username string) (*models.User, error)
	updateFn                  func(ctx context.Context, user *models.User) error
	isAdminFn                 func(ctx context.Context, id uint) (bool, error)
	listFn                    func(ctx context.Context, limit, offset int) ([]models.User, error)
	awardPointsFn             func(ctx context.Context, userID uint, amount int, action string) error
	incrementReviewCountFn    func(ctx context.Context, userID uint) error
	incrementReportsAgainstFn func(ctx context.Context, userID uint) error
}

var _ repository.UserRepository = (*userRepoStub)(nil)

// noopUserRepo returns a stub whose every method succeeds and does nothing.
func noopUserRepo() *userRepoStub {
	return &userRepoStub{}
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	return nil
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return &models.User{ID: id}, nil
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return &models.User{Email: email}, nil
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.getByUsernameFn != nil {
		return s.getByUsernameFn(ctx, username)
	}
	return &models.User{Username: username}, nil
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, user)
	}
	return nil
}

func (s *userRepoStub) IsAdmin(ctx context.Context, id uint) (bool, error) {
	if s.isAdminFn != nil {
		return s.isAdminFn(ctx, id)
	}
	return false, nil
}

func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if s.listFn != nil {
		return s.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (s *userRepoStub) AwardPoints(ctx context.Context, userID uint, amount int, action string) error {
	if s.awardPointsFn != nil {
		return s.awardPointsFn(ctx, userID, amount, action)
	}
	return nil
}

func (s *userRepoStub) IncrementReviewCount(ctx context.Context, userID uint) error {
	if s.incrementReviewCountFn != nil {
		return s.incrementReviewCountFn(ctx, userID)
	}
	return nil
}

func (s *userRepoStub) IncrementReportsAgainst(ctx context.Context, userID uint) error {
	if s.incrementReportsAgainstFn != nil {
		return s.incrementReportsAgainstFn(ctx, userID)
	}
	return nil
}

// placeRepoStub implements repository.PlaceRepository with overridable funcs.
type placeRepoStub struct {
	createFn    func(ctx context.Context, place *models.Place) error
	getByIDFn   func(ctx context.Context, id uint) (*models.Place, error)
	listFn      func(ctx context.Context, category string, limit, offset int) ([]*models.Place, error)
	addRatingFn func(ctx context.Context, placeID uint, rating int) error
}

var _ repository.PlaceRepository = (*placeRepoStub)(nil)

func noopPlaceRepo() *placeRepoStub {
	return &placeRepoStub{}
}

func (s *placeRepoStub) Create(ctx context.Context, place *models.Place) error {
	if s.createFn != nil {
		return s.createFn(ctx, place)
	}
	return nil
}

func (s *placeRepoStub) GetByID(ctx context.Context, id uint) (*models.Place, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return &models.Place{ID: id}, nil
}

func (s *placeRepoStub) List(ctx context.Context, category string, limit, offset int) ([]*models.Place, error) {
	if s.listFn != nil {
		return s.listFn(ctx, category, limit, offset)
	}
	return nil, nil
}

func (s *placeRepoStub) AddRating(ctx context.Context, placeID uint, rating int) error {
	if s.addRatingFn != nil {
		return s.addRatingFn(ctx, placeID, rating)
	}
	return nil
}

// reviewRepoStub implements repository.ReviewRepository with overridable funcs.
type reviewRepoStub struct {
	createFn      func(ctx context.Context, review *models.Review) error
	getByIDFn     func(ctx context.Context, id uint) (*models.Review, error)
	listByPlaceFn func(ctx context.Context, placeID uint, limit, offset int) ([]*models.Review, error)
	listByUserFn  func(ctx context.Context, userID uint) ([]*models.Review, error)
}

var _ repository.ReviewRepository = (*reviewRepoStub)(nil)

func noopReviewRepo() *reviewRepoStub {
	return &reviewRepoStub{}
}

func (s *reviewRepoStub) Create(ctx context.Context, review *models.Review) error {
	if s.createFn != nil {
		return s.createFn(ctx, review)
	}
	review.ID = 1
	return nil
}

func (s *reviewRepoStub) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return &models.Review{ID: id}, nil
}

func (s *reviewRepoStub) ListByPlace(ctx context.Context, placeID uint, limit, offset int) ([]*models.Review, error) {
	if s.listByPlaceFn != nil {
		return s.listByPlaceFn(ctx, placeID, limit, offset)
	}
	return nil, nil
}

func (s *reviewRepoStub) ListByUser(ctx context.Context, userID uint) ([]*models.Review, error) {
	if s.listByUserFn != nil {
		return s.listByUserFn(ctx, userID)
	}
	return nil, nil
}

// moderatorStub returns a canned decision without touching any store.
type moderatorStub struct {
	decision *moderation.Decision
	err      error
	lastSub  moderation.Submission
}

func (m *moderatorStub) Moderate(_ context.Context, sub moderation.Submission) (*moderation.Decision, error) {
	m.lastSub = sub
	if m.err != nil {
		return nil, m.err
	}
	if m.decision != nil {
		return m.decision, nil
	}
	return &moderation.Decision{Approved: true, Action: moderation.ActionApprove, Severity: moderation.SeverityLeve}, nil
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	require.Contains(t,
		[]string{models.CodeValidation, models.CodeEmptyContent},
		appErr.Code,
	)
}
