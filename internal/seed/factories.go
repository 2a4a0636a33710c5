// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"descubre/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db: db,
		//nolint:gosec // Weak random number generator is fine for seeding
		r: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildUser constructs a user struct without persisting it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	username := fmt.Sprintf("%s%d", gofakeit.Username(), f.r.Intn(10000))
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Seed-password-123!"), bcrypt.MinCost)

	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: string(hashed),
		Bio:      gofakeit.Sentence(8),
		Stats: models.AccountStats{
			EmailVerified: f.r.Intn(2) == 0,
		},
	}

	// realistic account-age spread so trust scores vary
	daysBack := f.r.Intn(365)
	user.CreatedAt = time.Now().Add(-time.Duration(daysBack) * 24 * time.Hour)

	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUsers persists n fake users.
func (f *Factory) CreateUsers(n int) ([]models.User, error) {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := f.BuildUser()
		if err := f.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

// BuildReview constructs a review struct without persisting it.
func (f *Factory) BuildReview(user *models.User, place *models.Place, overrides ...func(*models.Review)) *models.Review {
	review := &models.Review{
		UserID:   user.ID,
		PlaceID:  place.ID,
		Rating:   1 + f.r.Intn(5),
		Text:     gofakeit.Paragraph(1, 2, 8, " "),
		Language: "es",
		Status:   models.ReviewStatusPublished,
	}

	daysBack := f.r.Intn(90)
	review.CreatedAt = time.Now().Add(-time.Duration(daysBack) * 24 * time.Hour)

	for _, override := range overrides {
		override(review)
	}
	return review
}

// CreateReviews persists n fake reviews spread across the given users and
// places, folding each rating into the place aggregate.
func (f *Factory) CreateReviews(users []models.User, places []models.Place, n int) ([]models.Review, error) {
	if len(users) == 0 || len(places) == 0 {
		return nil, nil
	}

	reviews := make([]models.Review, 0, n)
	for i := 0; i < n; i++ {
		user := users[f.r.Intn(len(users))]
		place := places[f.r.Intn(len(places))]
		review := f.BuildReview(&user, &place)

		err := f.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(review).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Place{}).Where("id = ?", place.ID).
				Updates(map[string]any{
					"rating_sum":   gorm.Expr("rating_sum + ?", review.Rating),
					"rating_count": gorm.Expr("rating_count + 1"),
				}).Error; err != nil {
				return err
			}
			return tx.Model(&models.User{}).Where("id = ?", user.ID).
				Update("review_count", gorm.Expr("review_count + 1")).Error
		})
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *review)
	}
	return reviews, nil
}
