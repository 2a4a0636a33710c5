package repository

import (
	"context"

	"descubre/internal/models"

	"gorm.io/gorm"
)

// PlaceRepository defines interface for place operations
type PlaceRepository interface {
	Create(ctx context.Context, place *models.Place) error
	GetByID(ctx context.Context, id uint) (*models.Place, error)
	List(ctx context.Context, category string, limit, offset int) ([]*models.Place, error)
	AddRating(ctx context.Context, placeID uint, rating int) error
}

type placeRepository struct {
	db *gorm.DB
}

// NewPlaceRepository creates a new PlaceRepository
func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

func (r *placeRepository) Create(ctx context.Context, place *models.Place) error {
	return r.db.WithContext(ctx).Create(place).Error
}

func (r *placeRepository) GetByID(ctx context.Context, id uint) (*models.Place, error) {
	var place models.Place
	if err := r.db.WithContext(ctx).Preload("CreatedBy").First(&place, id).Error; err != nil {
		return nil, err
	}
	return &place, nil
}

func (r *placeRepository) List(ctx context.Context, category string, limit, offset int) ([]*models.Place, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var places []*models.Place
	err := q.Find(&places).Error
	return places, err
}

// AddRating folds a new rating into the place's running aggregate.
func (r *placeRepository) AddRating(ctx context.Context, placeID uint, rating int) error {
	return r.db.WithContext(ctx).
		Model(&models.Place{}).
		Where("id = ?", placeID).
		Updates(map[string]interface{}{
			"rating_sum":   gorm.Expr("rating_sum + ?", rating),
			"rating_count": gorm.Expr("rating_count + 1"),
		}).Error
}
