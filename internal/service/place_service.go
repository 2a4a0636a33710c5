package service

import (
	"context"
	"log/slog"

	"descubre/internal/cache"
	"descubre/internal/models"
	"descubre/internal/repository"
)

// PlaceService manages the place catalog.
type PlaceService struct {
	placeRepo repository.PlaceRepository
	userRepo  repository.UserRepository
	logger    *slog.Logger
}

type CreatePlaceInput struct {
	UserID      uint
	Name        string
	Description string
	Category    string
	Address     string
	Latitude    float64
	Longitude   float64
}

func NewPlaceService(placeRepo repository.PlaceRepository, userRepo repository.UserRepository, logger *slog.Logger) *PlaceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaceService{placeRepo: placeRepo, userRepo: userRepo, logger: logger}
}

func (s *PlaceService) CreatePlace(ctx context.Context, in CreatePlaceInput) (*models.Place, error) {
	const maxNameLen = 120

	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if len(in.Name) > maxNameLen {
		return nil, models.NewValidationError("Name too long (max 120 characters)")
	}
	if in.Latitude < -90 || in.Latitude > 90 || in.Longitude < -180 || in.Longitude > 180 {
		return nil, models.NewValidationError("Coordinates out of range")
	}

	place := &models.Place{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Address:     in.Address,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		CreatedByID: in.UserID,
	}
	if err := s.placeRepo.Create(ctx, place); err != nil {
		return nil, err
	}

	if err := s.userRepo.AwardPoints(ctx, in.UserID, models.PointsPlaceCreated, "place_created"); err != nil {
		s.logger.WarnContext(ctx, "failed to award place points",
			slog.Uint64("user_id", uint64(in.UserID)), slog.String("error", err.Error()))
	}

	return place, nil
}

// GetPlace loads a place through the cache-aside helper.
func (s *PlaceService) GetPlace(ctx context.Context, id uint) (*models.Place, error) {
	var place models.Place
	err := cache.CacheAside(ctx, cache.PlaceKey(id), &place, cache.PlaceTTL, func() error {
		p, err := s.placeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		place = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &place, nil
}

func (s *PlaceService) ListPlaces(ctx context.Context, category string, limit, offset int) ([]*models.Place, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.placeRepo.List(ctx, category, limit, offset)
}
