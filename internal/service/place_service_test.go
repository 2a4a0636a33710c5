package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"descubre/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceService_CreatePlace(t *testing.T) {
	t.Parallel()

	t.Run("creates and awards points", func(t *testing.T) {
		t.Parallel()
		places := noopPlaceRepo()
		places.createFn = func(_ context.Context, p *models.Place) error {
			p.ID = 31
			return nil
		}
		users := noopUserRepo()
		var awarded bool
		users.awardPointsFn = func(_ context.Context, userID uint, amount int, action string) error {
			awarded = true
			assert.Equal(t, uint(2), userID)
			assert.Equal(t, models.PointsPlaceCreated, amount)
			assert.Equal(t, "place_created", action)
			return nil
		}
		svc := NewPlaceService(places, users, nil)

		place, err := svc.CreatePlace(context.Background(), CreatePlaceInput{
			UserID:   2,
			Name:     "Café de la Esquina",
			Category: "cafe",
			Latitude: 40.41, Longitude: -3.70,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(31), place.ID)
		assert.Equal(t, uint(2), place.CreatedByID)
		assert.True(t, awarded)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		svc := NewPlaceService(noopPlaceRepo(), noopUserRepo(), nil)

		cases := []CreatePlaceInput{
			{UserID: 1},                                             // missing name
			{UserID: 1, Name: strings.Repeat("x", 121)},             // name too long
			{UserID: 1, Name: "ok", Latitude: 91},                   // latitude out of range
			{UserID: 1, Name: "ok", Longitude: -181},                // longitude out of range
			{UserID: 1, Name: "ok", Latitude: -90.5, Longitude: 10}, // latitude out of range
		}
		for _, in := range cases {
			_, err := svc.CreatePlace(context.Background(), in)
			assertValidationError(t, err)
		}
	})

	t.Run("points failure does not fail the create", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.awardPointsFn = func(_ context.Context, _ uint, _ int, _ string) error {
			return errors.New("points ledger down")
		}
		svc := NewPlaceService(noopPlaceRepo(), users, nil)

		_, err := svc.CreatePlace(context.Background(), CreatePlaceInput{UserID: 1, Name: "Bar Manolo"})
		assert.NoError(t, err)
	})

	t.Run("repo error propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("insert failed")
		places := noopPlaceRepo()
		places.createFn = func(_ context.Context, _ *models.Place) error { return repoErr }
		svc := NewPlaceService(places, noopUserRepo(), nil)

		_, err := svc.CreatePlace(context.Background(), CreatePlaceInput{UserID: 1, Name: "Bar Manolo"})
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestPlaceService_GetPlace(t *testing.T) {
	t.Parallel()

	t.Run("loads from the repository", func(t *testing.T) {
		t.Parallel()
		places := noopPlaceRepo()
		places.getByIDFn = func(_ context.Context, id uint) (*models.Place, error) {
			return &models.Place{ID: id, Name: "La Boquería"}, nil
		}
		svc := NewPlaceService(places, noopUserRepo(), nil)

		place, err := svc.GetPlace(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, "La Boquería", place.Name)
	})

	t.Run("not found propagates", func(t *testing.T) {
		t.Parallel()
		notFound := models.NewNotFoundError("Place", 4)
		places := noopPlaceRepo()
		places.getByIDFn = func(_ context.Context, _ uint) (*models.Place, error) { return nil, notFound }
		svc := NewPlaceService(places, noopUserRepo(), nil)

		_, err := svc.GetPlace(context.Background(), 4)
		assert.ErrorIs(t, err, notFound)
	})
}

func TestPlaceService_ListPlaces(t *testing.T) {
	t.Parallel()

	places := noopPlaceRepo()
	var gotCategory string
	var gotLimit int
	places.listFn = func(_ context.Context, category string, limit, _ int) ([]*models.Place, error) {
		gotCategory, gotLimit = category, limit
		return []*models.Place{{ID: 1}}, nil
	}
	svc := NewPlaceService(places, noopUserRepo(), nil)

	out, err := svc.ListPlaces(context.Background(), "restaurant", 1000, 0)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "restaurant", gotCategory)
	assert.Equal(t, 20, gotLimit, "oversized limits fall back to the default")
}
