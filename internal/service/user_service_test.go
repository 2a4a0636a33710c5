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

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	existing := func(id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "viajera_madrid", Bio: "como por ahi"}, nil
	}

	t.Run("rename goes through the handle rules", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{
			strings.Repeat("x", 31), // over length
			"user@123",              // illegal chars
			"moderacion",            // reserved handle
		} {
			repo := noopUserRepo()
			repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) { return existing(id) }
			svc := NewUserService(repo)
			_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Username: bad})
			assertValidationError(t, err)
		}
	})

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) { return existing(id) }
		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Bio:    strings.Repeat("x", 501),
		})
		assertValidationError(t, err)
	})

	t.Run("empty fields are left alone", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) { return existing(id) }
		var saved *models.User
		repo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		svc := NewUserService(repo)
		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Bio:    "resenas honestas de tascas",
		})
		require.NoError(t, err)
		assert.Equal(t, "viajera_madrid", user.Username, "username unchanged when not provided")
		assert.Equal(t, "resenas honestas de tascas", user.Bio)
		require.NotNil(t, saved)
		assert.Equal(t, "resenas honestas de tascas", saved.Bio)
	})

	t.Run("rename trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) { return existing(id) }
		svc := NewUserService(repo)
		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   1,
			Username: "  foodie-2024  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "foodie-2024", user.Username)
	})

	t.Run("repo errors propagate", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("db connection error")
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return nil, repoErr }
		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Username: "nuevo"})
		assert.ErrorIs(t, err, repoErr)

		repo = noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) { return existing(id) }
		saveErr := errors.New("update failed")
		repo.updateFn = func(_ context.Context, _ *models.User) error { return saveErr }
		svc = NewUserService(repo)
		_, err = svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Username: "nuevo"})
		assert.ErrorIs(t, err, saveErr)
	})
}

func TestUserService_SetAdmin(t *testing.T) {
	t.Parallel()

	t.Run("grants and revokes the role", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		}
		var saved *models.User
		repo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		svc := NewUserService(repo)

		user, err := svc.SetAdmin(context.Background(), 5, true)
		require.NoError(t, err)
		assert.True(t, user.IsAdmin)
		require.NotNil(t, saved)
		assert.True(t, saved.IsAdmin)

		user, err = svc.SetAdmin(context.Background(), 5, false)
		require.NoError(t, err)
		assert.False(t, user.IsAdmin)
	})

	t.Run("unknown user propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("user not found")
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return nil, repoErr }
		svc := NewUserService(repo)
		_, err := svc.SetAdmin(context.Background(), 99, true)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "viajera_madrid"}, nil
	}
	svc := NewUserService(repo)
	user, err := svc.GetUserByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "viajera_madrid", user.Username)
}
