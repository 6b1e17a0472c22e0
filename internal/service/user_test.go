package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefulapp/plateful-server/internal/auth"
	domainerrors "github.com/platefulapp/plateful-server/internal/errors"
)

func TestUserService_Register(t *testing.T) {
	s := newTestStore(t)
	svc := NewUserService(s, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	t.Run("creates an active user", func(t *testing.T) {
		user, err := svc.Register(ctx, RegisterRequest{
			Email:    "new@example.com",
			Password: "secret",
			Name:     "New User",
		})
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "new@example.com", user.Email)
		assert.Equal(t, "New User", user.Name)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsStaff)

		// Password is stored hashed, never plain.
		assert.NotEqual(t, "secret", user.PasswordHash)
		ok, err := auth.VerifyPassword(user.PasswordHash, "secret")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{
			Email:    "short@example.com",
			Password: "pw",
		})
		assertDomainCode(t, err, domainerrors.CodeValidation)
	})

	t.Run("rejects missing email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{Password: "secret"})
		assertDomainCode(t, err, domainerrors.CodeValidation)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{Email: "not-an-email", Password: "secret"})
		assertDomainCode(t, err, domainerrors.CodeValidation)
	})

	t.Run("duplicate email is a validation failure", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{
			Email:    "dupe@example.com",
			Password: "secret",
		})
		require.NoError(t, err)

		// A case variant of the same address still collides.
		_, err = svc.Register(ctx, RegisterRequest{
			Email:    "DUPE@example.com",
			Password: "secret",
		})
		assertDomainCode(t, err, domainerrors.CodeValidation)
	})
}

func TestUserService_Profile(t *testing.T) {
	s := newTestStore(t)
	svc := NewUserService(s, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	userID := registerTestUser(t, s, "profile@example.com", "original")

	t.Run("get", func(t *testing.T) {
		user, err := svc.GetProfile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "profile@example.com", user.Email)
	})

	t.Run("get unknown user", func(t *testing.T) {
		_, err := svc.GetProfile(ctx, 9999)
		assertDomainCode(t, err, domainerrors.CodeNotFound)
	})

	t.Run("partial update of name", func(t *testing.T) {
		name := "Renamed"
		user, err := svc.UpdateProfile(ctx, userID, UpdateProfileRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", user.Name)

		// Password still works, it was not touched.
		ok, err := auth.VerifyPassword(user.PasswordHash, "original")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("password change is hashed and applied", func(t *testing.T) {
		password := "changed-pass"
		user, err := svc.UpdateProfile(ctx, userID, UpdateProfileRequest{Password: &password})
		require.NoError(t, err)

		ok, err := auth.VerifyPassword(user.PasswordHash, "changed-pass")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = auth.VerifyPassword(user.PasswordHash, "original")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("short password on update is rejected", func(t *testing.T) {
		password := "pw"
		_, err := svc.UpdateProfile(ctx, userID, UpdateProfileRequest{Password: &password})
		assertDomainCode(t, err, domainerrors.CodeValidation)
	})
}
