package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) (*UserServiceImpl, *StubUserRepository) {
	repo := NewStubUserRepository()
	return NewUserService(repo), repo
}

func TestUserServiceImpl_GetCurrentUser(t *testing.T) {
	t.Run("should fail without user in context", func(t *testing.T) {
		// given
		service, _ := setupService(t)

		// when
		_, err := service.GetCurrentUser(context.Background())

		// then
		assert.ErrorIs(t, err, ErrNoUser)
	})

	t.Run("should load the user stored under the context id", func(t *testing.T) {
		// given
		service, repo := setupService(t)
		stored, err := repo.CreateUser(context.Background(), User{Username: "alice", DisplayName: "Alice", PasswordHash: "h"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), User{Id: stored.Id})

		// when
		current, err := service.GetCurrentUser(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Alice", current.DisplayName)
	})
}

func TestUserServiceImpl_CreateUser(t *testing.T) {
	t.Run("should default display name to username", func(t *testing.T) {
		// given
		service, _ := setupService(t)

		// when
		created, err := service.CreateUser(context.Background(), User{Username: "bob", PasswordHash: "h"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "bob", created.DisplayName)
	})

	t.Run("should reject user without password hash", func(t *testing.T) {
		// given
		service, _ := setupService(t)

		// when
		_, err := service.CreateUser(context.Background(), User{Username: "bob"})

		// then
		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})
}

func TestUserServiceImpl_UpdateUser(t *testing.T) {
	t.Run("should change only the display name", func(t *testing.T) {
		// given
		service, repo := setupService(t)
		stored, err := repo.CreateUser(context.Background(), User{Username: "carol", DisplayName: "Carol", PasswordHash: "h"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), stored)

		// when
		updated, err := service.UpdateUser(ctx, User{Username: "mallory", DisplayName: "Carol S."})

		// then
		require.NoError(t, err)
		assert.Equal(t, "Carol S.", updated.DisplayName)
		assert.Equal(t, "carol", updated.Username)
	})

	t.Run("should reject blank display name", func(t *testing.T) {
		// given
		service, repo := setupService(t)
		stored, err := repo.CreateUser(context.Background(), User{Username: "dave", DisplayName: "Dave", PasswordHash: "h"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), stored)

		// when
		_, err = service.UpdateUser(ctx, User{DisplayName: "  "})

		// then
		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})
}
