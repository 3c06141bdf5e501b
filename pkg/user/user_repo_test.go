package user

import (
	"context"
	"os"
	"testing"

	"github.com/finwise/finwise/internal/test_utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, Repo) {
	test_utils.Truncate(t, db)
	return context.Background(), NewUserRepo(db)
}

func TestUserRepoImpl_CreateUser(t *testing.T) {
	t.Run("should store user and assign id", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)

		// when
		created, err := repo.CreateUser(ctx, User{Uid: uuid.NewString(), Username: "alice", DisplayName: "Alice", PasswordHash: "hash"})

		// then
		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.False(t, created.CreatedAt.IsZero())

		stored, err := repo.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, created.Id, stored.Id)
		assert.Equal(t, "hash", stored.PasswordHash)
	})

	t.Run("should reject duplicated username", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)
		_, err := repo.CreateUser(ctx, User{Uid: uuid.NewString(), Username: "alice", DisplayName: "Alice", PasswordHash: "hash"})
		require.NoError(t, err)

		// when
		_, err = repo.CreateUser(ctx, User{Uid: uuid.NewString(), Username: "alice", DisplayName: "Other", PasswordHash: "hash"})

		// then
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
}

func TestUserRepoImpl_GetUser(t *testing.T) {
	t.Run("should return ErrUserNotFound for missing user", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)

		// when
		_, err := repo.GetUser(ctx, 42)

		// then
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("should find user by uid", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)
		uid := uuid.NewString()
		created, err := repo.CreateUser(ctx, User{Uid: uid, Username: "bob", DisplayName: "Bob", PasswordHash: "hash"})
		require.NoError(t, err)

		// when
		found, err := repo.GetUserByUid(ctx, uid)

		// then
		require.NoError(t, err)
		assert.Equal(t, created.Id, found.Id)
		assert.Equal(t, "bob", found.Username)
	})
}

func TestUserRepoImpl_UpdateUser(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	created, err := repo.CreateUser(ctx, User{Uid: uuid.NewString(), Username: "carol", DisplayName: "Carol", PasswordHash: "hash"})
	require.NoError(t, err)

	// when
	updated, err := repo.UpdateUser(ctx, created.Id, User{DisplayName: "Carol Smith", Username: "ignored"})

	// then
	require.NoError(t, err)
	assert.Equal(t, "Carol Smith", updated.DisplayName)
	assert.Equal(t, "carol", updated.Username)
	assert.Equal(t, "hash", updated.PasswordHash)
}

func TestUserRepoImpl_IsUsernameAvailable(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	_, err := repo.CreateUser(ctx, User{Uid: uuid.NewString(), Username: "dave", DisplayName: "Dave", PasswordHash: "hash"})
	require.NoError(t, err)

	// when
	taken, err := repo.IsUsernameAvailable(ctx, "dave")
	require.NoError(t, err)
	free, err := repo.IsUsernameAvailable(ctx, "erin")
	require.NoError(t, err)

	// then
	assert.False(t, taken)
	assert.True(t, free)
}
