package auth

import (
	"context"
	"testing"
	"time"

	"github.com/finwise/finwise/internal/event_bus"
	"github.com/finwise/finwise/internal/utils"
	"github.com/finwise/finwise/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) (*ServiceImpl, *event_bus.EventBus) {
	bus := event_bus.NewEventBus()
	clock := &utils.MockClock{FixedNow: time.Now()}
	users := user.NewUserService(user.NewStubUserRepository())
	return NewService(users, NewMemorySessionRegistry(clock, time.Hour), bus), bus
}

func registerAlice(t *testing.T, service *ServiceImpl) user.User {
	created, err := service.Register(context.Background(), Registration{
		Username:    "alice",
		Password:    "s3cret-pass",
		DisplayName: "Alice",
		FamilyName:  "Smiths",
	})
	require.NoError(t, err)
	return created
}

func TestServiceImpl_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("should store bcrypt hash and publish registration", func(t *testing.T) {
		// given
		service, bus := setupService(t)
		var received []event_bus.UserRegistered
		event_bus.SubscribeTyped(bus, event_bus.UserRegisteredEvent, func(e event_bus.EventT[event_bus.UserRegistered]) error {
			received = append(received, e.Data)
			return nil
		})

		// when
		created := registerAlice(t, service)

		// then
		assert.NotEqual(t, "s3cret-pass", created.PasswordHash)
		ok, err := CheckPassword(created.PasswordHash, "s3cret-pass")
		require.NoError(t, err)
		assert.True(t, ok)
		require.Len(t, received, 1)
		assert.Equal(t, created.Id, received[0].UserId)
		assert.Equal(t, "Smiths", received[0].FamilyName)
	})

	t.Run("should reject taken username", func(t *testing.T) {
		// given
		service, _ := setupService(t)
		registerAlice(t, service)

		// when
		_, err := service.Register(ctx, Registration{Username: "alice", Password: "another-pass"})

		// then
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("should reject short password", func(t *testing.T) {
		// given
		service, _ := setupService(t)

		// when
		_, err := service.Register(ctx, Registration{Username: "bob", Password: "short"})

		// then
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("should reject short username", func(t *testing.T) {
		// given
		service, _ := setupService(t)

		// when
		_, err := service.Register(ctx, Registration{Username: "bo", Password: "long-enough"})

		// then
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})
}

func TestServiceImpl_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("should create session resolving to the user", func(t *testing.T) {
		// given
		service, _ := setupService(t)
		alice := registerAlice(t, service)

		// when
		loggedIn, session, err := service.Login(ctx, "alice", "s3cret-pass")

		// then
		require.NoError(t, err)
		assert.Equal(t, alice.Id, loggedIn.Id)
		authenticated, err := service.Authenticate(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, alice.Id, authenticated.Id)
	})

	t.Run("should report wrong password and unknown user the same way", func(t *testing.T) {
		// given
		service, _ := setupService(t)
		registerAlice(t, service)

		// when
		_, _, wrongPassword := service.Login(ctx, "alice", "not-the-password")
		_, _, unknownUser := service.Login(ctx, "nobody", "s3cret-pass")

		// then
		assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
		assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	})

	t.Run("should supersede the previous session on second login", func(t *testing.T) {
		// given
		service, _ := setupService(t)
		registerAlice(t, service)
		_, first, err := service.Login(ctx, "alice", "s3cret-pass")
		require.NoError(t, err)

		// when
		_, second, err := service.Login(ctx, "alice", "s3cret-pass")
		require.NoError(t, err)

		// then
		_, err = service.Authenticate(ctx, first.Token)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		_, err = service.Authenticate(ctx, second.Token)
		assert.NoError(t, err)
	})
}

func TestServiceImpl_Logout(t *testing.T) {
	// given
	ctx := context.Background()
	service, _ := setupService(t)
	registerAlice(t, service)
	_, session, err := service.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)

	// when
	err = service.Logout(ctx, session.Token)

	// then
	require.NoError(t, err)
	_, err = service.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.NoError(t, service.Logout(ctx, ""))
}
