package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/finwise/finwise/internal/event_bus"
	"github.com/finwise/finwise/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrInvalidRegistration = errors.New("invalid registration")
var ErrUsernameTaken = user.ErrUsernameTaken

const (
	minUsernameLength = 3
	maxUsernameLength = 64
	minPasswordLength = 8
)

type Registration struct {
	Username    string
	Password    string
	DisplayName string
	FamilyName  string
}

type Service interface {
	Register(ctx context.Context, registration Registration) (user.User, error)
	Login(ctx context.Context, username, password string) (user.User, Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (user.User, error)
}

type ServiceImpl struct {
	users    user.Service
	sessions SessionRegistry
	eventBus *event_bus.EventBus
}

func NewService(users user.Service, sessions SessionRegistry, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{
		users:    users,
		sessions: sessions,
		eventBus: eventBus,
	}
}

func (s *ServiceImpl) Register(ctx context.Context, registration Registration) (user.User, error) {
	username := strings.TrimSpace(registration.Username)
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return user.User{}, fmt.Errorf("%w: username must have between %d and %d characters",
			ErrInvalidRegistration, minUsernameLength, maxUsernameLength)
	}
	if utf8.RuneCountInString(registration.Password) < minPasswordLength {
		return user.User{}, fmt.Errorf("%w: password must have at least %d characters",
			ErrInvalidRegistration, minPasswordLength)
	}

	available, err := s.users.IsUsernameAvailable(ctx, username)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to check username availability: %w", err)
	}
	if !available {
		return user.User{}, ErrUsernameTaken
	}

	hash, err := HashPassword(registration.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.CreateUser(ctx, user.User{
		Uid:          uuid.NewString(),
		Username:     username,
		DisplayName:  strings.TrimSpace(registration.DisplayName),
		PasswordHash: hash,
	})
	if err != nil {
		return user.User{}, err
	}
	log.Infof("Registered user %s (id %d)", created.Username, created.Id)

	// A failed subscriber does not undo the registration; the family profile is created lazily later.
	err = s.eventBus.Publish(event_bus.NewEvent(user.WithUser(ctx, created), event_bus.UserRegisteredEvent,
		event_bus.UserRegistered{
			UserId:      created.Id,
			Username:    created.Username,
			DisplayName: created.DisplayName,
			FamilyName:  strings.TrimSpace(registration.FamilyName),
		}))
	if err != nil {
		log.Errorf("failed to publish registration of user %d: %v", created.Id, err)
	}
	return created, nil
}

func (s *ServiceImpl) Login(ctx context.Context, username, password string) (user.User, Session, error) {
	found, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, user.ErrUserNotFound) {
		log.Debugf("login attempt for unknown user %s", username)
		return user.User{}, Session{}, ErrInvalidCredentials
	} else if err != nil {
		return user.User{}, Session{}, fmt.Errorf("failed to load user: %w", err)
	}

	ok, err := CheckPassword(found.PasswordHash, password)
	if err != nil {
		return user.User{}, Session{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		log.Debugf("wrong password for user %s", username)
		return user.User{}, Session{}, ErrInvalidCredentials
	}

	session, err := s.sessions.Create(ctx, found.Id)
	if err != nil {
		return user.User{}, Session{}, err
	}
	return found, session, nil
}

func (s *ServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}

// Authenticate resolves a session token to its user. Unknown, expired and orphaned tokens all yield
// ErrSessionNotFound.
func (s *ServiceImpl) Authenticate(ctx context.Context, token string) (user.User, error) {
	session, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return user.User{}, err
	}
	found, err := s.users.GetUser(ctx, session.UserId)
	if errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, ErrSessionNotFound
	} else if err != nil {
		return user.User{}, fmt.Errorf("failed to load session user: %w", err)
	}
	return found, nil
}
