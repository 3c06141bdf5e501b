package auth

import (
	"context"
	"sync"
	"time"

	"github.com/finwise/finwise/internal/utils"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type MemorySessionRegistry struct {
	mu      sync.Mutex
	clock   utils.Clock
	maxAge  time.Duration
	byToken map[string]Session
	byUser  map[int]string
}

func NewMemorySessionRegistry(clock utils.Clock, maxAge time.Duration) *MemorySessionRegistry {
	return &MemorySessionRegistry{
		clock:   clock,
		maxAge:  maxAge,
		byToken: make(map[string]Session),
		byUser:  make(map[int]string),
	}
}

func (m *MemorySessionRegistry) Create(_ context.Context, userId int) (Session, error) {
	session := Session{
		Token:     uuid.NewString(),
		UserId:    userId,
		ExpiresAt: m.clock.Now().Add(m.maxAge),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	if previous, ok := m.byUser[userId]; ok {
		log.Debugf("superseding previous session of user %d", userId)
		delete(m.byToken, previous)
	}
	m.byToken[session.Token] = session
	m.byUser[userId] = session.Token
	return session, nil
}

func (m *MemorySessionRegistry) Resolve(_ context.Context, token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.byToken[token]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if !m.clock.Now().Before(session.ExpiresAt) {
		m.removeLocked(session)
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

func (m *MemorySessionRegistry) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.byToken[token]; ok {
		m.removeLocked(session)
	}
	return nil
}

func (m *MemorySessionRegistry) removeLocked(session Session) {
	delete(m.byToken, session.Token)
	if m.byUser[session.UserId] == session.Token {
		delete(m.byUser, session.UserId)
	}
}

// pruneLocked drops expired sessions, so users who never come back do not keep entries forever.
func (m *MemorySessionRegistry) pruneLocked() {
	now := m.clock.Now()
	for _, session := range m.byToken {
		if !now.Before(session.ExpiresAt) {
			m.removeLocked(session)
		}
	}
}
