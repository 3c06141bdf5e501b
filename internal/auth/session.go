package auth

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	Token     string
	UserId    int
	ExpiresAt time.Time
}

// SessionRegistry keeps at most one live session per user. Create supersedes the previous session of
// the user atomically: once it returns, the old token no longer resolves.
type SessionRegistry interface {
	Create(ctx context.Context, userId int) (Session, error)
	Resolve(ctx context.Context, token string) (Session, error)
	Revoke(ctx context.Context, token string) error
}
