package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/finwise/finwise/internal/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	tokenKeyPrefix = "finwise:session:token:"
	userKeyPrefix  = "finwise:session:user:"
)

// KEYS[1] user key, KEYS[2] new token key; ARGV: token, user id, ttl in ms, token key prefix.
var createSessionScript = redis.NewScript(`
local previous = redis.call('GET', KEYS[1])
if previous then
	redis.call('DEL', ARGV[4] .. previous)
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return previous
`)

// KEYS[1] token key; ARGV: token, user key prefix.
var revokeSessionScript = redis.NewScript(`
local userId = redis.call('GET', KEYS[1])
if not userId then
	return 0
end
redis.call('DEL', KEYS[1])
local userKey = ARGV[2] .. userId
if redis.call('GET', userKey) == ARGV[1] then
	redis.call('DEL', userKey)
end
return 1
`)

// RedisSessionRegistry stores sessions in Redis so they survive restarts and are shared between instances.
type RedisSessionRegistry struct {
	rdb    redis.UniversalClient
	clock  utils.Clock
	maxAge time.Duration
}

func NewRedisSessionRegistry(rdb redis.UniversalClient, clock utils.Clock, maxAge time.Duration) *RedisSessionRegistry {
	return &RedisSessionRegistry{rdb: rdb, clock: clock, maxAge: maxAge}
}

func (r *RedisSessionRegistry) Create(ctx context.Context, userId int) (Session, error) {
	session := Session{
		Token:     uuid.NewString(),
		UserId:    userId,
		ExpiresAt: r.clock.Now().Add(r.maxAge),
	}
	keys := []string{userKey(userId), tokenKeyPrefix + session.Token}
	err := createSessionScript.Run(ctx, r.rdb, keys,
		session.Token, userId, r.maxAge.Milliseconds(), tokenKeyPrefix,
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Errorf("failed to store session of user %d: %v", userId, err)
		return Session{}, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

func (r *RedisSessionRegistry) Resolve(ctx context.Context, token string) (Session, error) {
	key := tokenKeyPrefix + token
	pipe := r.rdb.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	_, err := pipe.Exec(ctx)
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	} else if err != nil {
		log.Errorf("failed to resolve session: %v", err)
		return Session{}, fmt.Errorf("failed to resolve session: %w", err)
	}

	userId, err := strconv.Atoi(getCmd.Val())
	if err != nil {
		log.Errorf("corrupted session entry %s: %v", key, err)
		return Session{}, ErrSessionNotFound
	}
	return Session{
		Token:     token,
		UserId:    userId,
		ExpiresAt: r.clock.Now().Add(ttlCmd.Val()),
	}, nil
}

func (r *RedisSessionRegistry) Revoke(ctx context.Context, token string) error {
	err := revokeSessionScript.Run(ctx, r.rdb, []string{tokenKeyPrefix + token}, token, userKeyPrefix).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Errorf("failed to revoke session: %v", err)
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func userKey(userId int) string {
	return userKeyPrefix + strconv.Itoa(userId)
}
