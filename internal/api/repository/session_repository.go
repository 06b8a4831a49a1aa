//go:generate mockgen -source=session_repository.go -destination=mocks/mock_session_repository.go -package=mocks

package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionRepository defines the interface for server-side login sessions.
type SessionRepository interface {
	Create(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Resolve(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

type redisSessionRepository struct {
	rdb *redis.Client
}

// NewSessionRepository creates a new Redis-based SessionRepository.
func NewSessionRepository(rdb *redis.Client) SessionRepository {
	return &redisSessionRepository{rdb: rdb}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Create binds token to userID until ttl elapses.
func (r *redisSessionRepository) Create(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Create")
	defer span.End()

	// SETNX so two logins can never share a token.
	ok, err := r.rdb.SetNX(ctx, sessionKey(token), userID, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if !ok {
		return fmt.Errorf("session token collision")
	}
	return nil
}

// Resolve returns the user bound to token, or ErrNotFound when the session is
// unknown or expired.
func (r *redisSessionRepository) Resolve(ctx context.Context, token string) (int64, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.Resolve")
	defer span.End()

	val, err := r.rdb.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to read session: %w", err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value %q: %w", val, err)
	}
	return userID, nil
}

// Delete invalidates the session. Deleting an unknown session is not an error.
func (r *redisSessionRepository) Delete(ctx context.Context, token string) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Delete")
	defer span.End()

	return r.rdb.Del(ctx, sessionKey(token)).Err()
}
