package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found or revoked")

// SessionRepository хранит выданные токены (jti → user id), чтобы их можно было отозвать.
type SessionRepository interface {
	Save(ctx context.Context, jti string, userID int, ttl time.Duration) error
	Lookup(ctx context.Context, jti string) (int, error)
	Revoke(ctx context.Context, jti string) error
}

type redisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) SessionRepository {
	return &redisSessionRepository{client: client}
}

func sessionKey(jti string) string {
	return "session:" + jti
}

func (r *redisSessionRepository) Save(ctx context.Context, jti string, userID int, ttl time.Duration) error {
	if err := r.client.Set(ctx, sessionKey(jti), userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Lookup(ctx context.Context, jti string) (int, error) {
	val, err := r.client.Get(ctx, sessionKey(jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("failed to read session: %w", err)
	}

	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupted session value %q: %w", val, err)
	}
	return userID, nil
}

func (r *redisSessionRepository) Revoke(ctx context.Context, jti string) error {
	n, err := r.client.Del(ctx, sessionKey(jti)).Result()
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
