package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// ── Session store ─────────────────────────────────────────────────────────────
// Sessions are revocable server-side: each issued token carries a jti, and a
// matching `sesion:{jti}` key must exist for the token to be accepted. Logout
// and the FIN JORNADA side effect delete the key, forcing re-authentication.

const sessionPrefix = "sesion:"

type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Create registers a live session for jti, expiring with the token.
func (s *SessionStore) Create(ctx context.Context, jti, usuarioID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionPrefix+jti, usuarioID, ttl).Err()
}

// Alive reports whether the session behind jti has not been revoked.
func (s *SessionStore) Alive(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, sessionPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Revoke terminates the session behind jti. Revoking an already-revoked
// session is a no-op.
func (s *SessionStore) Revoke(ctx context.Context, jti string) error {
	return s.rdb.Del(ctx, sessionPrefix+jti).Err()
}
