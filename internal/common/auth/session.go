package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore reads the sessions the login service writes to redis as hashes
// under <prefix><token> with "userId" and "role" fields.
type SessionStore struct {
	redis  redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewSessionStore(rdb redis.Cmdable, prefix string, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: rdb, prefix: prefix, ttl: ttl}
}

func (s *SessionStore) key(token string) string {
	return s.prefix + token
}

// CurrentUser returns the actor for token and slides the session expiry forward.
func (s *SessionStore) CurrentUser(ctx context.Context, token string) (*Actor, error) {
	fields, err := s.redis.HGetAll(ctx, s.key(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if len(fields) == 0 || fields["userId"] == "" {
		return nil, ErrNoSession
	}

	role := Role(fields["role"])
	if role != RoleAdmin && role != RoleApplicant {
		return nil, fmt.Errorf("%w: unknown role %q", ErrNoSession, role)
	}

	if s.ttl > 0 {
		if err := s.redis.Expire(ctx, s.key(token), s.ttl).Err(); err != nil {
			return nil, fmt.Errorf("refresh session: %w", err)
		}
	}

	return &Actor{UserID: fields["userId"], Role: role}, nil
}

// Put stores a session; the login service owns this in production.
func (s *SessionStore) Put(ctx context.Context, token string, actor Actor) error {
	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, s.key(token), "userId", actor.UserID, "role", string(actor.Role))
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(token), s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Revoke deletes a session.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	return s.redis.Del(ctx, s.key(token)).Err()
}
