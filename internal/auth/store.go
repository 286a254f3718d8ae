// AngelaMos | 2026
// store.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/delivery-admin/internal/core"
)

// SessionStore persists session id to identity id bindings. Nothing else
// about the identity is stored.
type SessionStore interface {
	Save(ctx context.Context, sessionID, identityID string, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteAllFor(ctx context.Context, identityID string) error
}

const (
	sessionKeyPrefix = "session:"
	indexKeyPrefix   = "session_index:"
)

type redisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

func indexKey(identityID string) string { return indexKeyPrefix + identityID }

// Save writes the binding and its index entry in one MULTI so a session is
// never visible without being revocable.
func (s *redisSessionStore) Save(
	ctx context.Context,
	sessionID, identityID string,
	ttl time.Duration,
) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(sessionID), identityID, ttl)
		pipe.SAdd(ctx, indexKey(identityID), sessionID)
		pipe.Expire(ctx, indexKey(identityID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Lookup(ctx context.Context, sessionID string) (string, error) {
	identityID, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("lookup session: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", err)
	}
	return identityID, nil
}

// Delete is idempotent.
func (s *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	identityID, err := s.client.GetDel(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if err := s.client.SRem(ctx, indexKey(identityID), sessionID).Err(); err != nil {
		return fmt.Errorf("delete session index entry: %w", err)
	}
	return nil
}

func (s *redisSessionStore) DeleteAllFor(ctx context.Context, identityID string) error {
	ids, err := s.client.SMembers(ctx, indexKey(identityID)).Result()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, indexKey(identityID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}
