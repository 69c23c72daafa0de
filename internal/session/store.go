package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	boterrors "hr-intake-bot/internal/common/errors"
)

// Store keeps one scratchpad per active conversation in Redis, keyed by
// actor id. The TTL is the session expiry policy: an abandoned conversation
// simply ages out.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a scratchpad store with the given expiry.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func sessionKey(actorID int64) string {
	return fmt.Sprintf("session:%d", actorID)
}

// Get loads the actor's scratchpad. Returns ErrSessionNotFound when no
// conversation is in progress.
func (s *Store) Get(ctx context.Context, actorID int64) (*Scratchpad, error) {
	raw, err := s.client.Get(ctx, sessionKey(actorID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, boterrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	var pad Scratchpad
	if err := json.Unmarshal([]byte(raw), &pad); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &pad, nil
}

// Put stores the scratchpad and refreshes its expiry.
func (s *Store) Put(ctx context.Context, pad *Scratchpad) error {
	raw, err := json.Marshal(pad)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(pad.ActorID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

// Delete removes the actor's scratchpad. Deleting a missing session is not
// an error.
func (s *Store) Delete(ctx context.Context, actorID int64) error {
	if err := s.client.Del(ctx, sessionKey(actorID)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
