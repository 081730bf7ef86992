package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rrens/property-assistant/internal/domain"
)

const sessionPrefix = "session:"

// SessionStore keeps session snapshots in Redis with a sliding TTL
type SessionStore struct {
	client *Client
	ttl    time.Duration
}

// NewSessionStore creates a new session store
func NewSessionStore(client *Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Load retrieves the snapshot of a session
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	data, err := s.client.rdb.Get(ctx, sessionPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var snap domain.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &snap, nil
}

// Save stores a snapshot and refreshes its expiry
func (s *SessionStore) Save(ctx context.Context, snap *domain.SessionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.rdb.Set(ctx, sessionPrefix+snap.SessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session snapshot
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.rdb.Del(ctx, sessionPrefix+sessionID).Err()
}

// Count returns the number of stored sessions
func (s *SessionStore) Count(ctx context.Context) (int64, error) {
	var cursor uint64
	var total int64

	for {
		keys, next, err := s.client.rdb.Scan(ctx, cursor, sessionPrefix+"*", 100).Result()
		if err != nil {
			return total, fmt.Errorf("failed to scan keys: %w", err)
		}
		total += int64(len(keys))

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return total, nil
}
