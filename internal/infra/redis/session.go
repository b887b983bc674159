package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/be9expensphie/expensphie/pkg/logger"
)

const (
	// DefaultTTL keeps a saved selection for 30 days of inactivity
	DefaultTTL = 30 * 24 * time.Hour

	// KeyPrefix is the prefix for session keys
	KeyPrefix = "session:"
)

// SessionStore keeps each user's saved active-household selection in Redis.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewSessionStore creates a new Redis session store
func NewSessionStore(client *redis.Client, log *logger.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    DefaultTTL,
		logger: log.WithField("component", "session_store"),
	}
}

// NewSessionStoreWithTTL creates a new Redis session store with custom TTL
func NewSessionStoreWithTTL(client *redis.Client, ttl time.Duration, log *logger.Logger) *SessionStore {
	s := NewSessionStore(client, log)
	s.ttl = ttl
	return s
}

// ActiveHouseholdID returns the saved household id for the user. The
// boolean is false when no selection has been saved.
func (s *SessionStore) ActiveHouseholdID(ctx context.Context, userID int64) (int64, bool, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		s.logger.WithContext(ctx).Error("session read failed", "error", err)
		return 0, false, fmt.Errorf("failed to read active household: %w", err)
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// A corrupt value behaves like no selection at all.
		s.logger.WithContext(ctx).Warn("discarding corrupt session value", "value", val)
		return 0, false, nil
	}
	return id, true, nil
}

// SetActiveHouseholdID saves the user's active household selection
func (s *SessionStore) SetActiveHouseholdID(ctx context.Context, userID, householdID int64) error {
	err := s.client.Set(ctx, s.key(userID), strconv.FormatInt(householdID, 10), s.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to save active household: %w", err)
	}
	return nil
}

// ClearActiveHouseholdID discards the saved selection
func (s *SessionStore) ClearActiveHouseholdID(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear active household: %w", err)
	}
	return nil
}

func (s *SessionStore) key(userID int64) string {
	return fmt.Sprintf("%s%d:active_household", KeyPrefix, userID)
}
