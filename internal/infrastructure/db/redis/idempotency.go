package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// A reservation whose owner died expires after this long.
	pendingTTL   = 30 * time.Second
	pendingValue = "pending"
)

// IdempotencyStore maps a client-supplied Idempotency-Key to the post it
// produced. Key format: idem:post:<user_id>:<key>. The value is "pending"
// while the creating request runs, then the post id.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key with SETNX. When the key is already held it reports the
// stored post id, or 0 while the holder has not completed.
func (s *IdempotencyStore) Reserve(ctx context.Context, userID int64, key string) (int64, bool, error) {
	k := s.key(userID, key)

	won, err := s.client.SetNX(ctx, k, pendingValue, pendingTTL).Result()
	if err != nil {
		return 0, false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if won {
		return 0, true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// released or expired between SETNX and GET; the caller retries
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("idempotency reserve: %w", err)
	case val == pendingValue:
		return 0, false, nil
	}

	postID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency reserve: corrupt value %q: %w", val, err)
	}
	return postID, false, nil
}

// Complete records postID under a held reservation for the full TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, userID int64, key string, postID int64) error {
	if err := s.client.Set(ctx, s.key(userID, key), postID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a reservation whose creation failed so a retry can claim it.
func (s *IdempotencyStore) Release(ctx context.Context, userID int64, key string) error {
	if err := s.client.Del(ctx, s.key(userID, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(userID int64, key string) string {
	return fmt.Sprintf("idem:post:%d:%s", userID, key)
}
