// Package cache implements the redis-backed summary cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pocketledger/backend/internal/application/usecase/stats"
)

// DefaultSummaryTTL bounds how long a formatted summary may be served without
// recomputation even when no invalidating write arrives.
const DefaultSummaryTTL = 15 * time.Minute

// SummaryCache implements stats.SummaryCache on top of redis. Summaries are
// stored as JSON; a per-user key set tracks every stored summary so a single
// write can invalidate them all.
type SummaryCache struct {
	client *redis.Client
}

// NewSummaryCache creates a new SummaryCache instance.
func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{
		client: client,
	}
}

var _ stats.SummaryCache = (*SummaryCache)(nil)

// Get returns the cached summary for the key, or nil on a miss.
func (c *SummaryCache) Get(ctx context.Context, userID uuid.UUID, key string) (*stats.PresentationSummary, error) {
	payload, err := c.client.Get(ctx, summaryKey(userID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached summary: %w", err)
	}

	var summary stats.PresentationSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		// A corrupt payload is treated as a miss; the next Set overwrites it.
		return nil, nil
	}
	return &summary, nil
}

// Set stores the summary under the key for the given TTL and records the key
// in the user's key set.
func (c *SummaryCache) Set(
	ctx context.Context,
	userID uuid.UUID,
	key string,
	summary *stats.PresentationSummary,
	ttl time.Duration,
) error {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	fullKey := summaryKey(userID, key)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, fullKey, payload, ttl)
	pipe.SAdd(ctx, keySetKey(userID), fullKey)
	pipe.Expire(ctx, keySetKey(userID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}
	return nil
}

// InvalidateUser drops every cached summary belonging to the user.
func (c *SummaryCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	keys, err := c.client.SMembers(ctx, keySetKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to read summary key set: %w", err)
	}

	keys = append(keys, keySetKey(userID))
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summaries: %w", err)
	}
	return nil
}

// summaryKey builds the redis key for one cached summary.
func summaryKey(userID uuid.UUID, key string) string {
	return fmt.Sprintf("summary:%s:%s", userID, key)
}

// keySetKey builds the redis key of the per-user summary key set.
func keySetKey(userID uuid.UUID) string {
	return fmt.Sprintf("summary-keys:%s", userID)
}
