// Package cache keeps sticky variant assignments in Redis in front of the assignment table.
// The database stays the source of truth; a cache miss or error falls through to it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"experimentation-control-plane/internal/experiment/domain"
)

// DefaultTTL is how long a cached assignment lives.
const DefaultTTL = 30 * 24 * time.Hour

// AssignmentCache stores assignments by (experiment, user).
type AssignmentCache interface {
	// Get returns the cached assignment, or nil on a miss.
	Get(ctx context.Context, experimentID, userID string) (*domain.Assignment, error)
	Set(ctx context.Context, a *domain.Assignment) error
	// Evict drops one cached assignment.
	Evict(ctx context.Context, experimentID, userID string) error
	// Purge drops every cached assignment of the experiment.
	Purge(ctx context.Context, experimentID string) error
}

// RedisCache implements AssignmentCache with one JSON value per key.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache returns a cache over client. ttl <= 0 uses DefaultTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func assignmentKey(experimentID, userID string) string {
	return fmt.Sprintf("ab:assignment:%s:%s", experimentID, userID)
}

type cachedAssignment struct {
	Variant    string    `json:"variant"`
	AssignedAt time.Time `json:"assigned_at"`
}

func (c *RedisCache) Get(ctx context.Context, experimentID, userID string) (*domain.Assignment, error) {
	data, err := c.client.Get(ctx, assignmentKey(experimentID, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var v cachedAssignment
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &domain.Assignment{ExperimentID: experimentID, UserID: userID, Variant: v.Variant, AssignedAt: v.AssignedAt}, nil
}

func (c *RedisCache) Set(ctx context.Context, a *domain.Assignment) error {
	data, err := json.Marshal(cachedAssignment{Variant: a.Variant, AssignedAt: a.AssignedAt})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, assignmentKey(a.ExperimentID, a.UserID), data, c.ttl).Err()
}

func (c *RedisCache) Evict(ctx context.Context, experimentID, userID string) error {
	return c.client.Unlink(ctx, assignmentKey(experimentID, userID)).Err()
}

// Purge deletes keys in SCAN batches so a large experiment does not block Redis.
func (c *RedisCache) Purge(ctx context.Context, experimentID string) error {
	iter := c.client.Scan(ctx, 0, assignmentKey(experimentID, "*"), 500).Iterator()
	batch := make([]string, 0, 500)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := c.client.Unlink(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.client.Unlink(ctx, batch...).Err()
	}
	return nil
}

// Noop is an AssignmentCache that never hits. Used when REDIS_URL is unset.
type Noop struct{}

func (Noop) Get(context.Context, string, string) (*domain.Assignment, error) { return nil, nil }
func (Noop) Set(context.Context, *domain.Assignment) error                   { return nil }
func (Noop) Evict(context.Context, string, string) error                     { return nil }
func (Noop) Purge(context.Context, string) error                             { return nil }
