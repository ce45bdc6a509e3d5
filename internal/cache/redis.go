package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Aidin1998/calendars/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key the service writes.
const DefaultKeyPrefix = "calendars:"

// RedisStore implements Store on Redis with JSON values.
type RedisStore struct {
	client     redis.UniversalClient
	defaultTTL time.Duration
	keyPrefix  string

	// Statistics
	hits    int64
	misses  int64
	sets    int64
	deletes int64
	errors  int64
}

var _ Store = (*RedisStore)(nil)

// Stats is a snapshot of RedisStore counters.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Sets    int64 `json:"sets"`
	Deletes int64 `json:"deletes"`
	Errors  int64 `json:"errors"`
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client redis.UniversalClient, defaultTTL time.Duration) *RedisStore {
	return &RedisStore{
		client:     client,
		defaultTTL: defaultTTL,
		keyPrefix:  DefaultKeyPrefix,
	}
}

// Get retrieves a value from Redis
func (c *RedisStore) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			atomic.AddInt64(&c.misses, 1)
			metrics.CacheRequests.WithLabelValues("miss").Inc()
			return false, nil
		}
		c.fail()
		return false, fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.fail()
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	atomic.AddInt64(&c.hits, 1)
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return true, nil
}

// Set stores a value in Redis
func (c *RedisStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.fail()
		return fmt.Errorf("failed to marshal value for cache: %w", err)
	}

	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		c.fail()
		return fmt.Errorf("failed to set cache value: %w", err)
	}

	atomic.AddInt64(&c.sets, 1)
	return nil
}

// Delete removes keys from Redis. Missing keys are not an error.
func (c *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	redisKeys := make([]string, len(keys))
	for i, key := range keys {
		redisKeys[i] = c.keyPrefix + key
	}

	if err := c.client.Del(ctx, redisKeys...).Err(); err != nil {
		c.fail()
		return fmt.Errorf("failed to delete from cache: %w", err)
	}

	atomic.AddInt64(&c.deletes, int64(len(keys)))
	return nil
}

// Ping checks the Redis connection
func (c *RedisStore) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Stats returns cache statistics
func (c *RedisStore) Stats() Stats {
	return Stats{
		Hits:    atomic.LoadInt64(&c.hits),
		Misses:  atomic.LoadInt64(&c.misses),
		Sets:    atomic.LoadInt64(&c.sets),
		Deletes: atomic.LoadInt64(&c.deletes),
		Errors:  atomic.LoadInt64(&c.errors),
	}
}

func (c *RedisStore) fail() {
	atomic.AddInt64(&c.errors, 1)
	metrics.CacheRequests.WithLabelValues("error").Inc()
}
