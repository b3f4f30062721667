package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CountCache keeps item totals between requests.
type CountCache interface {
	// Get returns the cached total for key. ok is false on a miss.
	Get(ctx context.Context, key string) (n int, ok bool, err error)
	Set(ctx context.Context, key string, n int, ttl time.Duration) error
}

// Cached is a Counter whose Count is served from a CountCache for ttl.
// Items always reach the wrapped Counter. Cache failures are logged and
// fall through to the wrapped Counter.
type Cached struct {
	Counter
	cache CountCache
	key   string
	ttl   time.Duration
}

// NewCached wraps counter so that its total is cached under key.
func NewCached(counter Counter, cache CountCache, key string, ttl time.Duration) *Cached {
	return &Cached{Counter: counter, cache: cache, key: key, ttl: ttl}
}

// Count returns the cached total, counting and storing it on a miss.
func (c *Cached) Count(ctx context.Context) (int, error) {
	n, ok, err := c.cache.Get(ctx, c.key)
	if err != nil {
		log.Printf("count cache get %s: %v", c.key, err)
	}
	if ok {
		return n, nil
	}

	n, err = c.Counter.Count(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.cache.Set(ctx, c.key, n, c.ttl); err != nil {
		log.Printf("count cache set %s: %v", c.key, err)
	}
	return n, nil
}

// CountKey returns the cache key of a table's total.
func CountKey(table string) string {
	return "pager:count:" + table
}

// RedisCache is a CountCache backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// OpenRedis connects to the Redis server at rawURL
// (redis://[:password@]host:port/db) and checks that it answers.
func OpenRedis(ctx context.Context, rawURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewRedisCache(client), nil
}

// NewRedisCache returns a RedisCache using client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get implements CountCache.
func (r *RedisCache) Get(ctx context.Context, key string) (int, bool, error) {
	n, err := r.client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// Set implements CountCache.
func (r *RedisCache) Set(ctx context.Context, key string, n int, ttl time.Duration) error {
	return r.client.Set(ctx, key, n, ttl).Err()
}

// Delete drops the cached total for key.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Close closes the Redis connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
