// Package cache provides an optional Redis-backed JSON cache.
//
// A nil *Cache (or one constructed without an address) is valid and treats
// every lookup as a miss, so callers never branch on whether caching is
// configured.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with JSON marshaling helpers.
type Cache struct {
	rdb *redis.Client
}

// New connects to Redis at addr. An empty addr returns a disabled cache.
// A failed ping also returns a disabled cache rather than an error: caching
// is an optimization, not a dependency.
func New(ctx context.Context, addr, password string, db int) *Cache {
	if addr == "" {
		return &Cache{}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis unreachable, caching disabled", "addr", addr, "error", err)
		return &Cache{}
	}
	return &Cache{rdb: rdb}
}

// Enabled reports whether a Redis connection is backing this cache.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get retrieves a value and unmarshals it into dest.
// Returns false on miss or when caching is disabled.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if !c.Enabled() {
		return false
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("Cache get failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		slog.Warn("Cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

// Set stores a value with the given TTL. Failures are logged, not returned.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		slog.Warn("Cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		slog.Warn("Cache set failed", "key", key, "error", err)
	}
}

// Delete removes keys, used to invalidate cached reads after writes.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("Cache delete failed", "keys", keys, "error", err)
	}
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}
