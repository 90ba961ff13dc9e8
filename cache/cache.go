// Package cache memoizes scrape responses in Redis so repeated requests
// for the same ticker do not re-fetch the source pages. Without a Redis
// address it degrades to calling through.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Cache wraps a Redis client. The nil and zero values are valid and mean
// caching is off.
type Cache struct {
	client *redis.Client
}

// New connects to the Redis instance at addr ("host:port"). An empty addr
// returns a disabled cache.
func New(addr string) *Cache {
	if addr == "" {
		return &Cache{}
	}
	return &Cache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Enabled reports whether results are actually stored.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// Memoize returns the value cached under key when present; otherwise it
// computes the value, stores it for ttl and returns it. Cache trouble is
// never fatal: a miss, a dead Redis and a corrupt entry all fall back to
// computing, and a failed store still returns the computed value.
func Memoize[T any](c *Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	if !c.Enabled() {
		return compute()
	}

	ctx := context.Background()
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			logrus.WithField("key", key).Debug("cache hit")
			return cached, nil
		}
	}

	value, err := compute()
	if err != nil {
		return value, err
	}

	if data, err := json.Marshal(value); err == nil {
		c.client.Set(ctx, key, data, ttl)
	}
	return value, nil
}
