package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9"   // Redis client
	"github.com/sirupsen/logrus"     // Logging for best-effort cache failures
	"golang.org/x/sync/singleflight" // Collapses concurrent cache misses
)

// Cache is a JSON read-through cache. Failures never fail a request; they only cost a database read.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// RedisCache stores values in Redis
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal(val, dest) // Unmarshal JSON into dest
}

// Set sets a value in Redis with a specified TTL
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// Delete deletes keys from Redis
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// DeletePrefix removes every key starting with prefix
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator() // Incremental scan, no KEYS
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := c.Delete(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Delete(ctx, batch...)
}

// NoopCache never stores anything; used when Redis is not configured and in tests
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, any) (bool, error)         { return false, nil }
func (NoopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (NoopCache) Delete(context.Context, ...string) error               { return nil }
func (NoopCache) DeletePrefix(context.Context, string) error            { return nil }

// Loader reads through a Cache, collapsing concurrent misses on the same key into one load
type Loader struct {
	cache Cache
	ttl   time.Duration
	group singleflight.Group
}

func NewLoader(cache Cache, ttl time.Duration) *Loader {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Loader{cache: cache, ttl: ttl}
}

// Load fills dest from the cache or from load. dest must be a pointer to the type load returns.
func (l *Loader) Load(ctx context.Context, key string, dest any, load func() (any, error)) error {
	found, err := l.cache.Get(ctx, key, dest)
	if err == nil && found {
		return nil
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache read failed")
	}
	v, err, _ := l.group.Do(key, func() (any, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}
		if err := l.cache.Set(ctx, key, v, l.ttl); err != nil {
			logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache write failed")
		}
		return v, nil
	})
	if err != nil {
		return err
	}
	b, err := json.Marshal(v) // Copy through JSON so callers never share the loaded value
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}

// Invalidate drops exact keys and key prefixes, logging failures
func (l *Loader) Invalidate(ctx context.Context, keys []string, prefixes ...string) {
	if err := l.cache.Delete(ctx, keys...); err != nil {
		logrus.WithFields(logrus.Fields{"keys": keys, "error": err.Error()}).Warn("Cache invalidation failed")
	}
	for _, p := range prefixes {
		if err := l.cache.DeletePrefix(ctx, p); err != nil {
			logrus.WithFields(logrus.Fields{"prefix": p, "error": err.Error()}).Warn("Cache invalidation failed")
		}
	}
}
