// Package cache wraps the Redis client used for read-through caching of
// catalog queries and as a queue backend.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/bazaar/config"
)

// RDB is the shared Redis client. Nil until Connect succeeds; callers must
// treat cache operations as best-effort.
var RDB *redis.Client

var ErrCacheMiss = errors.New("cache: miss")

// Connect dials Redis using REDIS_ADDR / REDIS_PASSWORD.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}
	RDB = client
	return nil
}

// Enabled reports whether a Redis connection is available.
func Enabled() bool { return RDB != nil }

// Get returns the raw value stored under key, or ErrCacheMiss.
func Get(ctx context.Context, key string) (string, error) {
	if RDB == nil {
		return "", ErrCacheMiss
	}
	val, err := RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

// Set stores a value with a TTL.
func Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	return RDB.Set(ctx, key, value, ttl).Err()
}

// Del removes the given keys.
func Del(ctx context.Context, keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// Forget removes all keys matching pattern. Used to invalidate catalog
// listings after admin writes.
func Forget(ctx context.Context, pattern string) error {
	if RDB == nil {
		return nil
	}
	iter := RDB.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return Del(ctx, keys...)
}

// Close releases the Redis connection.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}
