package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint passed to SCAN.
const scanBatch = 100

// RedisKV stores values as plain Redis strings.
// The client is thread-safe and can be shared by several dashboards; keys are
// already namespaced by the dashboard schema.
type RedisKV struct {
	rdb *redis.Client
}

// NewRedisKV creates a Redis-backed store.
//
// Parameters:
//   - redisOpts: Redis connection options (address, password, DB, etc.)
//
// Returns an error if redisOpts is nil. No connection is made until first use;
// call Ping to verify connectivity.
func NewRedisKV(redisOpts *redis.Options) (*RedisKV, error) {
	if redisOpts == nil {
		return nil, fmt.Errorf("redis options cannot be nil")
	}
	return &RedisKV{rdb: redis.NewClient(redisOpts)}, nil
}

// Ping verifies Redis connectivity.
func (r *RedisKV) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Get implements KV.
func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %s from Redis: %w", key, err)
	}
	return v, nil
}

// Set implements KV. Redis rejects writes with an OOM error once maxmemory is
// reached under a noeviction policy; that error is reported as
// ErrQuotaExceeded.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		if isOOM(err) {
			return &quotaError{cause: err}
		}
		return fmt.Errorf("failed to write %s to Redis: %w", key, err)
	}
	return nil
}

// Delete implements KV.
func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from Redis: %w", key, err)
	}
	return nil
}

// Keys implements KV using SCAN so large keyspaces are not blocked.
func (r *RedisKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	pattern := escapeGlob(prefix) + "*"

	var keys []string
	iter := r.rdb.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan Redis keys: %w", err)
	}
	return keys, nil
}

// Close closes the Redis connection. Implements io.Closer.
func (r *RedisKV) Close() error {
	return r.rdb.Close()
}

func isOOM(err error) bool {
	var redisErr redis.Error
	if errors.As(err, &redisErr) {
		return strings.HasPrefix(redisErr.Error(), "OOM")
	}
	return false
}

// escapeGlob escapes the characters SCAN MATCH treats specially.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
