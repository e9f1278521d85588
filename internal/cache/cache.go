// Package cache provides the redis-backed cache for reference-data lists.
// Keys embed a per-type version counter so invalidation is a version bump
// plus a best-effort sweep of stale keys; readers never see a half-evicted
// state because the bump redirects them to fresh keys immediately.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/practicehub/catalog-api/internal/models"
)

// ErrMiss is returned by Get when no cached value exists for the key.
var ErrMiss = errors.New("cache: miss")

// ReferenceCache caches serialized reference-data lists.
type ReferenceCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func New(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ReferenceCache {
	return &ReferenceCache{rdb: rdb, ttl: ttl, logger: logger}
}

func versionKey(kind models.ReferenceKind) string {
	return fmt.Sprintf("ref:%s:version", kind)
}

// Key builds a versioned cache key for the given reference kind. A missing
// version counter reads as version 0.
func (c *ReferenceCache) Key(ctx context.Context, kind models.ReferenceKind, suffix string) (string, error) {
	version, err := c.rdb.Get(ctx, versionKey(kind)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("ref:%s:v%d:%s", kind, version, suffix), nil
}

// Get returns the raw cached payload, or ErrMiss.
func (c *ReferenceCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set stores a payload under the key with the configured timeout.
func (c *ReferenceCache) Set(ctx context.Context, key string, data []byte) error {
	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate bumps the version counter for a reference kind and sweeps the
// now-stale keys. Failures are logged and swallowed: cache incoherence for
// reference data is tolerated, entries expire on timeout regardless, and
// the triggering write must never fail on account of the cache.
func (c *ReferenceCache) Invalidate(ctx context.Context, kind models.ReferenceKind) {
	if err := c.rdb.Incr(ctx, versionKey(kind)).Err(); err != nil {
		c.logger.Warn("cache invalidation: version bump failed",
			zap.String("kind", string(kind)), zap.Error(err))
		return
	}

	// The trailing ":*" keeps the version counter key out of the sweep.
	pattern := fmt.Sprintf("ref:%s:v*:*", kind)
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	var stale []string
	for iter.Next(ctx) {
		stale = append(stale, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("cache invalidation: key scan failed",
			zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	if len(stale) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, stale...).Err(); err != nil {
		c.logger.Warn("cache invalidation: key delete failed",
			zap.String("kind", string(kind)), zap.Error(err))
	}
}
