// Package cache provides a small typed read-through cache over a memory or Redis store.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"autohub.ng/autohub-web/internal/metrics"
	"autohub.ng/autohub-web/internal/observability"
)

// Loader produces a fresh value on a miss.
type Loader[T any] func(ctx context.Context) (T, error)

// Cache is a read-through cache for values of type T. Concurrent misses for the same key
// share one load.
type Cache[T any] struct {
	name  string
	store Store
	ttl   time.Duration
	group singleflight.Group
}

// New creates a cache. A nil store uses process memory.
func New[T any](name string, store Store, ttl time.Duration) *Cache[T] {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Cache[T]{name: name, store: store, ttl: ttl}
}

// Get returns the cached value for key, loading and storing it on a miss. Store failures
// are logged and treated as misses; load errors are returned and nothing is stored.
func (c *Cache[T]) Get(ctx context.Context, key string, load Loader[T]) (T, error) {
	logger := observability.FromContext(ctx)
	full := c.name + ":" + key

	if raw, ok, err := c.store.Get(ctx, full); err != nil {
		metrics.CacheLookups.WithLabelValues(c.name, "error").Inc()
		logger.Warn("cache read failed", zap.String("cache", c.name), zap.Error(err))
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			metrics.CacheLookups.WithLabelValues(c.name, "hit").Inc()
			return v, nil
		}
	}
	metrics.CacheLookups.WithLabelValues(c.name, "miss").Inc()

	res, err, _ := c.group.Do(full, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		if raw, err := json.Marshal(v); err == nil {
			if err := c.store.Set(ctx, full, raw, c.ttl); err != nil {
				logger.Warn("cache write failed", zap.String("cache", c.name), zap.Error(err))
			}
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// Invalidate drops key.
func (c *Cache[T]) Invalidate(ctx context.Context, key string) error {
	return c.store.Delete(ctx, c.name+":"+key)
}
