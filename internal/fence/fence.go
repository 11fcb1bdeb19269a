// Package fence tags listing requests with a monotonic generation per client so that a
// response to a superseded request can be recognised and dropped instead of overwriting
// the results of a newer one.
package fence

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL       = 10 * time.Minute
	defaultKeyPrefix = "autohub:fence:"
	sweepThreshold   = 10_000
)

// Store keeps the latest generation per key.
type Store interface {
	// Next increments and returns the generation for key.
	Next(ctx context.Context, key string) (uint64, error)
	// Current returns the latest generation for key (0 when unknown).
	Current(ctx context.Context, key string) (uint64, error)
}

// Ticket identifies one request generation.
type Ticket struct {
	Key        string
	Generation uint64
}

// Fence hands out tickets and answers whether a ticket is still the newest.
type Fence struct {
	store Store
}

// New returns a fence backed by store. A nil store uses an in-memory store.
func New(store Store) *Fence {
	if store == nil {
		store = NewMemoryStore(defaultTTL)
	}
	return &Fence{store: store}
}

// Begin starts a new generation for key.
func (f *Fence) Begin(ctx context.Context, key string) (Ticket, error) {
	gen, err := f.store.Next(ctx, key)
	if err != nil {
		return Ticket{}, err
	}
	return Ticket{Key: key, Generation: gen}, nil
}

// Stale reports whether a newer generation started after t. Store errors fail open (not
// stale) so a flaky store never hides results.
func (f *Fence) Stale(ctx context.Context, t Ticket) bool {
	if t.Generation == 0 {
		return false
	}
	cur, err := f.store.Current(ctx, t.Key)
	if err != nil {
		return false
	}
	return cur > t.Generation
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]memoryEntry
	now   func() time.Time
}

type memoryEntry struct {
	gen     uint64
	touched time.Time
}

// NewMemoryStore creates a MemoryStore whose idle keys are forgotten after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &MemoryStore{ttl: ttl, items: map[string]memoryEntry{}, now: time.Now}
}

// Next implements Store.
func (s *MemoryStore) Next(_ context.Context, key string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if len(s.items) >= sweepThreshold {
		for k, e := range s.items {
			if now.Sub(e.touched) > s.ttl {
				delete(s.items, k)
			}
		}
	}
	e := s.items[key]
	e.gen++
	e.touched = now
	s.items[key] = e
	return e.gen, nil
}

// Current implements Store.
func (s *MemoryStore) Current(_ context.Context, key string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[key].gen, nil
}

// RedisStore shares generations across replicas using INCR.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. Keys expire ttl after their last increment.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: client, prefix: defaultKeyPrefix, ttl: ttl}
}

// Next implements Store.
func (s *RedisStore) Next(ctx context.Context, key string) (uint64, error) {
	k := s.prefix + key
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return uint64(incr.Val()), nil
}

// Current implements Store.
func (s *RedisStore) Current(ctx context.Context, key string) (uint64, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(raw, 10, 64)
}
