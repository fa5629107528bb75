package application

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/autumn-cli/internal/ports"
	"golang.org/x/sync/singleflight"
)

const DefaultStaleAfter = 30 * time.Second

type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

// QueryCache holds the last value of each remote read, keyed by semantic
// key. Concurrent fetches of one key share a single remote call.
//
// Every Invalidate bumps the key's generation. A fetch only stores its
// result when the generation is unchanged, and fetches of different
// generations never share a call, so an invalidation always happens-before
// the next read of that key.
type QueryCache struct {
	mu          sync.Mutex
	entries     map[string]cacheEntry
	generations map[string]uint64
	epoch       uint64
	group       singleflight.Group
	clock       ports.Clock
	staleAfter  time.Duration
}

func NewQueryCache(clock ports.Clock, staleAfter time.Duration) *QueryCache {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if staleAfter < 0 {
		staleAfter = 0
	}

	return &QueryCache{
		entries:     map[string]cacheEntry{},
		generations: map[string]uint64{},
		clock:       clock,
		staleAfter:  staleAfter,
	}
}

// Peek returns the cached value, fresh or stale, without any I/O.
func (c *QueryCache) Peek(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	return entry.value, ok
}

// Fresh reports whether key holds a value younger than the stale window.
func (c *QueryCache) Fresh(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.freshLocked(key)
	return ok
}

// Fetch returns the cached value while it is fresh, otherwise it loads it
// with fn.
func (c *QueryCache) Fetch(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if entry, ok := c.freshLocked(key); ok {
		c.mu.Unlock()
		return entry.value, nil
	}
	c.mu.Unlock()

	return c.Refresh(ctx, key, fn)
}

// Refresh loads key with fn regardless of freshness, joining a load of the
// same generation that is already in flight.
func (c *QueryCache) Refresh(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	generation := c.generations[key]
	epoch := c.epoch
	c.mu.Unlock()

	flight := key + "#" + strconv.FormatUint(epoch, 10) + "." + strconv.FormatUint(generation, 10)
	value, err, _ := c.group.Do(flight, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.epoch == epoch && c.generations[key] == generation {
			c.entries[key] = cacheEntry{value: value, fetchedAt: c.clock.Now()}
		}
		c.mu.Unlock()

		return value, nil
	})

	return value, err
}

// Invalidate drops keys and fences off fetches that are already running.
func (c *QueryCache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
		c.generations[key]++
	}
}

// Reset invalidates every key, including keys with a first fetch still in
// flight.
func (c *QueryCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.entries = map[string]cacheEntry{}
}

func (c *QueryCache) freshLocked(key string) (cacheEntry, bool) {
	entry, ok := c.entries[key]
	if !ok {
		return cacheEntry{}, false
	}
	if c.clock.Now().Sub(entry.fetchedAt) >= c.staleAfter {
		return cacheEntry{}, false
	}

	return entry, true
}

// Peek is the typed form of QueryCache.Peek.
func Peek[T any](c *QueryCache, key string) (T, bool) {
	var zero T

	value, ok := c.Peek(key)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false
	}

	return typed, true
}

func fetchAs[T any](ctx context.Context, c *QueryCache, key string, force bool, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	load := func(ctx context.Context) (any, error) {
		return fn(ctx)
	}

	var (
		value any
		err   error
	)
	if force {
		value, err = c.Refresh(ctx, key, load)
	} else {
		value, err = c.Fetch(ctx, key, load)
	}
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache key %q holds %T", key, value)
	}

	return typed, nil
}
