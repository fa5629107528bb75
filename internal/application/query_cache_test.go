package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterFetch(calls *atomic.Int32, value string) func(context.Context) (any, error) {
	return func(context.Context) (any, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestQueryCacheServesFreshValueWithoutRefetch(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cache := NewQueryCache(clock, 30*time.Second)
	var calls atomic.Int32

	first, err := cache.Fetch(context.Background(), "k", counterFetch(&calls, "v1"))
	require.NoError(t, err)
	clock.Advance(10 * time.Second)
	second, err := cache.Fetch(context.Background(), "k", counterFetch(&calls, "v2"))
	require.NoError(t, err)

	assert.Equal(t, "v1", first)
	assert.Equal(t, "v1", second)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, cache.Fresh("k"))
}

func TestQueryCacheRefetchesAfterStaleWindow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cache := NewQueryCache(clock, 30*time.Second)
	var calls atomic.Int32

	_, err := cache.Fetch(context.Background(), "k", counterFetch(&calls, "v1"))
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	assert.False(t, cache.Fresh("k"))

	stale, ok := cache.Peek("k")
	require.True(t, ok)
	assert.Equal(t, "v1", stale)

	value, err := cache.Fetch(context.Background(), "k", counterFetch(&calls, "v2"))
	require.NoError(t, err)
	assert.Equal(t, "v2", value)
	assert.Equal(t, int32(2), calls.Load())
}

func TestQueryCacheRefreshIgnoresFreshness(t *testing.T) {
	t.Parallel()

	cache := NewQueryCache(newFakeClock(), time.Hour)
	var calls atomic.Int32

	_, err := cache.Fetch(context.Background(), "k", counterFetch(&calls, "v1"))
	require.NoError(t, err)
	value, err := cache.Refresh(context.Background(), "k", counterFetch(&calls, "v2"))
	require.NoError(t, err)

	assert.Equal(t, "v2", value)
	assert.Equal(t, int32(2), calls.Load())
}

func TestQueryCacheCoalescesConcurrentFetches(t *testing.T) {
	t.Parallel()

	cache := NewQueryCache(newFakeClock(), time.Minute)
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	fetch := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return "shared", nil
	}

	const readers = 16
	var wg sync.WaitGroup
	results := make([]any, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, err := cache.Fetch(context.Background(), "k", fetch)
			assert.NoError(t, err)
			results[i] = value
		}(i)
	}

	<-started
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, value := range results {
		assert.Equal(t, "shared", value)
	}
}

func TestQueryCacheInvalidationBeatsInFlightFetch(t *testing.T) {
	t.Parallel()

	cache := NewQueryCache(newFakeClock(), time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan any)
	go func() {
		value, _ := cache.Fetch(context.Background(), "k", func(context.Context) (any, error) {
			close(started)
			<-release
			return "before-invalidate", nil
		})
		done <- value
	}()

	<-started
	cache.Invalidate("k")
	close(release)
	assert.Equal(t, "before-invalidate", <-done)

	_, ok := cache.Peek("k")
	assert.False(t, ok, "in-flight result from before the invalidation must not be stored")

	value, err := cache.Fetch(context.Background(), "k", func(context.Context) (any, error) {
		return "after-invalidate", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after-invalidate", value)
}

func TestQueryCacheReadAfterInvalidateDoesNotJoinOldFlight(t *testing.T) {
	t.Parallel()

	cache := NewQueryCache(newFakeClock(), time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	go func() {
		_, _ = cache.Fetch(context.Background(), "k", func(context.Context) (any, error) {
			close(started)
			<-release
			return "old", nil
		})
	}()

	<-started
	cache.Invalidate("k")

	value, err := cache.Fetch(context.Background(), "k", func(context.Context) (any, error) {
		return "new", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", value)
}

func TestQueryCacheResetFencesFirstFetch(t *testing.T) {
	t.Parallel()

	cache := NewQueryCache(newFakeClock(), time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = cache.Fetch(context.Background(), "k", func(context.Context) (any, error) {
			close(started)
			<-release
			return "from-old-session", nil
		})
	}()

	<-started
	cache.Reset()
	close(release)
	<-done

	_, ok := cache.Peek("k")
	assert.False(t, ok)
}

func TestQueryCacheDoesNotStoreErrors(t *testing.T) {
	t.Parallel()

	cache := NewQueryCache(newFakeClock(), time.Minute)
	fetchErr := errors.New("remote down")

	_, err := cache.Fetch(context.Background(), "k", func(context.Context) (any, error) {
		return nil, fetchErr
	})
	require.ErrorIs(t, err, fetchErr)

	_, ok := cache.Peek("k")
	assert.False(t, ok)
}

func TestPeekTypedRejectsMismatchedType(t *testing.T) {
	t.Parallel()

	cache := NewQueryCache(newFakeClock(), time.Minute)
	_, err := cache.Fetch(context.Background(), "k", func(context.Context) (any, error) {
		return 42, nil
	})
	require.NoError(t, err)

	number, ok := Peek[int](cache, "k")
	assert.True(t, ok)
	assert.Equal(t, 42, number)

	_, ok = Peek[string](cache, "k")
	assert.False(t, ok)

	_, err = fetchAs(context.Background(), cache, "k", false, func(context.Context) (string, error) {
		return "unused", nil
	})
	require.Error(t, err)
}
