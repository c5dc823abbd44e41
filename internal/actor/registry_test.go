package actor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aevon-lab/pageviews/internal/core/partition"
	"github.com/aevon-lab/pageviews/internal/core/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AcquireIsIdempotent(t *testing.T) {
	r := NewRegistry(memory.NewStore())

	a, releaseA := r.Acquire("a.com/x")
	b, releaseB := r.Acquire("a.com/x")
	defer releaseA()
	defer releaseB()

	require.Same(t, a, b)
	require.Equal(t, "a.com/x", a.Key())
	require.Equal(t, 1, r.Len())

	c, releaseC := r.Acquire("a.com/y")
	defer releaseC()
	require.NotSame(t, a, c)
	require.Equal(t, 2, r.Len())
}

func TestRegistry_ConcurrentFirstAccessSpawnsOnce(t *testing.T) {
	r := NewRegistry(memory.NewStore())

	const n = 64
	actors := make([]*Actor, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			a, release := r.Acquire("a.com/x")
			defer release()
			actors[i] = a
		}(i)
	}
	wg.Wait()

	for _, a := range actors {
		require.Same(t, actors[0], a)
	}
	require.Equal(t, 1, r.Len())
}

func TestRegistry_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(memory.NewStore())

	for i := 0; i < 3; i++ {
		_, err := r.Do(ctx, partition.Key("a.com", "/x"), func(ctx context.Context, a *Actor) (int64, error) {
			return a.Increment(ctx)
		})
		require.NoError(t, err)
	}

	v, err := r.Do(ctx, partition.Key("b.com", "/x"), func(ctx context.Context, a *Actor) (int64, error) {
		return a.Get(ctx)
	})
	require.NoError(t, err)
	require.Zero(t, v)

	v, err = r.Do(ctx, partition.Key("a.com", "/x"), func(ctx context.Context, a *Actor) (int64, error) {
		return a.Get(ctx)
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), v)
}

func TestRegistry_PassivateSkipsPinnedAndRecent(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(memory.NewStore())
	r.nowFn = func() time.Time { return now }

	_, releaseIdle := r.Acquire("a.com/idle")
	releaseIdle()
	_, releasePinned := r.Acquire("a.com/pinned")
	defer releasePinned()

	now = now.Add(10 * time.Minute)
	_, releaseRecent := r.Acquire("a.com/recent")
	releaseRecent()

	require.Equal(t, 1, r.Passivate(5*time.Minute))
	require.Equal(t, 2, r.Len())

	releasePinned()
	releasePinned() // second call is a no-op
	now = now.Add(10 * time.Minute)
	require.Equal(t, 2, r.Passivate(5*time.Minute))
	require.Zero(t, r.Len())
}

func TestRegistry_RecreatedActorRecoversValue(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(memory.NewStore())

	first, release := r.Acquire("a.com/x")
	_, err := first.Increment(ctx)
	require.NoError(t, err)
	release()

	require.Equal(t, 1, r.Passivate(0))

	second, release := r.Acquire("a.com/x")
	defer release()
	require.NotSame(t, first, second)

	v, err := second.Increment(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), v)
}

func TestRegistry_NoLostUpdatesUnderPassivation(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(memory.NewStore())

	stop := make(chan struct{})
	sweeperDone := make(chan struct{})
	go func() {
		defer close(sweeperDone)
		for {
			select {
			case <-stop:
				return
			default:
				r.Passivate(0)
			}
		}
	}()

	const (
		workers   = 50
		perWorker = 4
	)
	keys := []string{"a.com/x", "a.com/y", "b.com/x"}

	var wg sync.WaitGroup
	for _, key := range keys {
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					_, err := r.Do(ctx, key, func(ctx context.Context, a *Actor) (int64, error) {
						return a.Increment(ctx)
					})
					assert.NoError(t, err)
				}
			}(key)
		}
	}
	wg.Wait()
	close(stop)
	<-sweeperDone

	want := int64(workers * perWorker)
	for _, key := range keys {
		v, err := r.Do(ctx, key, func(ctx context.Context, a *Actor) (int64, error) {
			return a.Get(ctx)
		})
		require.NoError(t, err)
		require.Equal(t, want, v, "key %s", key)
	}
}

func TestRegistry_RunStopsOnCancel(t *testing.T) {
	r := NewRegistry(memory.NewStore(), WithIdleTimeout(time.Millisecond))

	_, release := r.Acquire("a.com/x")
	release()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, 5*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRegistry_RunDisabled(t *testing.T) {
	r := NewRegistry(memory.NewStore())
	require.NoError(t, r.Run(context.Background(), time.Second))
}

func TestNewRegistry_NilStorePanics(t *testing.T) {
	require.Panics(t, func() { NewRegistry(nil) })
}
