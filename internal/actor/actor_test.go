package actor

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/aevon-lab/pageviews/internal/core/storage/memory"
	storagemocks "github.com/aevon-lab/pageviews/internal/mocks/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActor_GetBeforeIncrementReturnsZero(t *testing.T) {
	a := newActor("a.com/x", memory.NewStore(), nil, time.Now())

	v, err := a.Get(context.Background())
	require.NoError(t, err)
	require.Zero(t, v)
}

func TestActor_IncrementPersists(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a := newActor("a.com/x", store, nil, time.Now())

	for want := int64(1); want <= 3; want++ {
		v, err := a.Increment(ctx)
		require.NoError(t, err)
		require.Equal(t, want, v)
	}

	stored, found, err := store.Load(ctx, "a.com/x")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(3), stored)

	// A fresh actor on the same store sees the persisted value.
	b := newActor("a.com/x", store, nil, time.Now())
	v, err := b.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), v)
}

func TestActor_ReadsStoreOnEveryCall(t *testing.T) {
	ctx := context.Background()
	store := storagemocks.NewCounterStore(t)
	a := newActor("a.com/x", store, nil, time.Now())

	store.EXPECT().Load(mock.Anything, "a.com/x").Return(int64(4), true, nil).Once()
	store.EXPECT().Load(mock.Anything, "a.com/x").Return(int64(9), true, nil).Once()

	v, err := a.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), v)

	// The value changed out-of-band; no cached 4 may be served.
	v, err = a.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(9), v)
}

func TestActor_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("GET reads POST increments", func(t *testing.T) {
		a := newActor("a.com/x", memory.NewStore(), nil, time.Now())

		v, err := a.Handle(ctx, http.MethodPost)
		require.NoError(t, err)
		require.Equal(t, int64(1), v)

		v, err = a.Handle(ctx, http.MethodGet)
		require.NoError(t, err)
		require.Equal(t, int64(1), v)
	})

	t.Run("other verbs touch nothing", func(t *testing.T) {
		// The mock fails the test on any unexpected store call.
		store := storagemocks.NewCounterStore(t)
		a := newActor("a.com/x", store, nil, time.Now())

		for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodHead} {
			_, err := a.Handle(ctx, method)
			require.ErrorIs(t, err, ErrMethodNotSupported)
		}
	})
}

func TestActor_LoadFailure(t *testing.T) {
	store := storagemocks.NewCounterStore(t)
	a := newActor("a.com/x", store, nil, time.Now())

	store.EXPECT().Load(mock.Anything, "a.com/x").Return(int64(0), false, errors.New("timeout")).Twice()

	_, err := a.Get(context.Background())
	require.ErrorContains(t, err, "failed to load counter")

	// No write may follow a failed read.
	_, err = a.Increment(context.Background())
	require.ErrorContains(t, err, "timeout")
}

func TestActor_StoreFailureIsNotTrusted(t *testing.T) {
	ctx := context.Background()
	store := storagemocks.NewCounterStore(t)
	a := newActor("a.com/x", store, nil, time.Now())

	store.EXPECT().Load(mock.Anything, "a.com/x").Return(int64(5), true, nil).Twice()
	store.EXPECT().Store(mock.Anything, "a.com/x", int64(6)).Return(errors.New("write failed")).Once()

	_, err := a.Increment(ctx)
	require.ErrorContains(t, err, "failed to persist counter")

	v, err := a.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(5), v)
}

func TestActor_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a := newActor("a.com/x", store, nil, time.Now())

	const n = 500
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := a.Increment(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, err := a.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(n), v)
}

func TestActor_WaitHonoursContext(t *testing.T) {
	store := &blockingStore{entered: make(chan struct{}), unblock: make(chan struct{})}
	a := newActor("a.com/x", store, nil, time.Now())

	done := make(chan error, 1)
	go func() {
		_, err := a.Get(context.Background())
		done <- err
	}()
	<-store.entered

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := a.Increment(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(store.unblock)
	require.NoError(t, <-done)
}

// blockingStore parks the first Load until unblock is closed.
type blockingStore struct {
	once    sync.Once
	entered chan struct{}
	unblock chan struct{}
}

func (s *blockingStore) Load(ctx context.Context, key string) (int64, bool, error) {
	s.once.Do(func() { close(s.entered) })
	<-s.unblock
	return 0, false, nil
}

func (s *blockingStore) Store(ctx context.Context, key string, value int64) error {
	return nil
}

func (s *blockingStore) Ping(ctx context.Context) error {
	return nil
}
