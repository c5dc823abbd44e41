package actor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aevon-lab/pageviews/internal/core/storage"
	"github.com/aevon-lab/pageviews/internal/metric"
	"go.uber.org/atomic"
)

// ErrMethodNotSupported is returned for verbs other than GET and POST.
var ErrMethodNotSupported = errors.New("method not supported")

// Actor owns the counter of one partition key and serializes every operation
// on it. It never caches the value: each operation starts with a durable read.
type Actor struct {
	key     string
	store   storage.CounterStore
	metrics *metric.Metrics

	// slot is a one-token semaphore. Holding it means owning the counter.
	slot chan struct{}

	// refs and lastUse are maintained by the Registry for passivation.
	refs    atomic.Int64
	lastUse atomic.Time
}

func newActor(key string, store storage.CounterStore, metrics *metric.Metrics, now time.Time) *Actor {
	a := &Actor{
		key:     key,
		store:   store,
		metrics: metrics,
		slot:    make(chan struct{}, 1),
	}
	a.lastUse.Store(now)
	return a
}

// Key returns the partition key owned by the actor.
func (a *Actor) Key() string {
	return a.key
}

// Handle dispatches an HTTP verb: GET reads, POST increments.
func (a *Actor) Handle(ctx context.Context, method string) (int64, error) {
	switch method {
	case http.MethodGet:
		return a.Get(ctx)
	case http.MethodPost:
		return a.Increment(ctx)
	default:
		return 0, ErrMethodNotSupported
	}
}

// Get returns the durable value, or 0 if the counter was never stored.
func (a *Actor) Get(ctx context.Context) (int64, error) {
	if err := a.acquire(ctx); err != nil {
		return 0, err
	}
	defer a.release()

	v, err := a.load(ctx)
	if err != nil {
		return 0, err
	}
	a.metrics.Read(ctx)
	return v, nil
}

// Increment adds one to the durable value and returns the new value once it
// has been persisted. Load, add and store run while holding the slot, so
// concurrent increments on the same key cannot overwrite each other.
func (a *Actor) Increment(ctx context.Context) (int64, error) {
	if err := a.acquire(ctx); err != nil {
		return 0, err
	}
	defer a.release()

	v, err := a.load(ctx)
	if err != nil {
		return 0, err
	}

	next := v + 1
	if err := a.store.Store(ctx, a.key, next); err != nil {
		a.metrics.StoreError(ctx, metric.OpStore)
		return 0, fmt.Errorf("failed to persist counter %q: %w", a.key, err)
	}
	a.metrics.Increment(ctx)
	return next, nil
}

func (a *Actor) load(ctx context.Context) (int64, error) {
	v, found, err := a.store.Load(ctx, a.key)
	if err != nil {
		a.metrics.StoreError(ctx, metric.OpLoad)
		return 0, fmt.Errorf("failed to load counter %q: %w", a.key, err)
	}
	if !found {
		return 0, nil
	}
	return v, nil
}

// acquire waits for the slot or for ctx to end, whichever comes first.
func (a *Actor) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case a.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Actor) release() {
	<-a.slot
}
