package actor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aevon-lab/pageviews/internal/core/partition"
	"github.com/aevon-lab/pageviews/internal/core/storage"
	"github.com/aevon-lab/pageviews/internal/metric"
)

// Registry is the in-process table of partition actors.
//
// Actors are created lazily on first use and may be passivated once idle. A
// passivated actor holds no state worth keeping, since every operation
// re-reads the store; the next request for the key simply spawns a new one.
type Registry struct {
	store       storage.CounterStore
	metrics     *metric.Metrics
	idleTimeout time.Duration
	nowFn       func() time.Time
	shards      [partition.Count]*shard
}

type shard struct {
	mu     sync.Mutex
	actors map[string]*Actor
}

// Option configures a Registry.
type Option func(*Registry)

// WithMetrics records actor and store activity on m.
func WithMetrics(m *metric.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithIdleTimeout sets how long an unused actor stays resident. Zero keeps
// actors forever.
func WithIdleTimeout(d time.Duration) Option {
	return func(r *Registry) {
		r.idleTimeout = d
	}
}

// NewRegistry creates an empty registry whose actors persist through store.
func NewRegistry(store storage.CounterStore, opts ...Option) *Registry {
	if store == nil {
		panic("actor: store must not be nil")
	}

	r := &Registry{
		store: store,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	for i := range r.shards {
		r.shards[i] = &shard{actors: make(map[string]*Actor)}
	}
	return r
}

// Acquire returns the actor for key, spawning it if needed, and pins it
// against passivation until release is called. release is safe to call more
// than once.
func (r *Registry) Acquire(key string) (*Actor, func()) {
	sh := r.shards[partition.For(key)]

	sh.mu.Lock()
	a, ok := sh.actors[key]
	if !ok {
		a = newActor(key, r.store, r.metrics, r.nowFn())
		sh.actors[key] = a
		r.metrics.ActorSpawned(context.Background())
		slog.Debug("[Registry] Actor spawned", "key", key)
	}
	a.refs.Inc()
	sh.mu.Unlock()

	var once sync.Once
	return a, func() {
		once.Do(func() {
			a.lastUse.Store(r.nowFn())
			a.refs.Dec()
		})
	}
}

// Do runs fn against the actor for key.
func (r *Registry) Do(ctx context.Context, key string, fn func(context.Context, *Actor) (int64, error)) (int64, error) {
	a, release := r.Acquire(key)
	defer release()
	return fn(ctx, a)
}

// Len returns the number of resident actors.
func (r *Registry) Len() int {
	n := 0
	for _, sh := range r.shards {
		sh.mu.Lock()
		n += len(sh.actors)
		sh.mu.Unlock()
	}
	return n
}

// Passivate evicts every actor that nobody holds and that has been idle for
// longer than idle. It returns the number of evicted actors.
//
// Eviction happens under the same shard lock Acquire uses, so a key never has
// two live actors at once.
func (r *Registry) Passivate(idle time.Duration) int {
	cutoff := r.nowFn().Add(-idle)
	evicted := 0

	for _, sh := range r.shards {
		sh.mu.Lock()
		for key, a := range sh.actors {
			if a.refs.Load() > 0 || a.lastUse.Load().After(cutoff) {
				continue
			}
			delete(sh.actors, key)
			evicted++
			r.metrics.ActorPassivated(context.Background())
		}
		sh.mu.Unlock()
	}
	return evicted
}

// Run passivates idle actors every interval until ctx is cancelled.
// It returns immediately when no idle timeout is configured.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if r.idleTimeout <= 0 || interval <= 0 {
		slog.Info("[Registry] Passivation disabled")
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("[Registry] Starting passivation loop",
		"interval", interval,
		"idle_timeout", r.idleTimeout,
	)

	for {
		select {
		case <-ticker.C:
			if n := r.Passivate(r.idleTimeout); n > 0 {
				slog.Debug("[Registry] Passivated idle actors", "count", n, "resident", r.Len())
			}
		case <-ctx.Done():
			slog.Info("[Registry] Stopping passivation loop")
			return nil
		}
	}
}
