package memory

import (
	"context"
	"sync"

	"github.com/aevon-lab/pageviews/internal/core/storage"
)

// Store is an in-process CounterStore. Values survive actor passivation but
// not a process restart.
type Store struct {
	mu   sync.RWMutex
	data map[string]int64
}

var _ storage.CounterStore = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]int64),
	}
}

func (s *Store) Load(ctx context.Context, key string) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Store(ctx context.Context, key string, value int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored counters.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
