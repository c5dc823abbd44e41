package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store is closed")

// CounterStore is the durable key-value substrate behind every counter.
// Implementations must be safe for concurrent use across keys; serializing
// access to a single key is the caller's job.
type CounterStore interface {
	// Load returns the persisted value for key. found is false when the key
	// has never been stored; that is not an error.
	Load(ctx context.Context, key string) (value int64, found bool, err error)

	// Store durably writes value for key, replacing any previous value.
	Store(ctx context.Context, key string, value int64) error

	// Ping reports whether the backing service is reachable.
	Ping(ctx context.Context) error
}
