package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aevon-lab/pageviews/internal/core/storage"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces counter keys inside a shared Redis database.
const DefaultKeyPrefix = "pageviews:"

// Options configures the Redis connection.
type Options struct {
	Addr        string
	Password    string
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
}

// Store implements storage.CounterStore on top of Redis strings.
type Store struct {
	client goredis.UniversalClient
	prefix string
}

var _ storage.CounterStore = (*Store)(nil)

// Dial creates a client for opts. It does not contact the server; use Ping.
func Dial(opts Options) *Store {
	client := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})

	slog.Info("[Redis] Client configured", "addr", opts.Addr, "db", opts.DB)
	return NewStore(client, opts.KeyPrefix)
}

// NewStore wraps an existing client.
func NewStore(client goredis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Load(ctx context.Context, key string) (int64, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to load counter %q: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Store(ctx context.Context, key string, value int64) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to store counter %q: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	slog.Info("[Redis] Client closed")
	return nil
}
