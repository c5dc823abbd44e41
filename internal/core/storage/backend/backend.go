// Package backend opens the CounterStore selected by configuration.
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/aevon-lab/pageviews/internal/core/config"
	"github.com/aevon-lab/pageviews/internal/core/storage"
	"github.com/aevon-lab/pageviews/internal/core/storage/bolt"
	"github.com/aevon-lab/pageviews/internal/core/storage/memory"
	"github.com/aevon-lab/pageviews/internal/core/storage/postgres"
	"github.com/aevon-lab/pageviews/internal/core/storage/redis"
	"github.com/aevon-lab/pageviews/internal/migrations"
	"github.com/flowchartsman/retry"
	"go.uber.org/multierr"
)

// Backend is an open CounterStore together with the resources behind it.
type Backend struct {
	storage.CounterStore

	Type    string
	closers []io.Closer
}

// Close releases every resource in reverse opening order.
func (b *Backend) Close() error {
	var err error
	for i := len(b.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, b.closers[i].Close())
	}
	b.closers = nil
	return err
}

// Open connects the backend named by cfg.Storage.Type. Connecting is retried
// with backoff. For postgres the embedded migrations run before the adapter
// prepares its statements.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Storage.Type {
	case config.StorageMemory:
		slog.Warn("[Backend] Using in-memory storage, counters are lost on restart")
		return &Backend{CounterStore: memory.NewStore(), Type: cfg.Storage.Type}, nil
	case config.StoragePostgres:
		return openPostgres(ctx, cfg)
	case config.StorageRedis:
		return openRedis(ctx, cfg)
	case config.StorageBolt:
		return openBolt(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
}

// OpenDB connects to PostgreSQL, retrying until the database answers.
func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	var db *sql.DB
	err := newRetrier(cfg.Storage).RunContext(ctx, func(context.Context) error {
		var err error
		db, err = postgres.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			slog.Warn("[Backend] PostgreSQL not reachable yet", "error", err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*Backend, error) {
	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := migrations.RunMigrations(db, cfg.Database.AutoMigrate); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to run migrations: %w", err), db.Close())
	}

	adapter, err := postgres.NewAdapter(db)
	if err != nil {
		return nil, multierr.Append(err, db.Close())
	}

	return &Backend{CounterStore: adapter, Type: cfg.Storage.Type, closers: []io.Closer{adapter}}, nil
}

func openRedis(ctx context.Context, cfg *config.Config) (*Backend, error) {
	store := redis.Dial(redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		KeyPrefix:   cfg.Redis.KeyPrefix,
		DialTimeout: cfg.Redis.DialTimeout,
	})

	err := newRetrier(cfg.Storage).RunContext(ctx, func(ctx context.Context) error {
		err := store.Ping(ctx)
		if err != nil {
			slog.Warn("[Backend] Redis not reachable yet", "addr", cfg.Redis.Addr, "error", err)
		}
		return err
	})
	if err != nil {
		return nil, multierr.Append(
			fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err),
			store.Close(),
		)
	}

	slog.Info("[Backend] Connected to Redis", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return &Backend{CounterStore: store, Type: cfg.Storage.Type, closers: []io.Closer{store}}, nil
}

// openBolt retries because another process may still hold the file lock.
func openBolt(ctx context.Context, cfg *config.Config) (*Backend, error) {
	var store *bolt.Store
	err := newRetrier(cfg.Storage).RunContext(ctx, func(context.Context) error {
		var err error
		store, err = bolt.Open(cfg.Bolt.Path, cfg.Bolt.Bucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt store %q: %w", cfg.Bolt.Path, err)
	}

	slog.Info("[Backend] Opened Bolt store", "path", cfg.Bolt.Path, "bucket", cfg.Bolt.Bucket)
	return &Backend{CounterStore: store, Type: cfg.Storage.Type, closers: []io.Closer{store}}, nil
}

func newRetrier(cfg config.StorageConfig) *retry.Retrier {
	return retry.NewRetrier(cfg.ConnectRetries, cfg.ConnectBackoff, 10*cfg.ConnectBackoff)
}
