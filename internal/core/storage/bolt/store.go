package bolt

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aevon-lab/pageviews/internal/core/storage"
	bbolt "go.etcd.io/bbolt"
	"go.uber.org/atomic"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	fileMode          os.FileMode = 0o600
	DefaultBucketName             = "page_views"
)

var defaultOptions = &bbolt.Options{Timeout: 5 * time.Second}

// Store implements storage.CounterStore with an embedded bbolt file.
// Values are protobuf Int64Value records, one per partition key.
//
// bbolt allows a single writer at a time, which is stricter than the
// per-key serialization the actors already provide.
type Store struct {
	db     *bbolt.DB
	bucket []byte
	closed atomic.Bool
}

var _ storage.CounterStore = (*Store)(nil)

// Open opens (or creates) the database file at path and ensures the bucket exists.
func Open(path, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = DefaultBucketName
	}

	opts := *defaultOptions
	db, err := bbolt.Open(path, fileMode, &opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database %q: %w", path, err)
	}

	name := []byte(bucket)
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(name)
		return e
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize bolt bucket %q: %w", bucket, err)
	}

	slog.Info("[Bolt] Store opened", "path", path, "bucket", bucket)
	return &Store{db: db, bucket: name}, nil
}

func (s *Store) Load(ctx context.Context, key string) (int64, bool, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return 0, false, err
	}

	var (
		record wrapperspb.Int64Value
		found  bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("bucket %q missing", s.bucket)
		}
		data := b.Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		// data is only valid inside the transaction.
		return proto.Unmarshal(data, &record)
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to load counter %q: %w", key, err)
	}
	return record.GetValue(), found, nil
}

func (s *Store) Store(ctx context.Context, key string, value int64) error {
	if err := s.ensureOpen(ctx); err != nil {
		return err
	}

	data, err := proto.Marshal(wrapperspb.Int64(value))
	if err != nil {
		return fmt.Errorf("failed to encode counter %q: %w", key, err)
	}

	if err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("bucket %q missing", s.bucket)
		}
		return b.Put([]byte(key), data)
	}); err != nil {
		return fmt.Errorf("failed to store counter %q: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.ensureOpen(ctx)
}

// Close closes the database file. Further calls return storage.ErrClosed.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close bolt database: %w", err)
	}
	slog.Info("[Bolt] Store closed")
	return nil
}

func (s *Store) ensureOpen(ctx context.Context) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	return ctx.Err()
}
