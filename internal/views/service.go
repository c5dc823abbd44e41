package views

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aevon-lab/pageviews/internal/actor"
	"github.com/aevon-lab/pageviews/internal/core/partition"
	"github.com/aevon-lab/pageviews/internal/metric"
	"golang.org/x/sync/errgroup"
)

var (
	ErrMissingTenant  = errors.New("missing tenant identifier")
	ErrInvalidTenant  = errors.New("invalid tenant identifier")
	ErrInvalidPath    = errors.New("invalid resource path")
	ErrMalformedBatch = errors.New("malformed batch request")

	// ErrMethodNotSupported is the actor's own error, so callers can match
	// either one.
	ErrMethodNotSupported = actor.ErrMethodNotSupported
)

const defaultMaxBodySizeMB = 1

// Service routes counter requests to the partition actors of a registry.
type Service struct {
	registry         *actor.Registry
	metrics          *metric.Metrics
	tenantHeader     string
	reserved         map[string]struct{}
	maxBodySizeBytes int64
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records batch sizes on m.
func WithMetrics(m *metric.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTenantHeader reads the tenant from header instead of the request Host.
func WithTenantHeader(header string) Option {
	return func(s *Service) {
		s.tenantHeader = header
	}
}

// WithReservedPaths rejects the given paths as counter targets, e.g. the
// health endpoint.
func WithReservedPaths(paths ...string) Option {
	return func(s *Service) {
		for _, p := range paths {
			if p != "" {
				s.reserved[partition.NormalizePath(p)] = struct{}{}
			}
		}
	}
}

// WithMaxBodySizeMB caps the batch request body. Non-positive values keep the 1 MB default.
func WithMaxBodySizeMB(mb int) Option {
	return func(s *Service) {
		if mb > 0 {
			s.maxBodySizeBytes = int64(mb) * 1024 * 1024
		}
	}
}

// NewService creates a Service dispatching to the actors of reg.
func NewService(reg *actor.Registry, opts ...Option) *Service {
	if reg == nil {
		panic("views: registry must not be nil")
	}
	s := &Service{
		registry:         reg,
		reserved:         make(map[string]struct{}),
		maxBodySizeBytes: defaultMaxBodySizeMB * 1024 * 1024,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleSingle reads (GET) or increments (POST) the counter of host+path.
func (s *Service) HandleSingle(ctx context.Context, method, host, path string) (int64, error) {
	if err := checkTenant(host); err != nil {
		return 0, err
	}

	path = partition.NormalizePath(path)
	if partition.IsReserved(path) || s.isReserved(path) {
		return 0, ErrInvalidPath
	}
	if method != http.MethodGet && method != http.MethodPost {
		return 0, ErrMethodNotSupported
	}

	return s.registry.Do(ctx, partition.Key(host, path), func(ctx context.Context, a *actor.Actor) (int64, error) {
		return a.Handle(ctx, method)
	})
}

type batchResult struct {
	views int64
	err   error
}

// HandleBatch reads every path of host concurrently. The input is validated
// as a whole before any actor is contacted. The result has one entry per
// distinct normalized path; a path whose read failed maps to nil.
func (s *Service) HandleBatch(ctx context.Context, host string, paths []any) (map[string]*int64, error) {
	if err := checkTenant(host); err != nil {
		return nil, err
	}

	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, raw := range paths {
		p, ok := raw.(string)
		if !ok || p == "" {
			return nil, ErrMalformedBatch
		}
		p = partition.NormalizePath(p)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}

	s.metrics.BatchSize(ctx, len(unique))

	results := make([]batchResult, len(unique))
	var g errgroup.Group
	for i, p := range unique {
		g.Go(func() error {
			v, err := s.registry.Do(ctx, partition.Key(host, p), func(ctx context.Context, a *actor.Actor) (int64, error) {
				return a.Get(ctx)
			})
			results[i] = batchResult{views: v, err: err}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]*int64, len(unique))
	for i, p := range unique {
		r := results[i]
		if r.err != nil {
			slog.Warn("[Views] Batch lookup failed", "host", host, "path", p, "error", r.err)
			out[p] = nil
			continue
		}
		v := r.views
		out[p] = &v
	}
	return out, nil
}

func checkTenant(host string) error {
	if host == "" {
		return ErrMissingTenant
	}
	if !partition.ValidTenant(host) {
		return ErrInvalidTenant
	}
	return nil
}

func (s *Service) isReserved(path string) bool {
	_, ok := s.reserved[path]
	return ok
}
