package metric

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/aevon-lab/pageviews"

// Operation labels used on the store error counter.
const (
	OpLoad  = "load"
	OpStore = "store"
)

// Metrics holds the service instruments. A nil *Metrics records nothing.
type Metrics struct {
	reads       metric.Int64Counter
	increments  metric.Int64Counter
	storeErrors metric.Int64Counter
	resident    metric.Int64UpDownCounter
	batchSize   metric.Int64Histogram
}

// New creates the instruments on meter.
func New(meter metric.Meter) (*Metrics, error) {
	m := new(Metrics)
	var err error

	if m.reads, err = meter.Int64Counter(
		"pageviews_reads_total",
		metric.WithDescription("Total number of counter reads"),
	); err != nil {
		return nil, fmt.Errorf("failed to create reads instrument, %w", err)
	}

	if m.increments, err = meter.Int64Counter(
		"pageviews_increments_total",
		metric.WithDescription("Total number of acknowledged increments"),
	); err != nil {
		return nil, fmt.Errorf("failed to create increments instrument, %w", err)
	}

	if m.storeErrors, err = meter.Int64Counter(
		"pageviews_store_errors_total",
		metric.WithDescription("Total number of failed durable reads and writes"),
	); err != nil {
		return nil, fmt.Errorf("failed to create storeErrors instrument, %w", err)
	}

	if m.resident, err = meter.Int64UpDownCounter(
		"pageviews_actors_resident",
		metric.WithDescription("Number of partition actors currently held in memory"),
	); err != nil {
		return nil, fmt.Errorf("failed to create resident instrument, %w", err)
	}

	if m.batchSize, err = meter.Int64Histogram(
		"pageviews_batch_size",
		metric.WithDescription("Number of paths per batch request"),
	); err != nil {
		return nil, fmt.Errorf("failed to create batchSize instrument, %w", err)
	}

	return m, nil
}

// FromProvider creates the instruments on a meter of mp.
func FromProvider(mp metric.MeterProvider) (*Metrics, error) {
	return New(mp.Meter(instrumentationName))
}

// FromGlobal creates the instruments on the global meter provider.
func FromGlobal() (*Metrics, error) {
	return FromProvider(otel.GetMeterProvider())
}

func (m *Metrics) Read(ctx context.Context) {
	if m == nil {
		return
	}
	m.reads.Add(ctx, 1)
}

func (m *Metrics) Increment(ctx context.Context) {
	if m == nil {
		return
	}
	m.increments.Add(ctx, 1)
}

func (m *Metrics) StoreError(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.storeErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// ActorSpawned and ActorPassivated track registry residency.
func (m *Metrics) ActorSpawned(ctx context.Context) {
	if m == nil {
		return
	}
	m.resident.Add(ctx, 1)
}

func (m *Metrics) ActorPassivated(ctx context.Context) {
	if m == nil {
		return
	}
	m.resident.Add(ctx, -1)
}

func (m *Metrics) BatchSize(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.batchSize.Record(ctx, int64(n))
}
