package metric

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNew(t *testing.T) {
	m, err := New(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	require.NotNil(t, m)

	ctx := context.Background()
	require.NotPanics(t, func() {
		m.Read(ctx)
		m.Increment(ctx)
		m.StoreError(ctx, OpLoad)
		m.ActorSpawned(ctx)
		m.ActorPassivated(ctx)
		m.BatchSize(ctx, 3)
	})
}

func TestFromGlobal(t *testing.T) {
	m, err := FromGlobal()
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	require.NotPanics(t, func() {
		m.Read(ctx)
		m.Increment(ctx)
		m.StoreError(ctx, OpStore)
		m.ActorSpawned(ctx)
		m.ActorPassivated(ctx)
		m.BatchSize(ctx, 1)
	})
}
