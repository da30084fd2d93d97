package txbridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestMetricsCounters(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	m, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)

	m.addBegun(ctx)
	m.addBegun(ctx)
	m.addCommitted(ctx)
	m.addRolledBack(ctx)
	m.addFailure(ctx, "commit")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	totals := map[string]int64{}
	for _, metrics := range rm.ScopeMetrics[0].Metrics {
		sum, ok := metrics.Data.(metricdata.Sum[int64])
		require.True(t, ok, "counter %s", metrics.Name)
		var total int64
		for _, dp := range sum.DataPoints {
			total += dp.Value
		}
		totals[metrics.Name] = total
	}

	assert.Equal(t, int64(2), totals["txbridge.transactions.begun"])
	assert.Equal(t, int64(1), totals["txbridge.transactions.committed"])
	assert.Equal(t, int64(1), totals["txbridge.transactions.rolled_back"])
	assert.Equal(t, int64(1), totals["txbridge.transactions.failures"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	ctx := context.Background()
	var m *Metrics

	assert.NotPanics(t, func() {
		m.addBegun(ctx)
		m.addCommitted(ctx)
		m.addRolledBack(ctx)
		m.addFailure(ctx, "begin")
	})
}
