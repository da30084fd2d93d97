package txbridge

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records transaction lifecycle counters through an OpenTelemetry
// meter. A nil *Metrics is valid and records nothing, so callers that don't
// export metrics can skip WithMetrics entirely.
type Metrics struct {
	begun      metric.Int64Counter
	committed  metric.Int64Counter
	rolledBack metric.Int64Counter
	failures   metric.Int64Counter
}

// NewMetrics creates the transaction counters on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	m.begun, err = meter.Int64Counter("txbridge.transactions.begun",
		metric.WithDescription("Transactions begun on behalf of requests"))
	if err != nil {
		return nil, err
	}

	m.committed, err = meter.Int64Counter("txbridge.transactions.committed",
		metric.WithDescription("Request transactions committed"))
	if err != nil {
		return nil, err
	}

	m.rolledBack, err = meter.Int64Counter("txbridge.transactions.rolled_back",
		metric.WithDescription("Request transactions rolled back"))
	if err != nil {
		return nil, err
	}

	m.failures, err = meter.Int64Counter("txbridge.transactions.failures",
		metric.WithDescription("Transaction operations that returned an error, by stage"))
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *Metrics) addBegun(ctx context.Context) {
	if m == nil {
		return
	}
	m.begun.Add(ctx, 1)
}

func (m *Metrics) addCommitted(ctx context.Context) {
	if m == nil {
		return
	}
	m.committed.Add(ctx, 1)
}

func (m *Metrics) addRolledBack(ctx context.Context) {
	if m == nil {
		return
	}
	m.rolledBack.Add(ctx, 1)
}

func (m *Metrics) addFailure(ctx context.Context, stage string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}
