package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	txbridge "github.com/altuslabsxyz/tx-bridge"
)

// setupMetrics wires the library's otel counters to a prometheus registry
// exposed on /metrics.
func (app *Application) setupMetrics() error {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("metrics exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	metrics, err := txbridge.NewMetrics(provider.Meter("tx-bridge"))
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return fmt.Errorf("metrics: %w", err)
	}

	app.metrics = metrics
	app.metricsShutdown = provider.Shutdown
	app.metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return nil
}
