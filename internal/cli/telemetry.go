package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/randalmurphal/femtomix/pkg/femtomix"
	"github.com/randalmurphal/femtomix/pkg/femtomix/observability"
)

// telemetry holds the exporters enabled for one run.
type telemetry struct {
	shutdown []func(context.Context) error
}

// setupTelemetry returns the options wiring metrics and spans to w.
func setupTelemetry(w io.Writer, metrics, traces bool) (*telemetry, []femtomix.Option, error) {
	t := &telemetry{}
	var opts []femtomix.Option

	if metrics {
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w), stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
		t.shutdown = append(t.shutdown, mp.Shutdown)
		opts = append(opts, femtomix.WithMetrics(observability.NewMetricsRecorder(mp)))
	}

	if traces {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, nil, fmt.Errorf("create stdout trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		t.shutdown = append(t.shutdown, tp.Shutdown)
		opts = append(opts, femtomix.WithSpans(observability.NewSpanManager(tp)))
	}
	return t, opts, nil
}

// Shutdown flushes and stops every provider.
func (t *telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range t.shutdown {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}
