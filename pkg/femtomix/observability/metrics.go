package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope of every femtomix instrument.
const MeterName = "femtomix"

// MetricsRecorder records pipeline metrics.
// Use NewMetricsRecorder for OpenTelemetry or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvent counts one processed event.
	RecordEvent(ctx context.Context, analysis string, passed bool)

	// RecordPairs counts n pairs of the given provenance ("real" or "mixed").
	RecordPairs(ctx context.Context, analysis, provenance string, n int64)

	// RecordEmptyPool counts an event that found its mixing pool not ready.
	RecordEmptyPool(ctx context.Context, analysis string)

	// RecordRun records a finished or aborted run.
	RecordRun(ctx context.Context, success bool, duration time.Duration)
}

type otelMetrics struct {
	events     metric.Int64Counter
	pairs      metric.Int64Counter
	emptyPools metric.Int64Counter
	runs       metric.Int64Counter
	runLatency metric.Float64Histogram
}

func newOtelMetrics(provider metric.MeterProvider) (*otelMetrics, error) {
	meter := provider.Meter(MeterName)

	events, err := meter.Int64Counter("femtomix.events",
		metric.WithDescription("Events processed, by event cut outcome"),
	)
	if err != nil {
		return nil, err
	}
	pairs, err := meter.Int64Counter("femtomix.pairs",
		metric.WithDescription("Pairs handed to correlation functions"),
	)
	if err != nil {
		return nil, err
	}
	emptyPools, err := meter.Int64Counter("femtomix.pool.empty",
		metric.WithDescription("Events skipped for mixing because the pool was not ready"),
	)
	if err != nil {
		return nil, err
	}
	runs, err := meter.Int64Counter("femtomix.runs",
		metric.WithDescription("Number of runs"),
	)
	if err != nil {
		return nil, err
	}
	runLatency, err := meter.Float64Histogram("femtomix.run.latency_ms",
		metric.WithDescription("Run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		events:     events,
		pairs:      pairs,
		emptyPools: emptyPools,
		runs:       runs,
		runLatency: runLatency,
	}, nil
}

// NewMetricsRecorder returns an OpenTelemetry recorder on provider, or on
// the global provider when provider is nil. Instrument creation failures
// fall back to NoopMetrics.
func NewMetricsRecorder(provider metric.MeterProvider) MetricsRecorder {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	m, err := newOtelMetrics(provider)
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordEvent(ctx context.Context, analysis string, passed bool) {
	m.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("analysis", analysis),
		attribute.Bool("passed", passed),
	))
}

func (m *otelMetrics) RecordPairs(ctx context.Context, analysis, provenance string, n int64) {
	if n == 0 {
		return
	}
	m.pairs.Add(ctx, n, metric.WithAttributes(
		attribute.String("analysis", analysis),
		attribute.String("provenance", provenance),
	))
}

func (m *otelMetrics) RecordEmptyPool(ctx context.Context, analysis string) {
	m.emptyPools.Add(ctx, 1, metric.WithAttributes(attribute.String("analysis", analysis)))
}

func (m *otelMetrics) RecordRun(ctx context.Context, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.runs.Add(ctx, 1, attrs)
	m.runLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}
