package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestRecorder(t *testing.T) (MetricsRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rec := NewMetricsRecorder(provider)
	_, isNoop := rec.(NoopMetrics)
	require.False(t, isNoop)
	return rec, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumWhere adds up the data points of an int64 counter whose attributes
// include every kv.
func sumWhere(t *testing.T, m *metricdata.Metrics, kvs ...attribute.KeyValue) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum[int64], got %T", m.Data)

	var total int64
	for _, dp := range sum.DataPoints {
		match := true
		for _, kv := range kvs {
			v, found := dp.Attributes.Value(kv.Key)
			if !found || v != kv.Value {
				match = false
				break
			}
		}
		if match {
			total += dp.Value
		}
	}
	return total
}

func TestRecordEvent(t *testing.T) {
	rec, reader := newTestRecorder(t)
	ctx := context.Background()
	rec.RecordEvent(ctx, "pions", true)
	rec.RecordEvent(ctx, "pions", true)
	rec.RecordEvent(ctx, "pions", false)

	m := findMetric(collect(t, reader), "femtomix.events")
	assert.Equal(t, int64(2), sumWhere(t, m, attribute.Bool("passed", true)))
	assert.Equal(t, int64(1), sumWhere(t, m, attribute.Bool("passed", false)))
	assert.Equal(t, int64(3), sumWhere(t, m, attribute.String("analysis", "pions")))
}

func TestRecordPairs(t *testing.T) {
	rec, reader := newTestRecorder(t)
	ctx := context.Background()
	rec.RecordPairs(ctx, "pions", "real", 6)
	rec.RecordPairs(ctx, "pions", "mixed", 18)
	rec.RecordPairs(ctx, "pions", "mixed", 0)

	m := findMetric(collect(t, reader), "femtomix.pairs")
	assert.Equal(t, int64(6), sumWhere(t, m, attribute.String("provenance", "real")))
	assert.Equal(t, int64(18), sumWhere(t, m, attribute.String("provenance", "mixed")))
}

func TestRecordEmptyPoolAndRun(t *testing.T) {
	rec, reader := newTestRecorder(t)
	ctx := context.Background()
	rec.RecordEmptyPool(ctx, "pions")
	rec.RecordRun(ctx, true, 20*time.Millisecond)
	rec.RecordRun(ctx, false, time.Millisecond)

	rm := collect(t, reader)
	assert.Equal(t, int64(1), sumWhere(t, findMetric(rm, "femtomix.pool.empty")))
	runs := findMetric(rm, "femtomix.runs")
	assert.Equal(t, int64(1), sumWhere(t, runs, attribute.Bool("success", true)))
	assert.Equal(t, int64(1), sumWhere(t, runs, attribute.Bool("success", false)))

	latency := findMetric(rm, "femtomix.run.latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}
