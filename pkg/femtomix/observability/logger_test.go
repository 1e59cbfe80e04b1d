package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestLogHelpers(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*slog.Logger)
		level string
		msg   string
		attrs map[string]any
	}{
		{
			name:  "run start",
			log:   func(l *slog.Logger) { LogRunStart(l, "run-1", 2) },
			level: "INFO", msg: "run starting",
			attrs: map[string]any{"run_id": "run-1", "analyses": 2.0},
		},
		{
			name:  "run complete",
			log:   func(l *slog.Logger) { LogRunComplete(l, "run-1", 12.5, 100) },
			level: "INFO", msg: "run completed",
			attrs: map[string]any{"duration_ms": 12.5, "events": 100.0},
		},
		{
			name:  "run error",
			log:   func(l *slog.Logger) { LogRunError(l, "run-1", errors.New("boom"), 3, 7) },
			level: "ERROR", msg: "run failed",
			attrs: map[string]any{"error": "boom", "events_read": 7.0},
		},
		{
			name:  "analysis built",
			log:   func(l *slog.Logger) { LogAnalysisBuilt(l, "pions", "AnalysisPionPion", true) },
			level: "DEBUG", msg: "analysis built",
			attrs: map[string]any{"analysis": "pions", "class": "AnalysisPionPion", "identical": true},
		},
		{
			name:  "analysis finished",
			log:   func(l *slog.Logger) { LogAnalysisFinished(l, "pions", 10, 8, 45, 90) },
			level: "INFO", msg: "analysis finished",
			attrs: map[string]any{"events_passed": 8.0, "real_pairs": 45.0, "mixed_pairs": 90.0},
		},
		{
			name:  "unconsumed keys",
			log:   func(l *slog.Logger) { LogUnconsumedKeys(l, []string{"a.b", "c"}) },
			level: "WARN", msg: "unconsumed configuration keys",
			attrs: map[string]any{"count": 2.0, "keys": "a.b, c"},
		},
		{
			name:  "empty pool",
			log:   func(l *slog.Logger) { LogEmptyPool(l, 4, "v3_m1", 2) },
			level: "DEBUG", msg: "mixing pool not ready",
			attrs: map[string]any{"event_id": 4.0, "bin": "v3_m1", "buffered": 2.0},
		},
		{
			name:  "bundle saved",
			log:   func(l *slog.Logger) { LogBundleSaved(l, "run-1", "pions", 512) },
			level: "DEBUG", msg: "bundle saved",
			attrs: map[string]any{"size_bytes": 512.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := captureLogger()
			tt.log(logger)

			recs := records(t, buf)
			require.Len(t, recs, 1)
			assert.Equal(t, tt.level, recs[0]["level"])
			assert.Equal(t, tt.msg, recs[0]["msg"])
			for k, v := range tt.attrs {
				assert.Equal(t, v, recs[0][k], k)
			}
		})
	}
}

func TestLogHelpersNilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogRunStart(nil, "r", 1)
		LogRunComplete(nil, "r", 1, 1)
		LogRunError(nil, "r", errors.New("x"), 1, 1)
		LogAnalysisBuilt(nil, "a", "c", false)
		LogAnalysisFinished(nil, "a", 1, 1, 1, 1)
		LogUnconsumedKeys(nil, []string{"k"})
		LogEmptyPool(nil, 1, "b", 0)
		LogBundleSaved(nil, "r", "a", 1)
	})
	assert.Nil(t, EnrichLogger(nil, "r", "a"))
}

func TestLogUnconsumedKeysSilentWhenEmpty(t *testing.T) {
	logger, buf := captureLogger()
	LogUnconsumedKeys(logger, nil)
	assert.Zero(t, buf.Len())
}

func TestEnrichLogger(t *testing.T) {
	logger, buf := captureLogger()
	EnrichLogger(logger, "run-9", "kaons").Info("hello")

	recs := records(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "run-9", recs[0]["run_id"])
	assert.Equal(t, "kaons", recs[0]["analysis"])
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 5.0)
}
