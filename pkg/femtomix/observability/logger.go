// Package observability carries the run's structured logging, OpenTelemetry
// metrics and trace spans. Every piece has a no-op form, and the logging
// helpers accept a nil logger.
package observability

import (
	"log/slog"
	"strings"
	"time"
)

// EnrichLogger returns logger with run_id and analysis attached.
func EnrichLogger(logger *slog.Logger, runID, analysis string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.String("analysis", analysis),
	)
}

// LogRunStart logs the start of a run.
func LogRunStart(logger *slog.Logger, runID string, analyses int) {
	if logger == nil {
		return
	}
	logger.Info("run starting",
		slog.String("run_id", runID),
		slog.Int("analyses", analyses),
	)
}

// LogRunComplete logs a run that read every event and finished every analysis.
func LogRunComplete(logger *slog.Logger, runID string, durationMs float64, events int64) {
	if logger == nil {
		return
	}
	logger.Info("run completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int64("events", events),
	)
}

// LogRunError logs an aborted run.
func LogRunError(logger *slog.Logger, runID string, err error, durationMs float64, events int64) {
	if logger == nil {
		return
	}
	logger.Error("run failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.Int64("events_read", events),
	)
}

// LogAnalysisBuilt logs a constructed analysis.
func LogAnalysisBuilt(logger *slog.Logger, name, class string, identical bool) {
	if logger == nil {
		return
	}
	logger.Debug("analysis built",
		slog.String("analysis", name),
		slog.String("class", class),
		slog.Bool("identical", identical),
	)
}

// LogAnalysisFinished logs the counters of a finished analysis.
func LogAnalysisFinished(logger *slog.Logger, name string, events, passed, real, mixed int64) {
	if logger == nil {
		return
	}
	logger.Info("analysis finished",
		slog.String("analysis", name),
		slog.Int64("events", events),
		slog.Int64("events_passed", passed),
		slog.Int64("real_pairs", real),
		slog.Int64("mixed_pairs", mixed),
	)
}

// LogUnconsumedKeys warns about configuration keys nothing read.
func LogUnconsumedKeys(logger *slog.Logger, keys []string) {
	if logger == nil || len(keys) == 0 {
		return
	}
	logger.Warn("unconsumed configuration keys",
		slog.Int("count", len(keys)),
		slog.String("keys", strings.Join(keys, ", ")),
	)
}

// LogEmptyPool notes an event whose mixing pool could not supply partners.
func LogEmptyPool(logger *slog.Logger, eventID int64, bin string, buffered int) {
	if logger == nil {
		return
	}
	logger.Debug("mixing pool not ready",
		slog.Int64("event_id", eventID),
		slog.String("bin", bin),
		slog.Int("buffered", buffered),
	)
}

// LogBundleSaved logs a persisted output bundle.
func LogBundleSaved(logger *slog.Logger, runID, analysis string, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Debug("bundle saved",
		slog.String("run_id", runID),
		slog.String("analysis", analysis),
		slog.Int("size_bytes", sizeBytes),
	)
}

// TimedOperation starts a clock. The returned function reports the elapsed
// milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
