package femtomix

import (
	"log/slog"

	"github.com/randalmurphal/femtomix/pkg/femtomix/observability"
	"github.com/randalmurphal/femtomix/pkg/femtomix/store"
)

type options struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	strict  bool
	store   store.Store
	buffer  int
	runID   string
}

func defaultOptions() options {
	return options{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		buffer:  64,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures Construct and Build.
type Option func(*options)

// WithLogger sets the structured logger. Without it nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics{}
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithSpans sets the span manager used by Manager.Run.
// Default: observability.NoopSpanManager{}
func WithSpans(s observability.SpanManager) Option {
	return func(o *options) {
		if s != nil {
			o.spans = s
		}
	}
}

// WithStrictConfig turns unconsumed configuration keys into a construction
// error instead of a logged warning.
func WithStrictConfig() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithStore persists every finished output bundle of a Manager run.
func WithStore(s store.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithBuffer sets the per-analysis event channel capacity of a Manager run.
// Default: 64
func WithBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// WithRunID fixes the run ID instead of generating one.
func WithRunID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.runID = id
		}
	}
}
