package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of femtomix spans.
const TracerName = "femtomix"

// SpanManager handles span lifecycle for runs and analysis finalization.
// Use NewSpanManager for OpenTelemetry or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartRunSpan starts the span covering a whole Manager run.
	StartRunSpan(ctx context.Context, runID string, analyses int) (context.Context, trace.Span)

	// StartFinishSpan starts a child span around one analysis' Finish.
	StartFinishSpan(ctx context.Context, analysis string) (context.Context, trace.Span)

	// EndSpanWithError records err, if any, and ends span.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the span in ctx.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager on provider, or on the global
// provider when provider is nil.
func NewSpanManager(provider trace.TracerProvider) SpanManager {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &otelSpanManager{tracer: provider.Tracer(TracerName)}
}

func (m *otelSpanManager) StartRunSpan(ctx context.Context, runID string, analyses int) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "femtomix.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.analyses", analyses),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) StartFinishSpan(ctx context.Context, analysis string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "femtomix.finish."+analysis,
		trace.WithAttributes(attribute.String("analysis.name", analysis)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
