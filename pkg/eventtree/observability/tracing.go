package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the eventtree tracer instance, using the global OTel tracer
// provider.
var tracer = otel.Tracer("eventtree")

// SpanManager handles trace span lifecycle for event resolution and
// Dispatcher fan-outs. Use NewSpanManager() for OTel tracing or
// NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartEventSpan starts a span for a single resolve() pass.
	StartEventSpan(ctx context.Context, eventType string, timeStamp int) (context.Context, trace.Span)

	// StartSendSpan starts a span for a Dispatcher.Send fan-out.
	StartSendSpan(ctx context.Context, signal string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func (m *otelSpanManager) StartEventSpan(ctx context.Context, eventType string, timeStamp int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "eventtree.resolve."+eventType,
		trace.WithAttributes(
			attribute.String("event.type", eventType),
			attribute.Int("event.time_stamp", timeStamp),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) StartSendSpan(ctx context.Context, signal string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "eventtree.dispatch.send",
		trace.WithAttributes(attribute.String("signal", signal)),
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
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
