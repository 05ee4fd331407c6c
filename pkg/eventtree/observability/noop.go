package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

func (NoopMetrics) RecordEventResolution(_ context.Context, _ string, _ time.Duration, _ error) {}
func (NoopMetrics) RecordReplacement(_ context.Context, _ string, _ int)                        {}
func (NoopMetrics) RecordTriggerEnqueued(_ context.Context, _ string, _ int)                     {}
func (NoopMetrics) RecordDispatcherSend(_ context.Context, _ string, _ int, _ time.Duration)     {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

// noopSpan is a span that does nothing; the OTel noop package provides a
// proper no-op span implementation.
var noopSpan = noop.Span{}

func (NoopSpanManager) StartEventSpan(ctx context.Context, _ string, _ int) (context.Context, trace.Span) {
	return ctx, noopSpan
}

func (NoopSpanManager) StartSendSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
