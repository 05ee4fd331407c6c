package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records event-tree resolution metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEventResolution records one resolve() pass for an event type.
	RecordEventResolution(ctx context.Context, eventType string, duration time.Duration, err error)

	// RecordReplacement records a replacement being applied to an event.
	RecordReplacement(ctx context.Context, eventType string, candidateCount int)

	// RecordTriggerEnqueued records a Trigger firing into the queue.
	RecordTriggerEnqueued(ctx context.Context, eventType string, queueLength int)

	// RecordDispatcherSend records one Dispatcher.Send fan-out.
	RecordDispatcherSend(ctx context.Context, signal string, handlerCount int, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	resolutions    metric.Int64Counter
	resolveLatency metric.Float64Histogram
	resolveErrors  metric.Int64Counter
	replacements   metric.Int64Counter
	triggerQueue   metric.Int64Histogram
	dispatcherSend metric.Int64Counter
	dispatchLat    metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance, lazily
// initializing it on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventtree")

	resolutions, err := meter.Int64Counter("eventtree.event.resolutions",
		metric.WithDescription("Number of event resolutions"))
	if err != nil {
		return nil, err
	}

	resolveLatency, err := meter.Float64Histogram("eventtree.event.latency_ms",
		metric.WithDescription("Event resolution latency in milliseconds"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	resolveErrors, err := meter.Int64Counter("eventtree.event.errors",
		metric.WithDescription("Number of event resolution errors"))
	if err != nil {
		return nil, err
	}

	replacements, err := meter.Int64Counter("eventtree.event.replacements",
		metric.WithDescription("Number of replacements applied"))
	if err != nil {
		return nil, err
	}

	triggerQueue, err := meter.Int64Histogram("eventtree.trigger.queue_length",
		metric.WithDescription("Trigger queue length at enqueue time"))
	if err != nil {
		return nil, err
	}

	dispatcherSend, err := meter.Int64Counter("eventtree.dispatcher.sends",
		metric.WithDescription("Number of Dispatcher.Send fan-outs"))
	if err != nil {
		return nil, err
	}

	dispatchLat, err := meter.Float64Histogram("eventtree.dispatcher.latency_ms",
		metric.WithDescription("Dispatcher.Send fan-out latency in milliseconds"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		resolutions:    resolutions,
		resolveLatency: resolveLatency,
		resolveErrors:  resolveErrors,
		replacements:   replacements,
		triggerQueue:   triggerQueue,
		dispatcherSend: dispatcherSend,
		dispatchLat:    dispatchLat,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder", slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordEventResolution(ctx context.Context, eventType string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{attribute.String("event_type", eventType)}
	m.resolutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.resolveLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		m.resolveErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func (m *otelMetrics) RecordReplacement(ctx context.Context, eventType string, candidateCount int) {
	attrs := []attribute.KeyValue{
		attribute.String("event_type", eventType),
		attribute.Int("candidates", candidateCount),
	}
	m.replacements.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *otelMetrics) RecordTriggerEnqueued(ctx context.Context, eventType string, queueLength int) {
	attrs := []attribute.KeyValue{attribute.String("event_type", eventType)}
	m.triggerQueue.Record(ctx, int64(queueLength), metric.WithAttributes(attrs...))
}

func (m *otelMetrics) RecordDispatcherSend(ctx context.Context, signal string, handlerCount int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("signal", signal),
		attribute.Int("handlers", handlerCount),
	}
	m.dispatcherSend.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchLat.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
