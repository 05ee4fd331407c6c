// Package observability provides production-grade observability features
// for the event-tree engine: structured logging, metrics, and distributed
// tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds event-tree context to a logger, returning a new logger
// with session and event-type fields attached.
//
// Example:
//
//	enriched := EnrichLogger(logger, "session-1", "DealDamage")
//	enriched.Info("resolving") // includes session_id, event_type
func EnrichLogger(logger *slog.Logger, sessionID, eventType string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("session_id", sessionID),
		slog.String("event_type", eventType),
	)
}

// LogEventStart logs the start of an event resolution.
func LogEventStart(logger *slog.Logger, eventType string, timeStamp int) {
	if logger == nil {
		return
	}
	logger.Debug("event resolving",
		slog.String("event_type", eventType),
		slog.Int("time_stamp", timeStamp),
	)
}

// LogEventLogged logs that an event reached the log phase and was assigned
// its permanent ordinal.
func LogEventLogged(logger *slog.Logger, eventType string, index int) {
	if logger == nil {
		return
	}
	logger.Debug("event logged",
		slog.String("event_type", eventType),
		slog.Int("index", index),
	)
}

// LogEventAborted logs that setup or check rejected an event before it was
// logged.
func LogEventAborted(logger *slog.Logger, eventType, phase string, err error) {
	if logger == nil {
		return
	}
	logger.Debug("event aborted",
		slog.String("event_type", eventType),
		slog.String("phase", phase),
		slog.String("reason", err.Error()),
	)
}

// LogEventReplaced logs that a replacement was chosen and applied in place
// of the original event.
func LogEventReplaced(logger *slog.Logger, eventType string, replacementCount int, chosenTimeStamp int) {
	if logger == nil {
		return
	}
	logger.Debug("event replaced",
		slog.String("event_type", eventType),
		slog.Int("candidates", replacementCount),
		slog.Int("chosen_time_stamp", chosenTimeStamp),
	)
}

// LogEventError logs an event that failed during payload or notification.
func LogEventError(logger *slog.Logger, eventType, phase string, err error) {
	if logger == nil {
		return
	}
	logger.Error("event failed",
		slog.String("event_type", eventType),
		slog.String("phase", phase),
		slog.String("error", err.Error()),
	)
}

// LogConditionConnected logs a condition connecting under its derived signal.
func LogConditionConnected(logger *slog.Logger, signal string, timeStamp int) {
	if logger == nil {
		return
	}
	logger.Debug("condition connected",
		slog.String("signal", signal),
		slog.Int("time_stamp", timeStamp),
	)
}

// LogConditionDisconnected logs a condition disconnecting.
func LogConditionDisconnected(logger *slog.Logger, signal string) {
	if logger == nil {
		return
	}
	logger.Debug("condition disconnected",
		slog.String("signal", signal),
	)
}

// LogTriggerEnqueued logs a Trigger firing and being appended to the
// session's trigger queue.
func LogTriggerEnqueued(logger *slog.Logger, eventType string, queueLength int) {
	if logger == nil {
		return
	}
	logger.Debug("trigger enqueued",
		slog.String("event_type", eventType),
		slog.Int("queue_length", queueLength),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in
// milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... resolve event ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
