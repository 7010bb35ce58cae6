// Package observability provides logging, metrics, and tracing for
// eventmap: event dispatch, hook firing, and middleware resolution.
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

// EnrichLogger adds the component name to a logger.
//
// Example:
//
//	logger := EnrichLogger(slog.Default(), "mapper")
//	logger.Info("mapped") // includes component=mapper
func EnrichLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

// LogDispatch logs a completed dispatch.
func LogDispatch(logger *slog.Logger, eventName string, listeners int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("event dispatched",
		slog.String("event", eventName),
		slog.Int("listeners", listeners),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogListenerFailed logs a listener returning an error.
func LogListenerFailed(logger *slog.Logger, eventName, listenerID string, err error) {
	if logger == nil {
		return
	}
	logger.Error("listener failed",
		slog.String("event", eventName),
		slog.String("listener", listenerID),
		slog.String("error", err.Error()),
	)
}

// LogJournalError logs a failed journal append (non-fatal).
func LogJournalError(logger *slog.Logger, eventName string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal append failed",
		slog.String("event", eventName),
		slog.String("error", err.Error()),
	)
}

// LogHookMapped logs a hook being mapped to an event type.
func LogHookMapped(logger *slog.Logger, hook, eventType string, priority int) {
	if logger == nil {
		return
	}
	logger.Info("hook mapped",
		slog.String("hook", hook),
		slog.String("event_type", eventType),
		slog.Int("priority", priority),
	)
}

// LogHookFired logs a mapped hook firing.
// dispatched is false when the event declined to be dispatched.
func LogHookFired(logger *slog.Logger, hook, eventType string, dispatched bool) {
	if logger == nil {
		return
	}
	logger.Debug("mapped hook fired",
		slog.String("hook", hook),
		slog.String("event_type", eventType),
		slog.Bool("dispatched", dispatched),
	)
}

// LogHookError logs a mapped hook that could not be turned into an event.
func LogHookError(logger *slog.Logger, hook string, err error) {
	if logger == nil {
		return
	}
	logger.Error("mapped hook failed",
		slog.String("hook", hook),
		slog.String("error", err.Error()),
	)
}

// LogMiddlewareResolved logs the resolved middleware list for a route.
func LogMiddlewareResolved(logger *slog.Logger, route string, middleware []string) {
	if logger == nil {
		return
	}
	logger.Debug("middleware resolved",
		slog.String("route", route),
		slog.Any("middleware", middleware),
	)
}

// LogBooted logs the kernel finishing its boot phase.
func LogBooted(logger *slog.Logger, mappings, groups int) {
	if logger == nil {
		return
	}
	logger.Info("kernel booted",
		slog.Int("mappings", mappings),
		slog.Int("middleware_groups", groups),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
