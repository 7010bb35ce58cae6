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

// MetricsRecorder records eventmap metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordDispatch records one dispatch with the number of listeners that ran.
	RecordDispatch(ctx context.Context, eventName string, listeners int, duration time.Duration, err error)

	// RecordHookFire records a mapped hook firing.
	RecordHookFire(ctx context.Context, hook string, dispatched bool, err error)

	// RecordMiddlewareStack records the size of a resolved middleware list.
	RecordMiddlewareStack(ctx context.Context, size int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	dispatches      metric.Int64Counter
	dispatchLatency metric.Float64Histogram
	listenerErrors  metric.Int64Counter
	hookFires       metric.Int64Counter
	middlewareSize  metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventmap")

	dispatches, err := meter.Int64Counter("eventmap.dispatch.count",
		metric.WithDescription("Number of dispatched events"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("eventmap.dispatch.latency_ms",
		metric.WithDescription("Dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	listenerErrors, err := meter.Int64Counter("eventmap.listener.errors",
		metric.WithDescription("Number of dispatches aborted by a listener error"),
	)
	if err != nil {
		return nil, err
	}

	hookFires, err := meter.Int64Counter("eventmap.hook.fires",
		metric.WithDescription("Number of mapped hook firings"),
	)
	if err != nil {
		return nil, err
	}

	middlewareSize, err := meter.Int64Histogram("eventmap.middleware.size",
		metric.WithDescription("Number of middleware in a resolved stack"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		dispatches:      dispatches,
		dispatchLatency: dispatchLatency,
		listenerErrors:  listenerErrors,
		hookFires:       hookFires,
		middlewareSize:  middlewareSize,
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
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordDispatch records a dispatch.
func (m *otelMetrics) RecordDispatch(ctx context.Context, eventName string, listeners int, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("event", eventName),
		attribute.Bool("has_listeners", listeners > 0),
	)

	m.dispatches.Add(ctx, 1, attrs)
	m.dispatchLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)

	if err != nil {
		m.listenerErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("event", eventName)))
	}
}

// RecordHookFire records a mapped hook firing.
func (m *otelMetrics) RecordHookFire(ctx context.Context, hook string, dispatched bool, err error) {
	m.hookFires.Add(ctx, 1, metric.WithAttributes(
		attribute.String("hook", hook),
		attribute.Bool("dispatched", dispatched),
		attribute.Bool("error", err != nil),
	))
}

// RecordMiddlewareStack records a resolved middleware stack size.
func (m *otelMetrics) RecordMiddlewareStack(ctx context.Context, size int) {
	m.middlewareSize.Record(ctx, int64(size))
}
