package middleware

import (
	"log/slog"

	"github.com/randalmurphal/eventmap/pkg/eventmap/observability"
)

// Option configures a Stack.
type Option func(*Stack)

// WithLogger sets the logger. Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stack) {
		s.logger = observability.EnrichLogger(logger, "middleware")
	}
}

// WithMetrics enables OpenTelemetry stack size metrics.
func WithMetrics(enabled bool) Option {
	return func(s *Stack) {
		if enabled {
			s.metrics = observability.NewMetricsRecorder()
		} else {
			s.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(s *Stack) {
		if m != nil {
			s.metrics = m
		}
	}
}
