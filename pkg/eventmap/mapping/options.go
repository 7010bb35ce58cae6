package mapping

import (
	"log/slog"

	"github.com/randalmurphal/eventmap/pkg/eventmap/observability"
)

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger. Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) {
		m.logger = observability.EnrichLogger(logger, "mapper")
	}
}

// WithEventFactory replaces the ReflectFactory.
func WithEventFactory(f EventFactory) Option {
	return func(m *Mapper) {
		if f != nil {
			m.factory = f
		}
	}
}

// WithMetrics enables OpenTelemetry hook metrics.
func WithMetrics(enabled bool) Option {
	return func(m *Mapper) {
		if enabled {
			m.metrics = observability.NewMetricsRecorder()
		} else {
			m.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(r observability.MetricsRecorder) Option {
	return func(m *Mapper) {
		if r != nil {
			m.metrics = r
		}
	}
}

// WithTracing enables an OpenTelemetry span per mapped hook firing.
func WithTracing(enabled bool) Option {
	return func(m *Mapper) {
		if enabled {
			m.spans = observability.NewSpanManager()
		} else {
			m.spans = observability.NoopSpanManager{}
		}
	}
}

// MapOption configures a single Map call.
type MapOption func(*mapConfig)

type mapConfig struct {
	priority int
}

// WithPriority sets the host priority. Default: hook.DefaultPriority
func WithPriority(priority int) MapOption {
	return func(c *mapConfig) {
		c.priority = priority
	}
}
