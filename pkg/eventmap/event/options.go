package event

import (
	"log/slog"
	"reflect"

	"github.com/randalmurphal/eventmap/pkg/eventmap/container"
	"github.com/randalmurphal/eventmap/pkg/eventmap/journal"
	"github.com/randalmurphal/eventmap/pkg/eventmap/observability"
)

// Option configures a DefaultDispatcher.
type Option func(*DefaultDispatcher)

// WithLogger sets the logger for dispatch diagnostics.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(d *DefaultDispatcher) {
		d.logger = observability.EnrichLogger(logger, "dispatcher")
	}
}

// WithMetrics enables OpenTelemetry dispatch metrics.
func WithMetrics(enabled bool) Option {
	return func(d *DefaultDispatcher) {
		if enabled {
			d.metrics = observability.NewMetricsRecorder()
		} else {
			d.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(d *DefaultDispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// WithTracing enables an OpenTelemetry span per dispatch.
func WithTracing(enabled bool) Option {
	return func(d *DefaultDispatcher) {
		if enabled {
			d.spans = observability.NewSpanManager()
		} else {
			d.spans = observability.NoopSpanManager{}
		}
	}
}

// WithJournal records every dispatch in store.
// Journal failures are logged and never fail a dispatch.
func WithJournal(store journal.Store) Option {
	return func(d *DefaultDispatcher) {
		d.journal = store
	}
}

// WithFactory replaces the listener factory.
func WithFactory(f ListenerFactory) Option {
	return func(d *DefaultDispatcher) {
		if f != nil {
			d.factory = f
		}
	}
}

// WithContainer uses c to resolve Ref listeners.
// Ignored when WithFactory is also given.
func WithContainer(c *container.Container) Option {
	return func(d *DefaultDispatcher) {
		d.container = c
	}
}

// ListenOption configures a single listener registration.
type ListenOption func(*listenConfig)

type listenConfig struct {
	id          string
	unremovable bool
	iface       reflect.Type
}

// WithID sets the listener identity used for deduplication and Remove.
func WithID(id string) ListenOption {
	return func(c *listenConfig) {
		c.id = id
	}
}

// WithUnremovable marks the listener so Remove refuses to delete it.
func WithUnremovable() ListenOption {
	return func(c *listenConfig) {
		c.unremovable = true
	}
}

func onInterface(t reflect.Type) ListenOption {
	return func(c *listenConfig) {
		c.iface = t
	}
}
