package eventmap

import (
	"log/slog"

	"github.com/randalmurphal/eventmap/pkg/eventmap/config"
	"github.com/randalmurphal/eventmap/pkg/eventmap/container"
	"github.com/randalmurphal/eventmap/pkg/eventmap/journal"
)

// kernelConfig holds construction options.
type kernelConfig struct {
	logger     *slog.Logger
	cfg        config.Config
	configFile string
	container  *container.Container
	journal    journal.Store
	metrics    bool
	tracing    bool
}

func defaultKernelConfig() kernelConfig {
	return kernelConfig{
		logger: slog.Default(),
		cfg:    config.New(nil),
	}
}

// Option configures a Kernel.
type Option func(*kernelConfig)

// WithLogger sets the logger handed to every component.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(c *kernelConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConfig supplies the middleware and events configuration.
func WithConfig(cfg config.Config) Option {
	return func(c *kernelConfig) {
		c.cfg = cfg
	}
}

// WithConfigFile loads configuration from a YAML or JSON file when the
// kernel is created. It overrides WithConfig.
func WithConfigFile(path string) Option {
	return func(c *kernelConfig) {
		c.configFile = path
	}
}

// WithContainer resolves class-and-method listeners from c.
func WithContainer(ctr *container.Container) Option {
	return func(c *kernelConfig) {
		c.container = ctr
	}
}

// WithJournal records dispatches in store, ignoring events.journal.
// The kernel closes store on Close.
func WithJournal(store journal.Store) Option {
	return func(c *kernelConfig) {
		c.journal = store
	}
}

// WithMetrics enables OpenTelemetry metrics in every component.
func WithMetrics(enabled bool) Option {
	return func(c *kernelConfig) {
		c.metrics = enabled
	}
}

// WithTracing enables OpenTelemetry spans for dispatches and hook firings.
func WithTracing(enabled bool) Option {
	return func(c *kernelConfig) {
		c.tracing = enabled
	}
}
