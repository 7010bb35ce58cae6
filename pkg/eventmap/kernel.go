package eventmap

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/randalmurphal/eventmap/pkg/eventmap/config"
	"github.com/randalmurphal/eventmap/pkg/eventmap/event"
	"github.com/randalmurphal/eventmap/pkg/eventmap/hook"
	"github.com/randalmurphal/eventmap/pkg/eventmap/journal"
	"github.com/randalmurphal/eventmap/pkg/eventmap/mapping"
	"github.com/randalmurphal/eventmap/pkg/eventmap/middleware"
	"github.com/randalmurphal/eventmap/pkg/eventmap/observability"
)

// Kernel owns the components of an application's event layer.
type Kernel struct {
	logger     *slog.Logger
	events     *event.DefaultDispatcher
	hooks      *hook.Registry
	mapper     *mapping.Mapper
	middleware *middleware.Stack
	journal    journal.Store

	mu     sync.Mutex
	booted bool
}

// New creates a kernel. Configuration errors (an unreadable config file,
// a malformed middleware section, an unknown journal store) are returned
// before any component is used.
func New(opts ...Option) (*Kernel, error) {
	cfg := defaultKernelConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.configFile != "" {
		loaded, err := config.FromFile(cfg.configFile)
		if err != nil {
			return nil, err
		}
		cfg.cfg = loaded
	}

	store := cfg.journal
	if store == nil {
		opened, err := journal.Open(cfg.cfg.String("events.journal", ""))
		if err != nil {
			return nil, fmt.Errorf("events.journal: %w", err)
		}
		store = opened
	}

	stack, err := middleware.FromConfig(cfg.cfg,
		middleware.WithLogger(cfg.logger),
		middleware.WithMetrics(cfg.metrics),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	dispatcherOpts := []event.Option{
		event.WithLogger(cfg.logger),
		event.WithMetrics(cfg.metrics),
		event.WithTracing(cfg.tracing),
	}
	if store != nil {
		dispatcherOpts = append(dispatcherOpts, event.WithJournal(store))
	}
	if cfg.container != nil {
		dispatcherOpts = append(dispatcherOpts, event.WithContainer(cfg.container))
	}
	events := event.NewDispatcher(dispatcherOpts...)

	hooks := hook.NewRegistry()
	mapper := mapping.NewMapper(hooks, events,
		mapping.WithLogger(cfg.logger),
		mapping.WithMetrics(cfg.metrics),
		mapping.WithTracing(cfg.tracing),
	)

	return &Kernel{
		logger:     observability.EnrichLogger(cfg.logger, "kernel"),
		events:     events,
		hooks:      hooks,
		mapper:     mapper,
		middleware: stack,
		journal:    store,
	}, nil
}

// Events returns the dispatcher.
func (k *Kernel) Events() *event.DefaultDispatcher { return k.events }

// Hooks returns the hook registry mapped hooks are registered on.
func (k *Kernel) Hooks() *hook.Registry { return k.hooks }

// Mapper returns the event mapper.
func (k *Kernel) Mapper() *mapping.Mapper { return k.mapper }

// Middleware returns the middleware stack.
func (k *Kernel) Middleware() *middleware.Stack { return k.middleware }

// Journal returns the dispatch journal, or nil when none is configured.
func (k *Kernel) Journal() journal.Store { return k.journal }

// Map maps hookName to the event built by ctor. See mapping.Mapper.Map.
func (k *Kernel) Map(hookName string, ctor any, opts ...mapping.MapOption) error {
	if err := k.checkBooting(); err != nil {
		return err
	}
	return k.mapper.Map(hookName, ctor, opts...)
}

// MapFirst maps hookName so the event is dispatched before any other
// callback on the hook.
func (k *Kernel) MapFirst(hookName string, ctor any) error {
	if err := k.checkBooting(); err != nil {
		return err
	}
	return k.mapper.MapFirst(hookName, ctor)
}

// MapLast maps hookName so the event is dispatched after every other
// callback on the hook.
func (k *Kernel) MapLast(hookName string, ctor any) error {
	if err := k.checkBooting(); err != nil {
		return err
	}
	return k.mapper.MapLast(hookName, ctor)
}

func (k *Kernel) checkBooting() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.booted {
		return ErrBooted
	}
	return nil
}

// Boot ends the boot phase: the middleware stack is sealed and later Map
// calls fail with ErrBooted. Calling Boot again has no effect.
func (k *Kernel) Boot() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.booted {
		return
	}
	k.booted = true
	k.middleware.Seal()
	observability.LogBooted(k.logger, len(k.mapper.Mappings()), len(k.middleware.Groups()))
}

// Booted reports whether Boot was called.
func (k *Kernel) Booted() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.booted
}

// Close closes the journal, if any.
func (k *Kernel) Close() error {
	if k.journal == nil {
		return nil
	}
	return k.journal.Close()
}
