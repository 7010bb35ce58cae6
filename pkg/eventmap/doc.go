// Package eventmap wires an event dispatcher, a hook registry, an event
// mapper, and a middleware stack into one Kernel.
//
// An application configures the kernel while booting: it registers
// listeners, maps hooks to events, and defines middleware groups. Boot
// then seals the configuration.
//
// # Quick Start
//
//	k, err := eventmap.New(eventmap.WithConfigFile("eventmap.yaml"))
//	if err != nil {
//	    return err
//	}
//	defer k.Close()
//
//	event.Listen(k.Events(), func(ctx context.Context, e *PostSaved) error {
//	    return index(ctx, e.PostID)
//	})
//	if err := k.Map("save_post", NewPostSaved); err != nil {
//	    return err
//	}
//	k.Boot()
//
//	// Later, from the hook system:
//	k.Hooks().DoAction(ctx, "save_post", 42)
//
// # Configuration
//
// The config file may carry a middleware section (see middleware.FromConfig)
// and an events section:
//
//	events:
//	  journal: sqlite:./events.db   # or "memory"; omit to disable
//
// # Subpackages
//
//   - event: dispatcher, listeners, wildcards
//   - event/eventtest: a faking dispatcher with assertions
//   - hook: priority-ordered action and filter hooks
//   - mapping: hooks to typed events
//   - middleware: route middleware resolution
//   - journal: recorded dispatches (memory, SQLite)
//   - container: service lookup for class-and-method listeners
//   - config: YAML and JSON configuration
//   - observability: logging, metrics, tracing
package eventmap
