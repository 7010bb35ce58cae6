package event

import (
	"cmp"
	"context"
	"encoding/json"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/eventmap/pkg/eventmap/container"
	"github.com/randalmurphal/eventmap/pkg/eventmap/journal"
	"github.com/randalmurphal/eventmap/pkg/eventmap/observability"
)

// Dispatcher registers listeners and dispatches events to them.
type Dispatcher interface {
	// Listen registers listener for an event name or wildcard pattern
	// and returns the listener identity. Registering an identity that is
	// already present for the name is a no-op.
	Listen(name string, listener any, opts ...ListenOption) (string, error)

	// Subscribe registers every subscription of s.
	Subscribe(s Subscriber) error

	// Remove deletes the listener with the given identity, or every
	// listener for name when id is empty.
	Remove(name, id string) error

	// Dispatch runs all listeners for evt in registration order and
	// returns evt itself.
	Dispatch(ctx context.Context, evt any) (any, error)

	// HasListeners reports whether name has direct or wildcard listeners.
	// Interface listeners depend on the event's Go type; use
	// HasListenersFor to include them.
	HasListeners(name string) bool

	// HasListenersFor reports whether dispatching evt would run anything,
	// interface listeners included.
	HasListenersFor(evt any) bool

	// ListenerIDs returns the identities registered directly for name.
	ListenerIDs(name string) []string
}

// entry is one registered listener.
type entry struct {
	id        string
	event     string
	seq       uint64
	removable bool
	wildcard  bool
	call      Listener
}

type cacheKey struct {
	name string
	typ  reflect.Type
}

// DefaultDispatcher is the standard Dispatcher implementation.
//
// Listeners resolve to the direct registrations for the event name, the
// registrations on every interface the event's type implements, and every
// wildcard pattern matching the name, ordered by registration.
type DefaultDispatcher struct {
	factory   ListenerFactory
	container *container.Container
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager
	journal   journal.Store

	mu         sync.RWMutex
	seq        uint64
	listeners  map[string][]*entry
	interfaces map[string]reflect.Type
	wildcards  map[string]*wildcard
	resolved   map[cacheKey][]*entry
	matches    map[string][]string
}

var _ Dispatcher = (*DefaultDispatcher)(nil)

// NewDispatcher creates a dispatcher.
func NewDispatcher(opts ...Option) *DefaultDispatcher {
	d := &DefaultDispatcher{
		logger:     observability.EnrichLogger(slog.Default(), "dispatcher"),
		metrics:    observability.NoopMetrics{},
		spans:      observability.NoopSpanManager{},
		listeners:  make(map[string][]*entry),
		interfaces: make(map[string]reflect.Type),
		wildcards:  make(map[string]*wildcard),
		resolved:   make(map[cacheKey][]*entry),
		matches:    make(map[string][]string),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.factory == nil {
		d.factory = NewFactory(d.container)
	}
	return d
}

// Listen implements Dispatcher.
func (d *DefaultDispatcher) Listen(name string, listener any, opts ...ListenOption) (string, error) {
	var cfg listenConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if name == "" {
		return "", &InvalidListenerError{Listener: describe(listener), Reason: "event name is empty"}
	}
	if cfg.iface != nil && IsInternal(cfg.iface) {
		return "", &InvalidListenerError{
			Event:    name,
			Listener: describe(listener),
			Reason:   "cannot listen on marker interface " + cfg.iface.String(),
		}
	}

	call, err := d.factory.Create(name, listener)
	if err != nil {
		return "", err
	}

	id := cfg.id
	if id == "" {
		id = identify(listener)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	e := &entry{
		id:        id,
		event:     name,
		seq:       d.seq,
		removable: !cfg.unremovable,
		call:      call,
	}

	if IsWildcard(name) {
		w, ok := d.wildcards[name]
		if !ok {
			re, err := CompilePattern(name)
			if err != nil {
				return "", &InvalidListenerError{Event: name, Listener: id, Reason: "bad pattern", Err: err}
			}
			w = &wildcard{re: re}
			d.wildcards[name] = w
			d.matches = make(map[string][]string)
		}
		if indexOf(w.entries, id) >= 0 {
			return id, nil
		}
		e.wildcard = true
		w.entries = append(w.entries, e)
	} else {
		if indexOf(d.listeners[name], id) >= 0 {
			return id, nil
		}
		d.listeners[name] = append(d.listeners[name], e)
		if cfg.iface != nil {
			d.interfaces[name] = cfg.iface
		}
	}

	d.resolved = make(map[cacheKey][]*entry)
	return id, nil
}

// Subscribe implements Dispatcher.
func (d *DefaultDispatcher) Subscribe(s Subscriber) error {
	for _, sub := range s.Subscriptions() {
		if _, err := d.Listen(sub.Event, sub.Listener, sub.Options...); err != nil {
			return err
		}
	}
	return nil
}

// Remove implements Dispatcher.
func (d *DefaultDispatcher) Remove(name, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var current []*entry
	if w, ok := d.wildcards[name]; ok {
		current = w.entries
	} else {
		current = d.listeners[name]
	}

	var remaining []*entry
	if id == "" {
		for _, e := range current {
			if !e.removable {
				return &CantRemoveListenerError{Event: name, Listener: e.id}
			}
		}
	} else {
		i := indexOf(current, id)
		if i < 0 {
			return nil
		}
		if !current[i].removable {
			return &CantRemoveListenerError{Event: name, Listener: id}
		}
		remaining = slices.Concat(current[:i], current[i+1:])
	}

	if w, ok := d.wildcards[name]; ok {
		if len(remaining) == 0 {
			delete(d.wildcards, name)
			d.matches = make(map[string][]string)
		} else {
			w.entries = remaining
		}
	} else if len(remaining) == 0 {
		delete(d.listeners, name)
		delete(d.interfaces, name)
	} else {
		d.listeners[name] = remaining
	}

	d.resolved = make(map[cacheKey][]*entry)
	return nil
}

// Dispatch implements Dispatcher.
//
// Listeners registered on a wildcard pattern receive the concrete event
// name as their first argument, followed by the normal payload.
//
// A listener error stops the dispatch and is returned as *ListenerError.
// If evt is Stoppable, listeners after the one that stopped propagation
// are skipped.
func (d *DefaultDispatcher) Dispatch(ctx context.Context, evt any) (any, error) {
	if evt == nil {
		return nil, ErrNilEvent
	}

	name := NameOf(evt)
	payload := PayloadOf(evt)
	entries := d.resolve(name, concreteType(evt))

	start := time.Now()
	done := observability.TimedOperation()

	spanCtx, span := d.spans.StartDispatchSpan(ctx, name)
	ran, err := d.run(spanCtx, name, evt, payload, entries)
	d.spans.EndSpanWithError(span, err)

	d.metrics.RecordDispatch(ctx, name, ran, time.Since(start), err)
	observability.LogDispatch(d.logger, name, ran, done())
	d.record(name, payload, ran)

	return evt, err
}

func (d *DefaultDispatcher) run(ctx context.Context, name string, evt any, payload []any, entries []*entry) (int, error) {
	stoppable, _ := evt.(Stoppable)

	ran := 0
	for _, e := range entries {
		if stoppable != nil && stoppable.IsPropagationStopped() {
			break
		}

		args := payload
		if e.wildcard {
			args = append([]any{name}, payload...)
		}

		if err := e.call(ctx, evt, args); err != nil {
			observability.LogListenerFailed(d.logger, name, e.id, err)
			return ran, &ListenerError{Event: name, Listener: e.id, Err: err}
		}
		ran++
	}
	return ran, nil
}

func (d *DefaultDispatcher) record(name string, payload []any, listeners int) {
	if d.journal == nil {
		return
	}
	// Payloads that cannot be encoded are journaled without a body.
	data, err := json.Marshal(payload)
	if err != nil {
		data = nil
	}
	if err := d.journal.Append(journal.NewEntry(name, data, listeners)); err != nil {
		observability.LogJournalError(d.logger, name, err)
	}
}

// HasListeners implements Dispatcher.
func (d *DefaultDispatcher) HasListeners(name string) bool {
	if IsWildcard(name) {
		d.mu.RLock()
		defer d.mu.RUnlock()
		w, ok := d.wildcards[name]
		return ok && len(w.entries) > 0
	}
	return len(d.resolve(name, nil)) > 0
}

// HasListenersFor implements Dispatcher.
func (d *DefaultDispatcher) HasListenersFor(evt any) bool {
	if evt == nil {
		return false
	}
	return len(d.resolve(NameOf(evt), concreteType(evt))) > 0
}

// ListenerIDs implements Dispatcher.
func (d *DefaultDispatcher) ListenerIDs(name string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	current := d.listeners[name]
	if w, ok := d.wildcards[name]; ok {
		current = w.entries
	}

	ids := make([]string, len(current))
	for i, e := range current {
		ids[i] = e.id
	}
	return ids
}

// resolve returns the ordered listener set for an event. typ is nil for
// events that skip interface resolution.
func (d *DefaultDispatcher) resolve(name string, typ reflect.Type) []*entry {
	key := cacheKey{name: name, typ: typ}

	d.mu.RLock()
	cached, ok := d.resolved[key]
	d.mu.RUnlock()
	if ok {
		return cached
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if cached, ok := d.resolved[key]; ok {
		return cached
	}

	resolved := slices.Clone(d.listeners[name])
	if typ != nil {
		for ifaceName, iface := range d.interfaces {
			if ifaceName == name || IsInternal(iface) {
				continue
			}
			if typ.Implements(iface) {
				resolved = append(resolved, d.listeners[ifaceName]...)
			}
		}
	}
	for _, pattern := range d.wildcardsFor(name) {
		resolved = append(resolved, d.wildcards[pattern].entries...)
	}

	slices.SortFunc(resolved, func(a, b *entry) int {
		return cmp.Compare(a.seq, b.seq)
	})
	d.resolved[key] = resolved
	return resolved
}

func concreteType(evt any) reflect.Type {
	switch evt.(type) {
	case GenericEvent, *GenericEvent:
		return nil
	}
	return reflect.TypeOf(evt)
}

func indexOf(entries []*entry, id string) int {
	return slices.IndexFunc(entries, func(e *entry) bool {
		return e.id == id
	})
}

// identify derives the identity of a listener reference. Only Refs have a
// stable identity; everything else gets a fresh one.
func identify(listener any) string {
	switch l := listener.(type) {
	case Ref:
		return l.String()
	case *Ref:
		return l.String()
	}
	return uuid.New().String()
}

func describe(listener any) string {
	switch l := listener.(type) {
	case nil:
		return "<nil>"
	case Ref:
		return l.String()
	case *Ref:
		if l != nil {
			return l.String()
		}
	}
	return reflect.TypeOf(listener).String()
}
