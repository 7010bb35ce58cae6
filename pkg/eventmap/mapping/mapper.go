// Package mapping binds hooks of a hook.Host to typed events.
//
// When a mapped hook fires, the mapper builds the event from the hook's
// arguments through its constructor, dispatches it, and for filter hooks
// hands the event's FilterableAttribute back to the host.
//
//	type PostSaved struct {
//	    mapping.Action
//	    PostID int
//	}
//
//	func NewPostSaved(id int) *PostSaved { return &PostSaved{PostID: id} }
//
//	m := mapping.NewMapper(registry, dispatcher)
//	err := m.Map("save_post", NewPostSaved)
//
// MapFirst and MapLast pin the mapped dispatch before or after every
// other callback on the hook.
package mapping

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/randalmurphal/eventmap/pkg/eventmap/event"
	"github.com/randalmurphal/eventmap/pkg/eventmap/hook"
	"github.com/randalmurphal/eventmap/pkg/eventmap/internal/reflectcall"
	"github.com/randalmurphal/eventmap/pkg/eventmap/observability"
)

// Kind distinguishes action and filter mappings.
type Kind int

const (
	KindAction Kind = iota
	KindFilter
)

// String returns "action" or "filter".
func (k Kind) String() string {
	if k == KindFilter {
		return "filter"
	}
	return "action"
}

// Position records how a mapping was placed on its hook.
type Position int

const (
	PositionPriority Position = iota
	PositionFirst
	PositionLast
)

// Mapping describes one mapped (hook, event type) pair.
type Mapping struct {
	Hook      string
	EventType string
	Kind      Kind
	Position  Position
	// Priority is the host priority of the registered callback. For
	// PositionLast it is the priority of the re-registering callback.
	Priority int
}

type mappingKey struct {
	hook string
	typ  reflect.Type
}

// target is a validated constructor.
type target struct {
	ctor     any
	typ      reflect.Type
	name     string
	kind     Kind
	params   int
	accepted int
}

// Mapper maps hooks to events.
type Mapper struct {
	host       hook.Host
	dispatcher event.Dispatcher
	factory    EventFactory
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
	spans      observability.SpanManager

	mu       sync.Mutex
	mapped   map[mappingKey]struct{}
	mappings []Mapping
}

// NewMapper creates a mapper that registers on host and dispatches
// through d.
func NewMapper(host hook.Host, d event.Dispatcher, opts ...Option) *Mapper {
	m := &Mapper{
		host:       host,
		dispatcher: d,
		factory:    ReflectFactory{},
		logger:     observability.EnrichLogger(slog.Default(), "mapper"),
		metrics:    observability.NoopMetrics{},
		spans:      observability.NoopSpanManager{},
		mapped:     make(map[mappingKey]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map registers ctor on hookName at the default priority or the one given
// by WithPriority. ctor is a func returning the event, optionally with an
// error; the event must implement exactly one of MappedAction and
// MappedFilter.
func (m *Mapper) Map(hookName string, ctor any, opts ...MapOption) error {
	cfg := mapConfig{priority: hook.DefaultPriority}
	for _, opt := range opts {
		opt(&cfg)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.validate(hookName, ctor)
	if err != nil {
		return err
	}

	m.host.Add(hookName, m.callback(hookName, t), cfg.priority, t.accepted)
	m.register(hookName, t, PositionPriority, cfg.priority)
	return nil
}

// MapFirst registers ctor so its dispatch runs before every other callback
// on hookName, including ones registered later. Callbacks already at
// hook.MinPriority are moved to the front of the next priority.
func (m *Mapper) MapFirst(hookName string, ctor any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.validate(hookName, ctor)
	if err != nil {
		return err
	}
	if m.host.IsFiring(hookName) {
		return &MapFirstAfterFireError{Hook: hookName, EventType: t.name}
	}

	var bumped []hook.CallbackID
	for _, reg := range m.host.Callbacks(hookName) {
		if reg.Priority == hook.MinPriority {
			bumped = append(bumped, reg.ID)
		}
	}
	// Moved in reverse so they keep their order ahead of the callbacks
	// already at the next priority.
	for i := len(bumped) - 1; i >= 0; i-- {
		if err := m.host.SetPriorityFirst(hookName, bumped[i], hook.MinPriority+1); err != nil {
			return fmt.Errorf("map first %s: %w", hookName, err)
		}
	}

	m.host.Add(hookName, m.callback(hookName, t), hook.MinPriority, t.accepted)
	m.register(hookName, t, PositionFirst, hook.MinPriority)
	return nil
}

// MapLast registers ctor so its dispatch runs after every other callback
// on hookName, including ones added after this call. A callback at
// hook.MaxPriority-1 adds the dispatch at hook.MaxPriority each time the
// hook fires.
func (m *Mapper) MapLast(hookName string, ctor any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.validate(hookName, ctor)
	if err != nil {
		return err
	}

	dispatch := m.callback(hookName, t)

	// pending is the dispatch added by the last firing. It is still
	// registered when that firing aborted before reaching it.
	var (
		pendingMu sync.Mutex
		pending   hook.CallbackID
	)
	trampoline := func(_ context.Context, args ...any) (any, error) {
		pendingMu.Lock()
		defer pendingMu.Unlock()
		if pending != "" {
			m.host.Remove(hookName, pending)
		}

		var id hook.CallbackID
		id = m.host.Add(hookName, func(ctx context.Context, args ...any) (any, error) {
			pendingMu.Lock()
			if pending == id {
				pending = ""
			}
			pendingMu.Unlock()
			m.host.Remove(hookName, id)
			return dispatch(ctx, args...)
		}, hook.MaxPriority, t.accepted)
		pending = id

		if len(args) > 0 {
			return args[0], nil
		}
		return nil, nil
	}

	m.host.Add(hookName, trampoline, hook.MaxPriority-1, hook.AllArgs)
	m.register(hookName, t, PositionLast, hook.MaxPriority-1)
	return nil
}

// Mappings lists everything mapped so far, in mapping order.
func (m *Mapper) Mappings() []Mapping {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Mapping, len(m.mappings))
	copy(out, m.mappings)
	return out
}

// validate checks ctor and the duplicate rule. Callers hold m.mu.
func (m *Mapper) validate(hookName string, ctor any) (target, error) {
	fn := reflect.ValueOf(ctor)
	if ctor == nil || fn.Kind() != reflect.Func || fn.IsNil() {
		return target{}, &InvalidMappedEventError{
			Hook:      hookName,
			EventType: fmt.Sprintf("%T", ctor),
			Reason:    "constructor must be a func",
		}
	}

	ft := fn.Type()
	if ft.NumOut() == 0 || ft.NumOut() > 2 || (ft.NumOut() == 2 && ft.Out(1) != errorType) {
		return target{}, &InvalidMappedEventError{
			Hook:      hookName,
			EventType: ft.String(),
			Reason:    "constructor must return the event and optionally an error",
		}
	}

	typ := ft.Out(0)
	t := target{ctor: ctor, typ: typ, name: event.TypeName(typ), params: ft.NumIn(), accepted: ft.NumIn()}
	if ft.IsVariadic() {
		t.params = hook.AllArgs
		t.accepted = hook.AllArgs
	}

	isAction, isFilter := typ.Implements(actionType), typ.Implements(filterType)
	switch {
	case isAction && isFilter:
		return target{}, &InvalidMappedEventError{Hook: hookName, EventType: t.name, Reason: "implements both MappedAction and MappedFilter"}
	case isAction:
		t.kind = KindAction
	case isFilter:
		t.kind = KindFilter
	default:
		return target{}, &InvalidMappedEventError{Hook: hookName, EventType: t.name, Reason: "implements neither MappedAction nor MappedFilter"}
	}

	// Filters always need the filtered value to pass it through.
	if t.kind == KindFilter && t.accepted == 0 {
		t.accepted = 1
	}

	if _, ok := m.mapped[mappingKey{hook: hookName, typ: typ}]; ok {
		return target{}, &DuplicateMappingError{Hook: hookName, EventType: t.name}
	}
	return t, nil
}

// register records a successful mapping. Callers hold m.mu.
func (m *Mapper) register(hookName string, t target, pos Position, priority int) {
	m.mapped[mappingKey{hook: hookName, typ: t.typ}] = struct{}{}
	m.mappings = append(m.mappings, Mapping{
		Hook:      hookName,
		EventType: t.name,
		Kind:      t.kind,
		Position:  pos,
		Priority:  priority,
	})
	observability.LogHookMapped(m.logger, hookName, t.name, priority)
}

// callback returns the host callback that builds and dispatches the event.
func (m *Mapper) callback(hookName string, t target) hook.Callback {
	return func(ctx context.Context, args ...any) (any, error) {
		spanCtx, span := m.spans.StartHookSpan(ctx, hookName, t.name)
		result, dispatched, err := m.fire(spanCtx, hookName, t, args)
		m.spans.EndSpanWithError(span, err)

		m.metrics.RecordHookFire(ctx, hookName, dispatched, err)
		if err != nil {
			observability.LogHookError(m.logger, hookName, err)
		} else {
			observability.LogHookFired(m.logger, hookName, t.name, dispatched)
		}
		return result, err
	}
}

func (m *Mapper) fire(ctx context.Context, hookName string, t target, args []any) (any, bool, error) {
	var passthrough any
	if t.kind == KindFilter && len(args) > 0 {
		passthrough = args[0]
	}

	ctorArgs := args
	if t.params >= 0 && len(ctorArgs) > t.params {
		ctorArgs = ctorArgs[:t.params]
	}

	evt, err := m.factory.Create(t.ctor, ctorArgs)
	if err != nil {
		return passthrough, false, &CantCreateMappedEventError{
			Hook:      hookName,
			EventType: t.name,
			Received:  reflectcall.TypeNames(args),
			Err:       err,
		}
	}

	if cond, ok := evt.(DispatchConditionally); ok && !cond.ShouldDispatch() {
		return passthrough, false, nil
	}

	evt, err = m.dispatcher.Dispatch(ctx, evt)
	if err != nil {
		return passthrough, true, err
	}

	if t.kind == KindFilter {
		return evt.(MappedFilter).FilterableAttribute(), true, nil
	}
	return nil, true, nil
}

var errorType = reflect.TypeFor[error]()
