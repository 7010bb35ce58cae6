package event

import (
	"reflect"
	"sync"
)

// Named is implemented by events that choose their own name.
// Events without a Name method are named by their Go type.
type Named interface {
	Name() string
}

// Payloader is implemented by events that hand listeners an explicit
// argument list instead of the event value itself.
type Payloader interface {
	Payload() []any
}

// Stoppable is implemented by events whose propagation can be halted.
type Stoppable interface {
	IsPropagationStopped() bool
}

// Propagation is embedded in event structs to make them Stoppable.
// Events embedding it must be dispatched by pointer.
type Propagation struct {
	stopped bool
}

// StopPropagation prevents the remaining listeners from running.
func (p *Propagation) StopPropagation() {
	p.stopped = true
}

// IsPropagationStopped implements Stoppable.
func (p *Propagation) IsPropagationStopped() bool {
	return p.stopped
}

// GenericEvent is an event identified by a plain string name.
// Listeners receive Args spread as their payload.
type GenericEvent struct {
	EventName string
	Args      []any
}

// NewGeneric creates a GenericEvent.
func NewGeneric(name string, args ...any) GenericEvent {
	return GenericEvent{EventName: name, Args: args}
}

// Name implements Named.
func (e GenericEvent) Name() string {
	return e.EventName
}

// Payload implements Payloader.
func (e GenericEvent) Payload() []any {
	return e.Args
}

// NameOf returns the name an event is dispatched under.
func NameOf(evt any) string {
	if n, ok := evt.(Named); ok {
		return n.Name()
	}
	return TypeName(reflect.TypeOf(evt))
}

// PayloadOf returns the arguments listeners receive for an event.
func PayloadOf(evt any) []any {
	if p, ok := evt.(Payloader); ok {
		return p.Payload()
	}
	return []any{evt}
}

// NameFor returns the event name for the Go type E. Interface types are
// named by their qualified type name; concrete types honor Named.
func NameFor[E any]() string {
	return nameForType(reflect.TypeFor[E]())
}

func nameForType(t reflect.Type) string {
	if t.Kind() != reflect.Interface && t.Implements(namedType) {
		if t.Kind() == reflect.Pointer {
			return reflect.New(t.Elem()).Interface().(Named).Name()
		}
		return reflect.Zero(t).Interface().(Named).Name()
	}
	return TypeName(t)
}

// TypeName returns the qualified name of t with pointers stripped,
// e.g. "github.com/acme/users.UserRegistered".
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

var (
	namedType     = reflect.TypeFor[Named]()
	payloaderType = reflect.TypeFor[Payloader]()
	stoppableType = reflect.TypeFor[Stoppable]()
	genericType   = reflect.TypeFor[GenericEvent]()
)

var internal = struct {
	sync.RWMutex
	types map[reflect.Type]struct{}
}{
	types: map[reflect.Type]struct{}{
		namedType:     {},
		payloaderType: {},
		stoppableType: {},
	},
}

// MarkInternal excludes interface types from listener resolution.
// Marker interfaces describe how an event is handled rather than what
// it is, so listening on them is rejected.
func MarkInternal(types ...reflect.Type) {
	internal.Lock()
	defer internal.Unlock()
	for _, t := range types {
		internal.types[t] = struct{}{}
	}
}

// IsInternal reports whether t was marked with MarkInternal.
func IsInternal(t reflect.Type) bool {
	internal.RLock()
	defer internal.RUnlock()
	_, ok := internal.types[t]
	return ok
}
