package event

import (
	"context"
	"fmt"
	"reflect"

	"github.com/randalmurphal/eventmap/pkg/eventmap/container"
	"github.com/randalmurphal/eventmap/pkg/eventmap/internal/reflectcall"
)

// ListenerFunc is the plain callable form of a listener.
// It receives the event payload spread as arguments.
type ListenerFunc func(ctx context.Context, payload ...any) error

// Handler is an invokable listener instance.
type Handler interface {
	Handle(ctx context.Context, payload ...any) error
}

// Ref references a listener bound in a container by id.
// With an empty Method the bound value itself must be a Handler.
// Instances are resolved when the listener first runs, not at Listen time.
type Ref struct {
	Class  string
	Method string
}

// String returns the listener identity, "Class::Method" or "Class".
func (r Ref) String() string {
	if r.Method == "" {
		return r.Class
	}
	return r.Class + "::" + r.Method
}

// Listener is a resolved listener as stored by the dispatcher.
// evt is the dispatched event, payload the arguments derived from it.
type Listener func(ctx context.Context, evt any, payload []any) error

// ListenerFactory turns listener references into callables.
type ListenerFactory interface {
	Create(eventName string, ref any) (Listener, error)
}

// Subscription is one listener registration declared by a Subscriber.
type Subscription struct {
	Event    string
	Listener any
	Options  []ListenOption
}

// Subscriber groups several listener registrations.
type Subscriber interface {
	Subscriptions() []Subscription
}

// eventListener receives the event value rather than its payload.
type eventListener interface {
	handleEvent(ctx context.Context, evt any) error
}

type typedListener[E any] struct {
	fn func(context.Context, E) error
}

func (l typedListener[E]) handleEvent(ctx context.Context, evt any) error {
	e, ok := evt.(E)
	if !ok {
		return &InvalidListenerError{
			Event:    NameOf(evt),
			Listener: fmt.Sprintf("func(context.Context, %s) error", reflect.TypeFor[E]()),
			Reason:   fmt.Sprintf("cannot accept %T", evt),
		}
	}
	return l.fn(ctx, e)
}

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
	handlerType = reflect.TypeFor[Handler]()
)

// DefaultFactory resolves closures, Handlers, and container Refs.
// Any other func whose first parameter is a context.Context and that
// returns only an error is called reflectively with the payload.
type DefaultFactory struct {
	container *container.Container
}

// NewFactory creates a DefaultFactory. The container may be nil, in
// which case Ref listeners are rejected.
func NewFactory(c *container.Container) *DefaultFactory {
	return &DefaultFactory{container: c}
}

// Create implements ListenerFactory.
func (f *DefaultFactory) Create(eventName string, ref any) (Listener, error) {
	switch l := ref.(type) {
	case nil:
		return nil, &InvalidListenerError{Event: eventName, Listener: "<nil>", Reason: "listener is nil"}
	case eventListener:
		return func(ctx context.Context, evt any, _ []any) error {
			return l.handleEvent(ctx, evt)
		}, nil
	case ListenerFunc:
		return func(ctx context.Context, _ any, payload []any) error {
			return l(ctx, payload...)
		}, nil
	case func(context.Context, ...any) error:
		return func(ctx context.Context, _ any, payload []any) error {
			return l(ctx, payload...)
		}, nil
	case Handler:
		return func(ctx context.Context, _ any, payload []any) error {
			return l.Handle(ctx, payload...)
		}, nil
	case Ref:
		return f.createRef(eventName, l)
	case *Ref:
		if l == nil {
			return nil, &InvalidListenerError{Event: eventName, Listener: "<nil>", Reason: "listener is nil"}
		}
		return f.createRef(eventName, *l)
	}

	fn := reflect.ValueOf(ref)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, &InvalidListenerError{
			Event:    eventName,
			Listener: fmt.Sprintf("%T", ref),
			Reason:   "unsupported listener type",
		}
	}
	if !callable(fn.Type(), 0) {
		return nil, &InvalidListenerError{
			Event:    eventName,
			Listener: fmt.Sprintf("%T", ref),
			Reason:   "func must take a context.Context first and return error",
		}
	}
	name := fmt.Sprintf("%T", ref)
	return func(ctx context.Context, _ any, payload []any) error {
		return call(ctx, eventName, name, fn, payload)
	}, nil
}

func (f *DefaultFactory) createRef(eventName string, ref Ref) (Listener, error) {
	invalid := func(reason string) error {
		return &InvalidListenerError{Event: eventName, Listener: ref.String(), Reason: reason}
	}

	if f.container == nil {
		return nil, invalid("no container configured")
	}
	typ, ok := f.container.TypeOf(ref.Class)
	if !ok {
		return nil, invalid("class is not bound")
	}

	if ref.Method == "" {
		if !typ.Implements(handlerType) {
			return nil, invalid(fmt.Sprintf("%s does not implement Handler", typ))
		}
		return func(ctx context.Context, _ any, payload []any) error {
			instance, err := f.container.Get(ref.Class)
			if err != nil {
				return err
			}
			return instance.(Handler).Handle(ctx, payload...)
		}, nil
	}

	method, ok := typ.MethodByName(ref.Method)
	if !ok {
		return nil, invalid(fmt.Sprintf("%s has no method %s", typ, ref.Method))
	}
	// method.Type includes the receiver unless typ is an interface.
	skip := 1
	if typ.Kind() == reflect.Interface {
		skip = 0
	}
	if !callable(method.Type, skip) {
		return nil, invalid("method must take a context.Context first and return error")
	}

	name := ref.String()
	return func(ctx context.Context, _ any, payload []any) error {
		instance, err := f.container.Get(ref.Class)
		if err != nil {
			return err
		}
		return call(ctx, eventName, name, reflect.ValueOf(instance).MethodByName(ref.Method), payload)
	}, nil
}

// callable reports whether fn, ignoring its first skip parameters, looks
// like func(context.Context, ...) error.
func callable(fn reflect.Type, skip int) bool {
	return fn.NumIn() > skip &&
		fn.In(skip) == contextType &&
		fn.NumOut() == 1 &&
		fn.Out(0) == errorType
}

func call(ctx context.Context, eventName, listener string, fn reflect.Value, payload []any) error {
	args, err := reflectcall.Args(fn.Type(), 1, payload)
	if err != nil {
		return &InvalidListenerError{
			Event:    eventName,
			Listener: listener,
			Reason:   "cannot be called with " + reflectcall.Describe(payload),
			Err:      err,
		}
	}

	out := fn.Call(append([]reflect.Value{reflect.ValueOf(&ctx).Elem()}, args...))
	if res := out[0].Interface(); res != nil {
		return res.(error)
	}
	return nil
}
