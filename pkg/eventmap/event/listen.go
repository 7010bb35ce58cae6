package event

import (
	"context"
	"reflect"
)

// Listen registers fn for the event type E. The event name is derived
// from E; when E is an interface, fn runs for every dispatched event whose
// type implements it.
//
// Example:
//
//	id, err := event.Listen(d, func(ctx context.Context, e *UserRegistered) error {
//	    return mailer.Welcome(ctx, e.Email)
//	})
func Listen[E any](d Dispatcher, fn func(context.Context, E) error, opts ...ListenOption) (string, error) {
	if fn == nil {
		return "", &InvalidListenerError{
			Event:    NameFor[E](),
			Listener: "<nil>",
			Reason:   "listener is nil",
		}
	}
	return ListenRef[E](d, typedListener[E]{fn: fn}, opts...)
}

// ListenRef registers any listener reference for the event type E.
func ListenRef[E any](d Dispatcher, listener any, opts ...ListenOption) (string, error) {
	t := reflect.TypeFor[E]()
	if t.Kind() == reflect.Interface {
		opts = append(opts[:len(opts):len(opts)], onInterface(t))
	}
	return d.Listen(nameForType(t), listener, opts...)
}
