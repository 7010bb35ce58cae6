// Package event dispatches events to registered listeners.
//
// # Events
//
// Any Go value can be dispatched. Its name is the result of Name() when it
// implements Named, otherwise its qualified type name with pointers
// stripped. Listeners receive Payload() when the event implements
// Payloader, otherwise the event value itself as the only argument.
// GenericEvent covers the plain string-plus-arguments case.
//
// Dispatch returns the event it was given, so listeners may mutate events
// dispatched by pointer and the caller observes the result:
//
//	evt, err := d.Dispatch(ctx, &PriceCalculated{Amount: 100})
//	price := evt.(*PriceCalculated).Amount
//
// # Listeners
//
// Listeners are registered under an event name:
//
//	d := event.NewDispatcher(event.WithContainer(c))
//
//	d.Listen("user.created", func(ctx context.Context, args ...any) error { ... })
//	d.Listen("user.created", event.Ref{Class: "mailer", Method: "Welcome"})
//
// or under a Go type, with the name inferred from the type parameter:
//
//	event.Listen(d, func(ctx context.Context, e *UserRegistered) error { ... })
//
// Registering a listener on an interface type makes it run for every event
// whose type implements the interface, through any depth of embedding.
// Marker interfaces such as Named, Stoppable, and those passed to
// MarkInternal are excluded.
//
// # Wildcards
//
// Names containing "*" are glob patterns: "user.*" matches "user.created"
// but not "admin.user". Wildcard listeners receive the concrete event name
// as their first argument, followed by the normal payload.
//
// # Ordering and errors
//
// Listeners run synchronously in registration order across direct,
// interface, and wildcard registrations. The first listener error aborts
// the dispatch and is returned wrapped in a *ListenerError. Panics are not
// recovered.
//
// # Thread Safety
//
// DefaultDispatcher is safe for concurrent use. Listeners may register
// further listeners or dispatch events re-entrantly.
package event
