// Package eventtest provides a recording event.Dispatcher for tests.
//
// Dispatcher wraps a real dispatcher, records every dispatched event, and
// can suppress delivery for selected names:
//
//	d := eventtest.New(event.NewDispatcher())
//	d.Fake(eventtest.NameOf[*UserRegistered]())
//
//	svc := users.NewService(d)
//	svc.Register(ctx, "calvin@example.com")
//
//	d.AssertDispatched(t, eventtest.NameOf[*UserRegistered](), func(evt any) bool {
//	    return evt.(*UserRegistered).Address == "calvin@example.com"
//	})
package eventtest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/eventmap/pkg/eventmap/event"
)

// NameOf returns the name events of type E are dispatched under.
func NameOf[E any]() string {
	return event.NameFor[E]()
}

// Dispatcher records dispatched events and optionally fakes delivery.
// Listen, Subscribe, Remove, HasListeners, HasListenersFor, and ListenerIDs
// pass through to the wrapped dispatcher.
type Dispatcher struct {
	inner event.Dispatcher

	mu         sync.Mutex
	dispatched map[string][]any
	fakeAll    bool
	fake       []string
	except     []string
}

var _ event.Dispatcher = (*Dispatcher)(nil)

// New wraps inner. A nil inner gets a fresh event.DefaultDispatcher.
func New(inner event.Dispatcher) *Dispatcher {
	if inner == nil {
		inner = event.NewDispatcher()
	}
	return &Dispatcher{
		inner:      inner,
		dispatched: make(map[string][]any),
	}
}

// Fake suppresses delivery for the given names or glob patterns.
// Without arguments it behaves like FakeAll. Calls accumulate.
func (d *Dispatcher) Fake(names ...string) {
	if len(names) == 0 {
		d.FakeAll()
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fake = append(d.fake, names...)
}

// FakeExcept suppresses delivery for every event except the given names
// or glob patterns.
func (d *Dispatcher) FakeExcept(names ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fakeAll = true
	d.except = append(d.except, names...)
}

// FakeAll suppresses delivery for every event.
func (d *Dispatcher) FakeAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fakeAll = true
}

// Reset clears recorded events and all fake settings.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dispatched = make(map[string][]any)
	d.fakeAll = false
	d.fake = nil
	d.except = nil
}

// Listen implements event.Dispatcher.
func (d *Dispatcher) Listen(name string, listener any, opts ...event.ListenOption) (string, error) {
	return d.inner.Listen(name, listener, opts...)
}

// Subscribe implements event.Dispatcher.
func (d *Dispatcher) Subscribe(s event.Subscriber) error {
	return d.inner.Subscribe(s)
}

// Remove implements event.Dispatcher.
func (d *Dispatcher) Remove(name, id string) error {
	return d.inner.Remove(name, id)
}

// HasListeners implements event.Dispatcher.
func (d *Dispatcher) HasListeners(name string) bool {
	return d.inner.HasListeners(name)
}

// HasListenersFor implements event.Dispatcher.
func (d *Dispatcher) HasListenersFor(evt any) bool {
	return d.inner.HasListenersFor(evt)
}

// ListenerIDs implements event.Dispatcher.
func (d *Dispatcher) ListenerIDs(name string) []string {
	return d.inner.ListenerIDs(name)
}

// Dispatch records evt and delivers it unless its name is faked.
// Faked events are returned unchanged without running any listener.
func (d *Dispatcher) Dispatch(ctx context.Context, evt any) (any, error) {
	if evt == nil {
		return nil, event.ErrNilEvent
	}
	name := event.NameOf(evt)

	d.mu.Lock()
	d.dispatched[name] = append(d.dispatched[name], evt)
	faked := d.faked(name)
	d.mu.Unlock()

	if faked {
		return evt, nil
	}
	return d.inner.Dispatch(ctx, evt)
}

func (d *Dispatcher) faked(name string) bool {
	if matchesAny(d.except, name) {
		return false
	}
	return d.fakeAll || matchesAny(d.fake, name)
}

func matchesAny(patterns []string, name string) bool {
	return slices.ContainsFunc(patterns, func(p string) bool {
		return event.MatchPattern(p, name)
	})
}

// Dispatched returns the recorded events for name that satisfy every
// predicate, in dispatch order.
func (d *Dispatcher) Dispatched(name string, predicates ...func(evt any) bool) []any {
	d.mu.Lock()
	recorded := slices.Clone(d.dispatched[name])
	d.mu.Unlock()

	matched := make([]any, 0, len(recorded))
	for _, evt := range recorded {
		if matchesAll(evt, predicates) {
			matched = append(matched, evt)
		}
	}
	return matched
}

func matchesAll(evt any, predicates []func(any) bool) bool {
	for _, p := range predicates {
		if !p(evt) {
			return false
		}
	}
	return true
}

// AssertDispatched asserts that at least one event named name was
// dispatched and satisfied every predicate.
func (d *Dispatcher) AssertDispatched(t assert.TestingT, name string, predicates ...func(evt any) bool) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if len(d.Dispatched(name)) == 0 {
		return assert.Fail(t, fmt.Sprintf("event %q was not dispatched", name), d.summary())
	}
	if len(d.Dispatched(name, predicates...)) == 0 {
		return assert.Fail(t, fmt.Sprintf("event %q was dispatched but no occurrence matched the predicates", name))
	}
	return true
}

// AssertNotDispatched asserts that no event named name satisfying every
// predicate was dispatched.
func (d *Dispatcher) AssertNotDispatched(t assert.TestingT, name string, predicates ...func(evt any) bool) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if n := len(d.Dispatched(name, predicates...)); n > 0 {
		return assert.Fail(t, fmt.Sprintf("event %q was dispatched %d time(s) but should not have been", name, n))
	}
	return true
}

// AssertDispatchedTimes asserts the number of matching dispatches.
func (d *Dispatcher) AssertDispatchedTimes(t assert.TestingT, name string, times int, predicates ...func(evt any) bool) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if n := len(d.Dispatched(name, predicates...)); n != times {
		return assert.Fail(t, fmt.Sprintf("event %q was dispatched %d time(s), expected %d", name, n, times))
	}
	return true
}

// AssertNothingDispatched asserts that no event was dispatched at all.
func (d *Dispatcher) AssertNothingDispatched(t assert.TestingT) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	d.mu.Lock()
	empty := len(d.dispatched) == 0
	d.mu.Unlock()
	if !empty {
		return assert.Fail(t, "expected no events to be dispatched", d.summary())
	}
	return true
}

func (d *Dispatcher) summary() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.dispatched) == 0 {
		return "no events were dispatched"
	}
	names := make([]string, 0, len(d.dispatched))
	for name, evts := range d.dispatched {
		names = append(names, fmt.Sprintf("%s (%d)", name, len(evts)))
	}
	sort.Strings(names)
	return "dispatched: " + strings.Join(names, ", ")
}
