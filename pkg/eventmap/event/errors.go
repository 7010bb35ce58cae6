package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for listener registration and dispatch.
var (
	// ErrInvalidListener indicates a listener reference that cannot be called.
	ErrInvalidListener = errors.New("invalid listener")

	// ErrCantRemoveListener indicates an attempt to remove an unremovable listener.
	ErrCantRemoveListener = errors.New("listener cannot be removed")

	// ErrNilEvent indicates Dispatch was called with a nil event.
	ErrNilEvent = errors.New("event cannot be nil")
)

// InvalidListenerError describes a listener reference that does not
// resolve to something callable.
type InvalidListenerError struct {
	// Event is the event name the listener was registered for.
	Event string
	// Listener describes the offending reference.
	Listener string
	// Reason explains what is wrong with it.
	Reason string
	// Err is an underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *InvalidListenerError) Error() string {
	msg := fmt.Sprintf("invalid listener %s for event %q: %s", e.Listener, e.Event, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *InvalidListenerError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvalidListener.
func (e *InvalidListenerError) Is(target error) bool {
	return target == ErrInvalidListener
}

// CantRemoveListenerError is returned by Remove for unremovable listeners.
type CantRemoveListenerError struct {
	Event    string
	Listener string
}

// Error implements the error interface.
func (e *CantRemoveListenerError) Error() string {
	return fmt.Sprintf("listener %s for event %q is marked as unremovable", e.Listener, e.Event)
}

// Is matches ErrCantRemoveListener.
func (e *CantRemoveListenerError) Is(target error) bool {
	return target == ErrCantRemoveListener
}

// ListenerError wraps an error returned by a listener during dispatch.
// The remaining listeners for that dispatch did not run.
type ListenerError struct {
	Event    string
	Listener string
	Err      error
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return fmt.Sprintf("event %q: listener %s: %v", e.Event, e.Listener, e.Err)
}

// Unwrap returns the listener's error for errors.Is/As support.
func (e *ListenerError) Unwrap() error {
	return e.Err
}
