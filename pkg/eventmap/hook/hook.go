// Package hook defines the priority-ordered hook system the mapper binds
// events to, plus Registry, an in-process implementation.
//
// A hook is a named extension point. Callbacks run in ascending priority;
// equal priorities run in registration order. Actions ignore callback
// results. Filters thread a value through every callback, each receiving
// the previous callback's result as its first argument.
package hook

import (
	"context"
	"errors"
	"math"
)

// Priority bounds. Lower priorities run first.
const (
	MinPriority     = math.MinInt
	MaxPriority     = math.MaxInt
	DefaultPriority = 10
)

// AllArgs as acceptedArgs passes every argument to the callback.
const AllArgs = -1

// ErrCallbackNotFound indicates an unknown callback id.
var ErrCallbackNotFound = errors.New("hook callback not found")

// CallbackID identifies one registration on a host.
type CallbackID string

// Callback is the uniform callback form. For filters, args[0] is the value
// being filtered and the result replaces it; actions discard the result.
type Callback func(ctx context.Context, args ...any) (any, error)

// Registration describes a registered callback.
type Registration struct {
	ID           CallbackID
	Hook         string
	Priority     int
	AcceptedArgs int
	Callback     Callback
}

// Host is the contract the mapper needs from a hook system.
type Host interface {
	// Add registers cb on hook. The callback receives at most acceptedArgs
	// arguments (AllArgs for no limit).
	Add(hook string, cb Callback, priority, acceptedArgs int) CallbackID

	// Remove unregisters a callback. Returns false if it was not registered.
	Remove(hook string, id CallbackID) bool

	// Callbacks lists the registrations for hook in execution order.
	Callbacks(hook string) []Registration

	// IsFiring reports whether hook is currently executing.
	IsFiring(hook string) bool

	// SetPriority moves a registered callback to another priority, after
	// the callbacks already there.
	SetPriority(hook string, id CallbackID, priority int) error

	// SetPriorityFirst moves a registered callback to another priority,
	// ahead of the callbacks already there.
	SetPriorityFirst(hook string, id CallbackID, priority int) error
}
