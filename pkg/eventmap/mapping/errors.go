package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for mapping and firing.
var (
	// ErrInvalidMappedEvent indicates a constructor that cannot be mapped.
	ErrInvalidMappedEvent = errors.New("invalid mapped event")

	// ErrDuplicateMapping indicates a (hook, event type) pair mapped twice.
	ErrDuplicateMapping = errors.New("duplicate mapping")

	// ErrCantCreateMappedEvent indicates hook arguments that do not fit the
	// event constructor.
	ErrCantCreateMappedEvent = errors.New("cannot create mapped event")

	// ErrMapFirstAfterFire indicates MapFirst on a hook that is already firing.
	ErrMapFirstAfterFire = errors.New("hook is already firing")
)

// InvalidMappedEventError is returned by Map* for unusable constructors.
type InvalidMappedEventError struct {
	Hook      string
	EventType string
	Reason    string
}

// Error implements the error interface.
func (e *InvalidMappedEventError) Error() string {
	return fmt.Sprintf("cannot map %s to hook %q: %s", e.EventType, e.Hook, e.Reason)
}

// Is matches ErrInvalidMappedEvent.
func (e *InvalidMappedEventError) Is(target error) bool {
	return target == ErrInvalidMappedEvent
}

// DuplicateMappingError is returned when an event type is mapped to the
// same hook twice.
type DuplicateMappingError struct {
	Hook      string
	EventType string
}

// Error implements the error interface.
func (e *DuplicateMappingError) Error() string {
	return fmt.Sprintf("%s is already mapped to hook %q", e.EventType, e.Hook)
}

// Is matches ErrDuplicateMapping.
func (e *DuplicateMappingError) Is(target error) bool {
	return target == ErrDuplicateMapping
}

// CantCreateMappedEventError is returned when a hook fires with arguments
// the event constructor does not accept.
type CantCreateMappedEventError struct {
	Hook      string
	EventType string
	// Received lists the dynamic types of the hook arguments.
	Received []string
	Err      error
}

// Error implements the error interface.
func (e *CantCreateMappedEventError) Error() string {
	received := "no arguments"
	if len(e.Received) > 0 {
		received = "[" + strings.Join(e.Received, ", ") + "]"
	}
	return fmt.Sprintf("cannot create %s from hook %q with %s: %v", e.EventType, e.Hook, received, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CantCreateMappedEventError) Unwrap() error {
	return e.Err
}

// Is matches ErrCantCreateMappedEvent.
func (e *CantCreateMappedEventError) Is(target error) bool {
	return target == ErrCantCreateMappedEvent
}

// MapFirstAfterFireError is returned by MapFirst while the hook fires.
type MapFirstAfterFireError struct {
	Hook      string
	EventType string
}

// Error implements the error interface.
func (e *MapFirstAfterFireError) Error() string {
	return fmt.Sprintf("cannot map %s first: hook %q is already firing", e.EventType, e.Hook)
}

// Is matches ErrMapFirstAfterFire.
func (e *MapFirstAfterFireError) Is(target error) bool {
	return target == ErrMapFirstAfterFire
}
