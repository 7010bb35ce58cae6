package middleware

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for stack configuration and resolution.
var (
	// ErrSealed indicates a configuration change after Seal.
	ErrSealed = errors.New("middleware stack is sealed")

	// ErrGroupCycle indicates groups that contain each other.
	ErrGroupCycle = errors.New("middleware group cycle")

	// ErrUnknownRequestKind indicates a request kind without a group.
	ErrUnknownRequestKind = errors.New("unknown request kind")
)

// GroupCycleError reports the chain of groups that loops.
type GroupCycleError struct {
	Path []string
}

// Error implements the error interface.
func (e *GroupCycleError) Error() string {
	return fmt.Sprintf("middleware group cycle: %s", strings.Join(e.Path, " -> "))
}

// Is matches ErrGroupCycle.
func (e *GroupCycleError) Is(target error) bool {
	return target == ErrGroupCycle
}
