// Package journal records dispatched events for auditing and inspection.
package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists journal entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append records an entry. Entries get a sequence number in append order.
	Append(entry Entry) error

	// List returns entries for an event name, ordered by sequence.
	// An empty name lists every entry.
	// Returns empty slice (not error) when nothing matches.
	List(eventName string) ([]Entry, error)

	// Count returns how many entries exist for an event name
	// (all entries when name is empty).
	Count(eventName string) (int, error)

	// Clear removes every entry.
	Clear() error

	// Close releases any resources (connections, files).
	Close() error
}

// Entry is one recorded dispatch.
type Entry struct {
	ID        string
	Sequence  int
	Event     string
	Payload   []byte
	Listeners int
	Timestamp time.Time
}

// NewEntry creates an entry with a fresh ID and the current time.
func NewEntry(eventName string, payload []byte, listeners int) Entry {
	return Entry{
		ID:        uuid.New().String(),
		Event:     eventName,
		Payload:   payload,
		Listeners: listeners,
		Timestamp: time.Now().UTC(),
	}
}

// Sentinel errors for journal operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")
)

// Open creates a store from a short description:
//
//	"memory"          -> MemoryStore
//	"sqlite:<path>"   -> SQLiteStore at path
//
// An empty description returns a nil Store and no error.
func Open(description string) (Store, error) {
	switch {
	case description == "":
		return nil, nil
	case description == "memory":
		return NewMemoryStore(), nil
	case strings.HasPrefix(description, "sqlite:"):
		path := strings.TrimPrefix(description, "sqlite:")
		if path == "" {
			return nil, fmt.Errorf("journal: sqlite path is required")
		}
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("journal: unsupported store %q", description)
	}
}
