package journal

import (
	"sync"
)

// MemoryStore keeps entries in memory.
// It is suitable for tests and short-lived processes.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	seq     int
	closed  bool
}

// NewMemoryStore creates an empty in-memory journal.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append implements Store.
func (s *MemoryStore) Append(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	s.seq++
	entry.Sequence = s.seq

	// Copy payload so callers can reuse their buffer
	if entry.Payload != nil {
		payload := make([]byte, len(entry.Payload))
		copy(payload, entry.Payload)
		entry.Payload = payload
	}

	s.entries = append(s.entries, entry)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(eventName string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	result := make([]Entry, 0)
	for _, e := range s.entries {
		if eventName == "" || e.Event == eventName {
			result = append(result, e)
		}
	}
	return result, nil
}

// Count implements Store.
func (s *MemoryStore) Count(eventName string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	if eventName == "" {
		return len(s.entries), nil
	}
	n := 0
	for _, e := range s.entries {
		if e.Event == eventName {
			n++
		}
	}
	return n, nil
}

// Clear implements Store.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	s.entries = nil
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.entries = nil
	return nil
}
