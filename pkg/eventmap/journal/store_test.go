package journal_test

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/randalmurphal/eventmap/pkg/eventmap/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory creates a fresh store for each test.
type storeFactory func(t *testing.T) journal.Store

func stores() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) journal.Store {
			return journal.NewMemoryStore()
		},
		"sqlite": func(t *testing.T) journal.Store {
			s, err := journal.NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_AppendAndList(t *testing.T) {
	for name, factory := range stores() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			require.NoError(t, s.Append(journal.NewEntry("user.registered", []byte(`{"id":1}`), 2)))
			require.NoError(t, s.Append(journal.NewEntry("user.deleted", nil, 0)))
			require.NoError(t, s.Append(journal.NewEntry("user.registered", []byte(`{"id":2}`), 2)))

			registered, err := s.List("user.registered")
			require.NoError(t, err)
			require.Len(t, registered, 2)
			assert.Equal(t, []byte(`{"id":1}`), registered[0].Payload)
			assert.Equal(t, []byte(`{"id":2}`), registered[1].Payload)
			assert.Less(t, registered[0].Sequence, registered[1].Sequence)
			assert.Equal(t, 2, registered[0].Listeners)
			assert.NotEmpty(t, registered[0].ID)
			assert.False(t, registered[0].Timestamp.IsZero())

			all, err := s.List("")
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "user.deleted", all[1].Event)
		})
	}
}

func TestStore_ListEmpty(t *testing.T) {
	for name, factory := range stores() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			entries, err := s.List("nothing")
			require.NoError(t, err)
			assert.NotNil(t, entries)
			assert.Empty(t, entries)
		})
	}
}

func TestStore_Count(t *testing.T) {
	for name, factory := range stores() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			require.NoError(t, s.Append(journal.NewEntry("a", nil, 0)))
			require.NoError(t, s.Append(journal.NewEntry("a", nil, 0)))
			require.NoError(t, s.Append(journal.NewEntry("b", nil, 0)))

			n, err := s.Count("a")
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			n, err = s.Count("")
			require.NoError(t, err)
			assert.Equal(t, 3, n)
		})
	}
}

func TestStore_Clear(t *testing.T) {
	for name, factory := range stores() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			require.NoError(t, s.Append(journal.NewEntry("a", nil, 0)))
			require.NoError(t, s.Clear())

			n, err := s.Count("")
			require.NoError(t, err)
			assert.Equal(t, 0, n)
		})
	}
}

func TestStore_Closed(t *testing.T) {
	for name, factory := range stores() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			require.NoError(t, s.Close())

			assert.ErrorIs(t, s.Append(journal.NewEntry("a", nil, 0)), journal.ErrStoreClosed)
			_, err := s.List("")
			assert.ErrorIs(t, err, journal.ErrStoreClosed)
			_, err = s.Count("")
			assert.ErrorIs(t, err, journal.ErrStoreClosed)
			assert.ErrorIs(t, s.Clear(), journal.ErrStoreClosed)

			// Close multiple times should be safe
			assert.NoError(t, s.Close())
		})
	}
}

func TestStore_Concurrent(t *testing.T) {
	for name, factory := range stores() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			const goroutines = 20
			const perGoroutine = 10

			var wg sync.WaitGroup
			wg.Add(goroutines)
			for i := 0; i < goroutines; i++ {
				go func() {
					defer wg.Done()
					for j := 0; j < perGoroutine; j++ {
						_ = s.Append(journal.NewEntry("load", nil, 1))
						_, _ = s.Count("load")
					}
				}()
			}
			wg.Wait()

			n, err := s.Count("load")
			require.NoError(t, err)
			assert.Equal(t, goroutines*perGoroutine, n)
		})
	}
}

func TestMemoryStore_CopiesPayload(t *testing.T) {
	s := journal.NewMemoryStore()
	buf := []byte("original")
	require.NoError(t, s.Append(journal.NewEntry("a", buf, 0)))

	copy(buf, "mutated!")

	entries, err := s.List("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), entries[0].Payload)
}

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	first, err := journal.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Append(journal.NewEntry("app.booted", []byte("{}"), 1)))
	require.NoError(t, first.Close())

	second, err := journal.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer second.Close()

	entries, err := second.List("app.booted")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []byte("{}"), entries[0].Payload)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := journal.NewSQLiteStore("/nonexistent/path/db.sqlite")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s, err := journal.Open("")
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("memory", func(t *testing.T) {
		s, err := journal.Open("memory")
		require.NoError(t, err)
		assert.IsType(t, &journal.MemoryStore{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := journal.Open("sqlite:" + filepath.Join(t.TempDir(), "j.db"))
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &journal.SQLiteStore{}, s)
	})

	t.Run("sqlite without path", func(t *testing.T) {
		_, err := journal.Open("sqlite:")
		assert.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := journal.Open("redis://localhost")
		assert.Error(t, err)
	})
}
