package benchmarks

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/eventmap/pkg/eventmap/event"
	"github.com/randalmurphal/eventmap/pkg/eventmap/journal"
)

func payload(b *testing.B) []byte {
	b.Helper()
	data, err := json.Marshal([]any{UserRegistered{ID: 1, Email: "ada@example.com"}})
	if err != nil {
		b.Fatal(err)
	}
	return data
}

// BenchmarkMemoryStore_Append measures in-memory journal appends.
func BenchmarkMemoryStore_Append(b *testing.B) {
	store := journal.NewMemoryStore()
	data := payload(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Append(journal.NewEntry("user.registered", data, 1))
	}
}

// BenchmarkSQLiteStore_Append measures SQLite journal appends.
func BenchmarkSQLiteStore_Append(b *testing.B) {
	store := createSQLiteStore(b)
	data := payload(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Append(journal.NewEntry("user.registered", data, 1))
	}
}

// BenchmarkSQLiteStore_List measures listing one event out of a mixed journal.
func BenchmarkSQLiteStore_List(b *testing.B) {
	store := createSQLiteStore(b)
	data := payload(b)
	for i := 0; i < 1000; i++ {
		name := "user.registered"
		if i%10 != 0 {
			name = "page.viewed"
		}
		_ = store.Append(journal.NewEntry(name, data, 1))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.List("user.registered")
	}
}

// BenchmarkDispatch_WithJournal compares against BenchmarkDispatch_1.
func BenchmarkDispatch_WithJournal(b *testing.B) {
	d := event.NewDispatcher(event.WithLogger(nil), event.WithJournal(journal.NewMemoryStore()))
	_, _ = event.Listen(d, noopListener)
	ctx := context.Background()
	evt := UserRegistered{ID: 1, Email: "ada@example.com"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = d.Dispatch(ctx, evt)
	}
}

func createSQLiteStore(b *testing.B) *journal.SQLiteStore {
	b.Helper()
	store, err := journal.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { store.Close() })
	return store
}
