package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/vvalues/internal/trace"
)

// createTestStore creates a new store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestEvent creates an event with minimal required fields.
func createTestEvent(session string, seq int64, route string) trace.Event {
	return trace.Event{
		Seq:      seq,
		Session:  session,
		Site:     "binary",
		Operator: "+",
		Route:    route,
		Operands: []string{"1", "2"},
		Result:   "3",
	}
}
