// internal/recordstore/sqlite/testdb.go
package sqlite

import "testing"

// NewTestStore creates a fresh in-memory record store with the schema applied.
func NewTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
