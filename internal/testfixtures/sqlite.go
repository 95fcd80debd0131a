package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/timeclock/internal/persistence/sqlite"
)

// NewSQLiteStore constructs a migrated SQLite row store backed by a
// temporary file, registering cleanup with the provided testing.TB.
func NewSQLiteStore(tb testing.TB) *sqlite.Store {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "ponto.db")

	store, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open store: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		tb.Fatalf("failed to migrate store: %v", err)
	}

	tb.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
