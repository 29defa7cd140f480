// Package dbtest opens migrated SQLite databases for package tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/fkhayef/settleup/internal/database"
)

// New returns a freshly migrated SQLite database in a temp directory.
// The connection is closed when the test ends.
func New(t testing.TB) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	if err := database.Migrate(database.DriverSQLite, path); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db, err := database.NewSQLiteConnection(path)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}
