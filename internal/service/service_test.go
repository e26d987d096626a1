package service

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/tessadair/bloom/internal/clock"
	"github.com/tessadair/bloom/internal/database"
	"github.com/tessadair/bloom/internal/logging"
	"github.com/tessadair/bloom/internal/model"
	"github.com/tessadair/bloom/internal/store"
)

// A Sunday at noon UTC, so weekday 0 tests line up.
var testNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// The pool must stay on one connection or each conn gets its own
	// private :memory: database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// setupFileDB opens a file-backed database so multiple connections can
// contend; :memory: cannot exercise real write races.
func setupFileDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestService(t *testing.T, db *sql.DB, now time.Time) *Service {
	t.Helper()
	return New(db, clock.NewFixed(now), logging.Discard())
}

func createTestUser(t *testing.T, db *sql.DB, email string) *model.User {
	t.Helper()
	u, err := store.NewUserStore(db).Create(email, "x", "Test User", "UTC")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}
