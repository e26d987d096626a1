package store

import (
	"database/sql"
	"testing"

	"github.com/tessadair/bloom/internal/database"
	"github.com/tessadair/bloom/internal/model"
)

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

func createTestUser(t *testing.T, db *sql.DB, email string) *model.User {
	t.Helper()
	u, err := NewUserStore(db).Create(email, "x", "Test User", "UTC")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}
