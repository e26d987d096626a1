package store

import "testing"

func TestSessionCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "session@example.com")
	ss := NewSessionStore(db)

	sess, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(sess.Token))
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.UserID != u.ID {
		t.Fatalf("get by token returned %v", got)
	}

	got, err = ss.GetByToken("no-such-token")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if got != nil {
		t.Error("unknown token should be nil")
	}
}

func TestSessionExpiry(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "expired@example.com")
	ss := NewSessionStore(db)

	_, err := db.Exec(
		`INSERT INTO sessions (user_id, token, expires_at) VALUES (?, ?, datetime('now', '-1 day'))`,
		u.ID, "stale-token",
	)
	if err != nil {
		t.Fatalf("insert stale session: %v", err)
	}

	got, err := ss.GetByToken("stale-token")
	if err != nil {
		t.Fatalf("get expired: %v", err)
	}
	if got != nil {
		t.Error("expired session should be nil")
	}

	count, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if count != 1 {
		t.Errorf("deleted %d sessions, want 1", count)
	}
}

func TestSessionDelete(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "logout@example.com")
	ss := NewSessionStore(db)

	sess, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := ss.Delete(sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("deleted session should be nil")
	}
}
