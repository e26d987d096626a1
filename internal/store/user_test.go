package store

import (
	"testing"

	"github.com/tessadair/bloom/internal/streak"
)

func TestUserCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)

	u, err := us.Create("tessa@example.com", "hash", "Tessa", "America/Edmonton")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Email != "tessa@example.com" {
		t.Errorf("email = %q", u.Email)
	}
	if u.Timezone != "America/Edmonton" {
		t.Errorf("timezone = %q", u.Timezone)
	}
	if u.CurrentStreak != 0 || u.LongestStreak != 0 {
		t.Errorf("new user streak = %d/%d, want 0/0", u.CurrentStreak, u.LongestStreak)
	}
	if u.LastActiveDate != nil {
		t.Error("new user should have no last active date")
	}

	got, err := us.GetByEmail("tessa@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("get by email returned %v", got)
	}

	got, err = us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if got != nil {
		t.Error("missing user should be nil")
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)

	if _, err := us.Create("dup@example.com", "hash", "One", "UTC"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("dup@example.com", "hash", "Two", "UTC"); err == nil {
		t.Error("duplicate email should fail")
	}
}

func TestUserPasswordHash(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)

	if _, err := us.Create("hash@example.com", "secret-hash", "H", "UTC"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	hash, err := us.PasswordHash("hash@example.com")
	if err != nil {
		t.Fatalf("password hash: %v", err)
	}
	if hash != "secret-hash" {
		t.Errorf("hash = %q", hash)
	}

	hash, err = us.PasswordHash("ghost@example.com")
	if err != nil {
		t.Fatalf("password hash missing: %v", err)
	}
	if hash != "" {
		t.Errorf("missing user hash = %q, want empty", hash)
	}
}

func TestUpdateProfileAndTimezone(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)

	u, err := us.Create("edit@example.com", "hash", "Before", "UTC")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := us.UpdateProfile(u.ID, "After")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if got.DisplayName != "After" {
		t.Errorf("display name = %q", got.DisplayName)
	}

	if err := us.UpdateTimezone(u.ID, "Asia/Tokyo"); err != nil {
		t.Fatalf("update timezone: %v", err)
	}
	got, _ = us.GetByID(u.ID)
	if got.Timezone != "Asia/Tokyo" {
		t.Errorf("timezone = %q", got.Timezone)
	}
}

func TestApplyStreakOncePerDay(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)

	u, err := us.Create("streak@example.com", "hash", "S", "UTC")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	won, err := us.ApplyStreak(u.ID, streak.State{Current: 1, Longest: 1, LastActive: "2026-02-01"})
	if err != nil {
		t.Fatalf("apply streak: %v", err)
	}
	if !won {
		t.Fatal("first apply should win")
	}

	// Same day again: guard keeps the row untouched.
	won, err = us.ApplyStreak(u.ID, streak.State{Current: 99, Longest: 99, LastActive: "2026-02-01"})
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if won {
		t.Error("same-day apply should not land")
	}

	got, _ := us.GetByID(u.ID)
	if got.CurrentStreak != 1 || got.LongestStreak != 1 {
		t.Errorf("streak = %d/%d, want 1/1", got.CurrentStreak, got.LongestStreak)
	}

	// Next day extends.
	won, err = us.ApplyStreak(u.ID, streak.State{Current: 2, Longest: 2, LastActive: "2026-02-02"})
	if err != nil {
		t.Fatalf("next-day apply: %v", err)
	}
	if !won {
		t.Fatal("next-day apply should win")
	}
	got, _ = us.GetByID(u.ID)
	if got.CurrentStreak != 2 || got.LastActiveDate == nil || *got.LastActiveDate != "2026-02-02" {
		t.Errorf("streak = %d last active %v", got.CurrentStreak, got.LastActiveDate)
	}
}
