package service

import (
	"errors"
	"testing"
)

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "profile@example.com")
	svc := newTestService(t, db, testNow)

	earn(t, svc, u.ID, 20)

	p, err := svc.GetProfile(u.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.User.ID != u.ID {
		t.Errorf("user id = %d", p.User.ID)
	}
	if p.Balance != 20 {
		t.Errorf("balance = %d, want 20", p.Balance)
	}

	if _, err := svc.GetProfile(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateTimezone(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "tz@example.com")
	svc := newTestService(t, db, testNow)

	if err := svc.UpdateTimezone(u.ID, "America/Edmonton"); err != nil {
		t.Fatalf("update timezone: %v", err)
	}
	p, _ := svc.GetProfile(u.ID)
	if p.User.Timezone != "America/Edmonton" {
		t.Errorf("timezone = %q", p.User.Timezone)
	}

	if err := svc.UpdateTimezone(u.ID, "Mars/Olympus_Mons"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad zone: err = %v, want ErrInvalidInput", err)
	}
	if err := svc.UpdateTimezone(u.ID, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty zone: err = %v, want ErrInvalidInput", err)
	}
}
