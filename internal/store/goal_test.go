package store

import (
	"testing"
	"time"
)

func TestGoalCRUD(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "goals@example.com")
	gs := NewGoalStore(db)

	g, err := gs.Create(u.ID, "Drink water", "eight glasses", "💧", "easy", 2, nil)
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if g.Title != "Drink water" {
		t.Errorf("title = %q, want %q", g.Title, "Drink water")
	}
	if g.CurrencyReward != 2 {
		t.Errorf("reward = %d, want 2", g.CurrencyReward)
	}
	if g.Recurring() {
		t.Error("goal without days should be one-time")
	}
	if g.CompletedAt != nil {
		t.Error("new goal should not be completed")
	}

	got, err := gs.GetOwned(g.ID, u.ID)
	if err != nil {
		t.Fatalf("get owned: %v", err)
	}
	if got == nil || got.ID != g.ID {
		t.Fatalf("get owned returned %v", got)
	}

	// A different user cannot see it.
	other := createTestUser(t, db, "other@example.com")
	got, err = gs.GetOwned(g.ID, other.ID)
	if err != nil {
		t.Fatalf("get owned other: %v", err)
	}
	if got != nil {
		t.Error("goal should not be visible to another user")
	}

	updated, err := gs.Update(g.ID, "Drink more water", "", "💧", "medium", 5, []int{1, 3})
	if err != nil {
		t.Fatalf("update goal: %v", err)
	}
	if updated.CurrencyReward != 5 {
		t.Errorf("updated reward = %d, want 5", updated.CurrencyReward)
	}
	if !updated.Recurring() || len(updated.RecurringDays) != 2 {
		t.Errorf("updated recurring days = %v, want [1 3]", updated.RecurringDays)
	}

	if err := gs.Delete(g.ID); err != nil {
		t.Fatalf("delete goal: %v", err)
	}
	got, err = gs.GetByID(g.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("goal should be gone after delete")
	}
}

func TestMarkCompletedOnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "once@example.com")
	gs := NewGoalStore(db)

	g, err := gs.Create(u.ID, "Call the dentist", "", "", "medium", 5, nil)
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}

	now := time.Now()
	won, err := gs.MarkCompleted(g.ID, now)
	if err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if !won {
		t.Fatal("first completion should win")
	}

	won, err = gs.MarkCompleted(g.ID, now)
	if err != nil {
		t.Fatalf("second mark completed: %v", err)
	}
	if won {
		t.Error("second completion should report a lost race")
	}

	got, _ := gs.GetByID(g.ID)
	if got.CompletedAt == nil {
		t.Error("completed_at should be set")
	}
}

func TestMarkDoneTodayPerDay(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "daily@example.com")
	gs := NewGoalStore(db)

	g, err := gs.Create(u.ID, "Stretch", "", "", "easy", 2, []int{0, 1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}

	// Never completed: the IS NULL arm must let the first stamp through.
	won, err := gs.MarkDoneToday(g.ID, "2026-02-01")
	if err != nil {
		t.Fatalf("mark done today: %v", err)
	}
	if !won {
		t.Fatal("first stamp should win")
	}

	won, err = gs.MarkDoneToday(g.ID, "2026-02-01")
	if err != nil {
		t.Fatalf("repeat stamp: %v", err)
	}
	if won {
		t.Error("same-day stamp should report a lost race")
	}

	// Next calendar day: eligible again.
	won, err = gs.MarkDoneToday(g.ID, "2026-02-02")
	if err != nil {
		t.Fatalf("next-day stamp: %v", err)
	}
	if !won {
		t.Error("next-day stamp should win")
	}

	got, _ := gs.GetByID(g.ID)
	if got.LastCompletedDate == nil || *got.LastCompletedDate != "2026-02-02" {
		t.Errorf("last_completed_date = %v, want 2026-02-02", got.LastCompletedDate)
	}
}

func TestListByUser(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "list@example.com")
	other := createTestUser(t, db, "list-other@example.com")
	gs := NewGoalStore(db)

	for _, title := range []string{"a", "b", "c"} {
		if _, err := gs.Create(u.ID, title, "", "", "easy", 2, nil); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := gs.Create(other.ID, "not mine", "", "", "easy", 2, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	goals, err := gs.ListByUser(u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 3 {
		t.Errorf("len = %d, want 3", len(goals))
	}
	for _, g := range goals {
		if g.UserID != u.ID {
			t.Errorf("leaked goal for user %d", g.UserID)
		}
	}
}
