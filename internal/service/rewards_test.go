package service

import (
	"errors"
	"testing"
)

// earn gives the user a balance by completing freshly created goals.
func earn(t *testing.T, svc *Service, userID int64, cents int) {
	t.Helper()
	for cents > 0 {
		difficulty := "hard"
		amount := 10
		if cents < 10 {
			difficulty, amount = "easy", 2
		}
		g, err := svc.CreateGoal(userID, GoalInput{Title: "earn", Difficulty: difficulty})
		if err != nil {
			t.Fatalf("create goal: %v", err)
		}
		if _, err := svc.CompleteGoal(userID, g.ID); err != nil {
			t.Fatalf("complete: %v", err)
		}
		cents -= amount
	}
}

func TestCreateRewardAutoActivates(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "auto@example.com")
	svc := newTestService(t, db, testNow)

	first, err := svc.CreateReward(u.ID, RewardInput{Name: "Fancy coffee", Emoji: "☕", Price: 300})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !first.IsActive {
		t.Error("first reward should auto-activate")
	}

	second, err := svc.CreateReward(u.ID, RewardInput{Name: "New book", Emoji: "📚", Price: 1500})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.IsActive {
		t.Error("second reward should not steal the active slot")
	}

	if err := svc.ActivateReward(u.ID, second.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}
	rewards, _ := svc.ListRewards(u.ID)
	for _, r := range rewards {
		switch r.ID {
		case first.ID:
			if r.IsActive {
				t.Error("first should be deactivated")
			}
		case second.ID:
			if !r.IsActive {
				t.Error("second should be active")
			}
		}
	}
}

func TestRewardValidation(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "cheap@example.com")
	svc := newTestService(t, db, testNow)

	if _, err := svc.CreateReward(u.ID, RewardInput{Name: "  ", Price: 500}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank name: err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.CreateReward(u.ID, RewardInput{Name: "Sticker", Price: 99}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("below minimum price: err = %v, want ErrInvalidInput", err)
	}
}

func TestPurchaseReward(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "buyer@example.com")
	svc := newTestService(t, db, testNow)

	earn(t, svc, u.ID, 150)

	r, err := svc.CreateReward(u.ID, RewardInput{Name: "Bath bomb", Emoji: "🛁", Price: 120})
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}

	if err := svc.PurchaseReward(u.ID, r.ID); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	balance, _ := svc.Balance(u.ID)
	if balance != 30 {
		t.Errorf("balance = %d, want 30", balance)
	}

	got, err := svc.getReward(u.ID, r.ID)
	if err != nil {
		t.Fatalf("get reward: %v", err)
	}
	if got.PurchasedAt == nil {
		t.Error("reward should be marked purchased")
	}

	// Purchasing again is a conflict, not a second debit.
	if err := svc.PurchaseReward(u.ID, r.ID); !errors.Is(err, ErrAlreadyPurchased) {
		t.Errorf("repeat purchase: err = %v, want ErrAlreadyPurchased", err)
	}
	balance, _ = svc.Balance(u.ID)
	if balance != 30 {
		t.Errorf("balance after repeat = %d, want 30", balance)
	}
}

func TestPurchaseRewardInsufficientFunds(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "broke@example.com")
	svc := newTestService(t, db, testNow)

	earn(t, svc, u.ID, 50)

	r, err := svc.CreateReward(u.ID, RewardInput{Name: "Takeout", Emoji: "🍜", Price: 1200})
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}

	err = svc.PurchaseReward(u.ID, r.ID)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	var iferr *InsufficientFundsError
	if !errors.As(err, &iferr) {
		t.Fatalf("err = %T, want *InsufficientFundsError", err)
	}
	if iferr.Needed() != 1150 {
		t.Errorf("needed = %d, want 1150", iferr.Needed())
	}

	// The failed attempt leaves everything untouched.
	balance, _ := svc.Balance(u.ID)
	if balance != 50 {
		t.Errorf("balance = %d, want 50", balance)
	}
	got, _ := svc.getReward(u.ID, r.ID)
	if got.PurchasedAt != nil {
		t.Error("reward should remain unpurchased after a failed attempt")
	}
}

func TestUpdatePurchasedRewardRejected(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "immutable@example.com")
	svc := newTestService(t, db, testNow)

	earn(t, svc, u.ID, 100)
	r, err := svc.CreateReward(u.ID, RewardInput{Name: "Movie night", Emoji: "🎬", Price: 100})
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}
	if err := svc.PurchaseReward(u.ID, r.ID); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	if _, err := svc.UpdateReward(u.ID, r.ID, RewardInput{Name: "Cheaper", Price: 100}); !errors.Is(err, ErrAlreadyPurchased) {
		t.Errorf("update: err = %v, want ErrAlreadyPurchased", err)
	}
	if err := svc.ActivateReward(u.ID, r.ID); !errors.Is(err, ErrAlreadyPurchased) {
		t.Errorf("activate: err = %v, want ErrAlreadyPurchased", err)
	}
}

func TestRewardOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "rowner@example.com")
	intruder := createTestUser(t, db, "rintruder@example.com")
	svc := newTestService(t, db, testNow)

	r, err := svc.CreateReward(owner.ID, RewardInput{Name: "Private treat", Price: 200})
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}

	if err := svc.PurchaseReward(intruder.ID, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("purchase: err = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteReward(intruder.ID, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete: err = %v, want ErrNotFound", err)
	}
}
