// Package service implements the goal-completion, currency-ledger, and
// streak-accounting engine. Handlers stay thin; everything with an invariant
// lives here.
//
// Concurrency model: each operation may run concurrently with itself (two
// devices, a retrying client). The only guard is the store's conditional
// update: an UPDATE whose WHERE clause re-checks the precondition and
// reports affected rows. Multi-write flows (complete, redeem) run inside one
// SQL transaction so a reader never observes a reward without its ledger
// entry or vice versa.
package service

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tessadair/bloom/internal/clock"
	"github.com/tessadair/bloom/internal/store"
	"github.com/tessadair/bloom/internal/streak"
)

type Service struct {
	db          *sql.DB
	users       *store.UserStore
	goals       *store.GoalStore
	ledger      *store.LedgerStore
	reflections *store.ReflectionStore
	rewards     *store.RewardStore
	clock       *clock.Clock
	logger      *slog.Logger
}

func New(db *sql.DB, clk *clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		db:          db,
		users:       store.NewUserStore(db),
		goals:       store.NewGoalStore(db),
		ledger:      store.NewLedgerStore(db),
		reflections: store.NewReflectionStore(db),
		rewards:     store.NewRewardStore(db),
		clock:       clk,
		logger:      logger,
	}
}

// registerActivity advances the user's streak for today inside the given
// transaction. Idempotent per calendar day: if another request already
// stamped today, the guarded update is a no-op and that is success.
func (s *Service) registerActivity(tx *sql.Tx, userID int64, timezone string) error {
	u, err := s.users.WithTx(tx).GetByID(userID)
	if err != nil {
		return fmt.Errorf("load user for streak: %w", err)
	}
	if u == nil {
		return ErrNotFound
	}

	state := streak.State{Current: u.CurrentStreak, Longest: u.LongestStreak}
	if u.LastActiveDate != nil {
		state.LastActive = *u.LastActiveDate
	}

	today := s.clock.Today(timezone)
	if state.LastActive == today {
		return nil
	}

	next := streak.Advance(state, today, s.clock.Yesterday(timezone))
	applied, err := s.users.WithTx(tx).ApplyStreak(userID, next)
	if err != nil {
		return err
	}
	if !applied {
		// Lost a same-day race; today is already counted.
		s.logger.Debug("streak already registered", "user_id", userID, "date", today)
	}
	return nil
}
