package service

import (
	"fmt"
	"strings"

	"github.com/tessadair/bloom/internal/earnings"
	"github.com/tessadair/bloom/internal/goal"
	"github.com/tessadair/bloom/internal/model"
)

// CompletionResult reports what a completion attempt earned. Rewarded is
// false for duplicates and lost races alike; neither is an error.
type CompletionResult struct {
	Rewarded bool `json:"rewarded"`
	Amount   int  `json:"amount"`
}

// GoalInput is the caller-supplied shape for creating or editing a goal.
type GoalInput struct {
	Title         string
	Description   string
	Emoji         string
	Difficulty    string
	RecurringDays []int
}

func (s *Service) validateGoalInput(in *GoalInput) (reward int, err error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return 0, invalidInput("title is required")
	}
	reward, err = earnings.ForDifficulty(in.Difficulty)
	if err != nil {
		return 0, invalidInput("%v", err)
	}
	for _, d := range in.RecurringDays {
		if d < 0 || d > 6 {
			return 0, invalidInput("weekday %d out of range", d)
		}
	}
	return reward, nil
}

func (s *Service) CreateGoal(userID int64, in GoalInput) (*model.Goal, error) {
	reward, err := s.validateGoalInput(&in)
	if err != nil {
		return nil, err
	}
	return s.goals.Create(userID, in.Title, in.Description, in.Emoji, in.Difficulty, reward, in.RecurringDays)
}

// GoalWithStatus pairs a goal with its lifecycle status on the owner's
// current calendar day.
type GoalWithStatus struct {
	model.Goal
	Status goal.Status `json:"status"`
}

func (s *Service) ListGoals(userID int64) ([]GoalWithStatus, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}

	goals, err := s.goals.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today(u.Timezone)
	weekday := s.clock.Weekday(u.Timezone)

	out := make([]GoalWithStatus, len(goals))
	for i, g := range goals {
		out[i] = GoalWithStatus{Goal: g, Status: goal.ComputeStatus(g, today, weekday)}
	}
	return out, nil
}

func (s *Service) GetGoal(userID, goalID int64) (*model.Goal, error) {
	g, err := s.goals.GetOwned(goalID, userID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrNotFound
	}
	return g, nil
}

// UpdateGoal edits title, difficulty, and recurrence. The denormalized
// reward is re-derived from the new difficulty, and only affects future
// completions: past ledger entries are never rewritten.
func (s *Service) UpdateGoal(userID, goalID int64, in GoalInput) (*model.Goal, error) {
	g, err := s.GetGoal(userID, goalID)
	if err != nil {
		return nil, err
	}
	reward, err := s.validateGoalInput(&in)
	if err != nil {
		return nil, err
	}
	return s.goals.Update(g.ID, in.Title, in.Description, in.Emoji, in.Difficulty, reward, in.RecurringDays)
}

// DeleteGoal removes a goal. A one-time goal is deletable only while still
// pending; a recurring goal's completion is day-scoped, so it may always be
// deleted.
func (s *Service) DeleteGoal(userID, goalID int64) error {
	g, err := s.GetGoal(userID, goalID)
	if err != nil {
		return err
	}
	if !g.Recurring() && g.CompletedAt != nil {
		return ErrAlreadyCompleted
	}
	return s.goals.Delete(g.ID)
}

// CompleteGoal attempts to complete a goal and pay its reward.
//
// The precondition check here is advisory; the authoritative check is the
// conditional update inside the transaction. If that update reports zero
// rows, a concurrent request won the race and this one returns a no-reward
// result, same as a completion that was already done. The state change and
// the ledger append commit together or not at all.
func (s *Service) CompleteGoal(userID, goalID int64) (CompletionResult, error) {
	var none CompletionResult

	g, err := s.GetGoal(userID, goalID)
	if err != nil {
		return none, err
	}
	u, err := s.users.GetByID(userID)
	if err != nil {
		return none, err
	}
	if u == nil {
		return none, ErrNotFound
	}

	today := s.clock.Today(u.Timezone)
	if !goal.Completable(*g, today) {
		return none, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return none, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var won bool
	if g.Recurring() {
		won, err = s.goals.WithTx(tx).MarkDoneToday(g.ID, today)
	} else {
		won, err = s.goals.WithTx(tx).MarkCompleted(g.ID, s.clock.Now())
	}
	if err != nil {
		return none, err
	}
	if !won {
		s.logger.Debug("completion race lost", "goal_id", g.ID, "user_id", userID)
		return none, nil
	}

	if _, err := s.ledger.WithTx(tx).Append(userID, g.CurrencyReward, model.SourceGoal, &g.ID); err != nil {
		return none, err
	}
	if err := s.registerActivity(tx, userID, u.Timezone); err != nil {
		return none, err
	}

	if err := tx.Commit(); err != nil {
		return none, fmt.Errorf("commit completion: %w", err)
	}

	s.logger.Info("goal completed", "goal_id", g.ID, "user_id", userID, "amount", g.CurrencyReward)
	return CompletionResult{Rewarded: true, Amount: g.CurrencyReward}, nil
}
