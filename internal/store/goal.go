package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tessadair/bloom/internal/model"
)

type GoalStore struct {
	db DBTX
}

func NewGoalStore(db DBTX) *GoalStore {
	return &GoalStore{db: db}
}

// WithTx returns a GoalStore bound to the given transaction.
func (s *GoalStore) WithTx(tx *sql.Tx) *GoalStore {
	return &GoalStore{db: tx}
}

func scanGoal(scanner interface{ Scan(...any) error }) (*model.Goal, error) {
	var g model.Goal
	var recurringDays sql.NullString
	var completedAt sql.NullTime
	var lastCompleted sql.NullString

	err := scanner.Scan(
		&g.ID, &g.UserID, &g.Title, &g.Description, &g.Emoji,
		&g.Difficulty, &g.CurrencyReward, &recurringDays,
		&completedAt, &lastCompleted, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if recurringDays.Valid {
		days, err := model.ParseRecurringDays(recurringDays.String)
		if err != nil {
			return nil, fmt.Errorf("recurring days for goal %d: %w", g.ID, err)
		}
		g.RecurringDays = days
	}
	if completedAt.Valid {
		g.CompletedAt = &completedAt.Time
	}
	if lastCompleted.Valid {
		g.LastCompletedDate = &lastCompleted.String
	}
	return &g, nil
}

const goalCols = `id, user_id, title, description, emoji, difficulty, currency_reward, recurring_days, completed_at, last_completed_date, created_at, updated_at`

func (s *GoalStore) Create(userID int64, title, description, emoji, difficulty string, reward int, recurringDays []int) (*model.Goal, error) {
	result, err := s.db.Exec(
		`INSERT INTO goals (user_id, title, description, emoji, difficulty, currency_reward, recurring_days)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, title, description, emoji, difficulty, reward, daysValue(recurringDays),
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *GoalStore) GetByID(id int64) (*model.Goal, error) {
	row := s.db.QueryRow(`SELECT `+goalCols+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

// GetOwned returns the goal only if it belongs to userID; a goal owned by
// someone else is indistinguishable from a missing one.
func (s *GoalStore) GetOwned(id, userID int64) (*model.Goal, error) {
	row := s.db.QueryRow(`SELECT `+goalCols+` FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (s *GoalStore) ListByUser(userID int64) ([]model.Goal, error) {
	rows, err := s.db.Query(
		`SELECT `+goalCols+` FROM goals WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *GoalStore) Update(id int64, title, description, emoji, difficulty string, reward int, recurringDays []int) (*model.Goal, error) {
	_, err := s.db.Exec(
		`UPDATE goals SET title = ?, description = ?, emoji = ?, difficulty = ?, currency_reward = ?, recurring_days = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		title, description, emoji, difficulty, reward, daysValue(recurringDays), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return s.GetByID(id)
}

func (s *GoalStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

// MarkCompleted transitions a one-time goal to completed, but only if it is
// still pending at write time. Zero rows affected means a concurrent request
// won the race; the caller must treat that as "already done", not an error.
func (s *GoalStore) MarkCompleted(id int64, at time.Time) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE goals SET completed_at = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND completed_at IS NULL`,
		at.UTC(), id,
	)
	if err != nil {
		return false, fmt.Errorf("mark completed: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// MarkDoneToday stamps a recurring goal with today's date, but only if it
// has not already been stamped with that date. The IS NULL arm keeps a
// never-completed goal eligible; SQL's three-valued NULL comparison would
// otherwise drop it from the <> check.
func (s *GoalStore) MarkDoneToday(id int64, today string) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE goals SET last_completed_date = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND (last_completed_date IS NULL OR last_completed_date <> ?)`,
		today, id, today,
	)
	if err != nil {
		return false, fmt.Errorf("mark done today: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func daysValue(days []int) sql.NullString {
	if len(days) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: model.FormatRecurringDays(days), Valid: true}
}
