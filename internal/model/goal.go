package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Goal struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Difficulty  string `json:"difficulty"`
	// Reward in cents, denormalized from the difficulty at create/edit time.
	// Past ledger entries are never touched when this changes.
	CurrencyReward int `json:"currency_reward"`
	// RecurringDays is nil for a one-time goal, otherwise the set of
	// weekday indices (0 = Sunday) the goal repeats on.
	RecurringDays []int `json:"recurring_days"`
	// CompletedAt marks a one-time goal done. Meaningless for recurring goals.
	CompletedAt *time.Time `json:"completed_at"`
	// LastCompletedDate is the last calendar day (in the owner's timezone,
	// YYYY-MM-DD) a recurring goal paid out. Meaningless for one-time goals.
	LastCompletedDate *string   `json:"last_completed_date"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Recurring reports whether the goal repeats on a weekday schedule.
func (g Goal) Recurring() bool {
	return len(g.RecurringDays) > 0
}

// FormatRecurringDays renders a weekday set as the stored CSV form, e.g. "1,3,5".
// Returns "" for a one-time goal.
func FormatRecurringDays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// ParseRecurringDays parses the stored CSV weekday set. Rejects indices
// outside 0-6 and duplicates.
func ParseRecurringDays(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	seen := [7]bool{}
	var days []int
	for _, part := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("parse weekday %q: %w", part, err)
		}
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("weekday %d out of range", d)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	return days, nil
}
