package model

import "time"

// Transaction sources. The full transaction set for a user, summed, is the
// authoritative balance.
const (
	SourceGoal        = "goal"
	SourceReflection  = "reflection"
	SourceRewardSpend = "reward_spend"
)

// CurrencyTransaction is one immutable ledger entry. Rows are append-only:
// never updated or deleted.
type CurrencyTransaction struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Amount      int       `json:"amount"`
	Source      string    `json:"source"`
	ReferenceID *int64    `json:"reference_id"`
	CreatedAt   time.Time `json:"created_at"`
}
