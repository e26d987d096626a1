package service

import (
	"github.com/tessadair/bloom/internal/clock"
	"github.com/tessadair/bloom/internal/model"
)

// Profile is the account view the UI renders: identity, streaks, and the
// ledger-derived balance.
type Profile struct {
	User    model.User `json:"user"`
	Balance int        `json:"balance"`
}

func (s *Service) GetProfile(userID int64) (*Profile, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}

	balance, err := s.ledger.BalanceOf(userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: *u, Balance: balance}, nil
}

// Balance returns the user's current balance in cents, recomputed from the
// ledger.
func (s *Service) Balance(userID int64) (int, error) {
	return s.ledger.BalanceOf(userID)
}

// StreakInfo is the current and historical-best consecutive-day counters.
type StreakInfo struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

func (s *Service) Streak(userID int64) (StreakInfo, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return StreakInfo{}, err
	}
	if u == nil {
		return StreakInfo{}, ErrNotFound
	}
	return StreakInfo{Current: u.CurrentStreak, Longest: u.LongestStreak}, nil
}

// UpdateTimezone stores a validated IANA zone on the profile. Day
// boundaries for streaks and recurring goals follow this zone from the next
// operation on.
func (s *Service) UpdateTimezone(userID int64, tz string) error {
	if !clock.ValidZone(tz) {
		return invalidInput("unknown timezone %q", tz)
	}
	return s.users.UpdateTimezone(userID, tz)
}

// ListTransactions returns the user's ledger entries, newest first.
func (s *Service) ListTransactions(userID int64) ([]model.CurrencyTransaction, error) {
	return s.ledger.ListByUser(userID)
}
