package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both missing entities and entities owned by
	// someone else; callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCompleted is an explicit terminal-state violation, such as
	// deleting a completed one-time goal. A completion attempt on an
	// already-done goal is not an error, just a no-reward result.
	ErrAlreadyCompleted = errors.New("already completed")

	ErrAlreadyPurchased  = errors.New("already purchased")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidInput      = errors.New("invalid input")
)

// InsufficientFundsError carries the numbers the UI needs to say how much
// is still missing. Matches ErrInsufficientFunds under errors.Is.
type InsufficientFundsError struct {
	Balance int
	Price   int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %d, price %d", e.Balance, e.Price)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// Needed returns the shortfall in cents.
func (e *InsufficientFundsError) Needed() int {
	return e.Price - e.Balance
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
