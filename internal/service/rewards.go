package service

import (
	"fmt"
	"strings"

	"github.com/tessadair/bloom/internal/model"
)

// Reward prices are cents; the cheapest allowed reward is $1.00.
const minRewardPrice = 100

// RewardInput is the caller-supplied shape for creating or editing a reward.
type RewardInput struct {
	Name  string
	Emoji string
	Price int
}

func validateRewardInput(in *RewardInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalidInput("name is required")
	}
	if in.Price < minRewardPrice {
		return invalidInput("price must be at least %d cents", minRewardPrice)
	}
	return nil
}

// CreateReward adds a reward. It auto-activates when the user has no other
// active, unpurchased reward.
func (s *Service) CreateReward(userID int64, in RewardInput) (*model.Reward, error) {
	if err := validateRewardInput(&in); err != nil {
		return nil, err
	}

	hasActive, err := s.rewards.HasActiveUnpurchased(userID)
	if err != nil {
		return nil, err
	}
	return s.rewards.Create(userID, in.Name, in.Emoji, in.Price, !hasActive)
}

func (s *Service) ListRewards(userID int64) ([]model.Reward, error) {
	return s.rewards.ListByUser(userID)
}

func (s *Service) getReward(userID, rewardID int64) (*model.Reward, error) {
	r, err := s.rewards.GetOwned(rewardID, userID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	return r, nil
}

// UpdateReward edits an unpurchased reward. Purchased rewards are immutable.
func (s *Service) UpdateReward(userID, rewardID int64, in RewardInput) (*model.Reward, error) {
	r, err := s.getReward(userID, rewardID)
	if err != nil {
		return nil, err
	}
	if r.PurchasedAt != nil {
		return nil, ErrAlreadyPurchased
	}
	if err := validateRewardInput(&in); err != nil {
		return nil, err
	}
	return s.rewards.Update(r.ID, in.Name, in.Emoji, in.Price)
}

// ActivateReward makes the reward the user's active one.
func (s *Service) ActivateReward(userID, rewardID int64) error {
	r, err := s.getReward(userID, rewardID)
	if err != nil {
		return err
	}
	if r.PurchasedAt != nil {
		return ErrAlreadyPurchased
	}
	return s.rewards.SetActive(r.ID, userID)
}

func (s *Service) DeleteReward(userID, rewardID int64) error {
	r, err := s.getReward(userID, rewardID)
	if err != nil {
		return err
	}
	return s.rewards.Delete(r.ID)
}

// PurchaseReward debits the ledger and marks the reward purchased.
//
// The conditional mark claims the reward first; the balance is then
// re-checked inside the same transaction, so a concurrent purchase of
// another reward cannot sneak the balance below zero between check and
// debit. If anything fails after the mark, the rollback reverts it; there
// is no debited-but-unredeemed state.
func (s *Service) PurchaseReward(userID, rewardID int64) error {
	r, err := s.getReward(userID, rewardID)
	if err != nil {
		return err
	}
	if r.PurchasedAt != nil {
		return ErrAlreadyPurchased
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	won, err := s.rewards.WithTx(tx).MarkPurchased(r.ID, s.clock.Now())
	if err != nil {
		return err
	}
	if !won {
		return ErrAlreadyPurchased
	}

	balance, err := s.ledger.WithTx(tx).BalanceOf(userID)
	if err != nil {
		return err
	}
	if balance < r.Price {
		return &InsufficientFundsError{Balance: balance, Price: r.Price}
	}

	if _, err := s.ledger.WithTx(tx).Append(userID, -r.Price, model.SourceRewardSpend, &r.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit purchase: %w", err)
	}

	s.logger.Info("reward purchased", "reward_id", r.ID, "user_id", userID, "price", r.Price)
	return nil
}
