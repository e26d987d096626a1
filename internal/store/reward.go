package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tessadair/bloom/internal/model"
)

type RewardStore struct {
	db DBTX
}

func NewRewardStore(db DBTX) *RewardStore {
	return &RewardStore{db: db}
}

// WithTx returns a RewardStore bound to the given transaction.
func (s *RewardStore) WithTx(tx *sql.Tx) *RewardStore {
	return &RewardStore{db: tx}
}

func scanReward(scanner interface{ Scan(...any) error }) (*model.Reward, error) {
	var r model.Reward
	var active int
	var purchasedAt sql.NullTime

	err := scanner.Scan(&r.ID, &r.UserID, &r.Name, &r.Emoji, &r.Price, &active, &purchasedAt, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	r.IsActive = active != 0
	if purchasedAt.Valid {
		r.PurchasedAt = &purchasedAt.Time
	}
	return &r, nil
}

const rewardCols = `id, user_id, name, emoji, price, is_active, purchased_at, created_at`

func (s *RewardStore) Create(userID int64, name, emoji string, price int, active bool) (*model.Reward, error) {
	var a int
	if active {
		a = 1
	}

	result, err := s.db.Exec(
		`INSERT INTO rewards (user_id, name, emoji, price, is_active) VALUES (?, ?, ?, ?, ?)`,
		userID, name, emoji, price, a,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reward: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *RewardStore) GetByID(id int64) (*model.Reward, error) {
	row := s.db.QueryRow(`SELECT `+rewardCols+` FROM rewards WHERE id = ?`, id)
	r, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return r, nil
}

// GetOwned returns the reward only if it belongs to userID.
func (s *RewardStore) GetOwned(id, userID int64) (*model.Reward, error) {
	row := s.db.QueryRow(`SELECT `+rewardCols+` FROM rewards WHERE id = ? AND user_id = ?`, id, userID)
	r, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return r, nil
}

// ListByUser returns a user's rewards, active and unpurchased first.
func (s *RewardStore) ListByUser(userID int64) ([]model.Reward, error) {
	rows, err := s.db.Query(
		`SELECT `+rewardCols+` FROM rewards WHERE user_id = ?
		 ORDER BY purchased_at IS NOT NULL, is_active DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *r)
	}
	return rewards, rows.Err()
}

// HasActiveUnpurchased reports whether the user already has an active,
// unpurchased reward. New rewards auto-activate only when there is none.
func (s *RewardStore) HasActiveUnpurchased(userID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM rewards WHERE user_id = ? AND is_active = 1 AND purchased_at IS NULL`,
		userID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count active rewards: %w", err)
	}
	return n > 0, nil
}

func (s *RewardStore) Update(id int64, name, emoji string, price int) (*model.Reward, error) {
	_, err := s.db.Exec(
		`UPDATE rewards SET name = ?, emoji = ?, price = ? WHERE id = ?`,
		name, emoji, price, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update reward: %w", err)
	}
	return s.GetByID(id)
}

// SetActive makes the given reward the user's active one, deactivating any
// other active rewards first.
func (s *RewardStore) SetActive(id, userID int64) error {
	_, err := s.db.Exec(
		`UPDATE rewards SET is_active = 0 WHERE user_id = ? AND is_active = 1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("deactivate rewards: %w", err)
	}
	_, err = s.db.Exec(
		`UPDATE rewards SET is_active = 1 WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("activate reward: %w", err)
	}
	return nil
}

// MarkPurchased stamps the reward as purchased, but only if it is still
// unpurchased at write time. Zero rows affected means another request
// already bought it.
func (s *RewardStore) MarkPurchased(id int64, at time.Time) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE rewards SET purchased_at = ?, is_active = 0
		 WHERE id = ? AND purchased_at IS NULL`,
		at.UTC(), id,
	)
	if err != nil {
		return false, fmt.Errorf("mark purchased: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *RewardStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM rewards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reward: %w", err)
	}
	return nil
}
