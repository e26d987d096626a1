package store

import (
	"database/sql"
	"fmt"

	"github.com/tessadair/bloom/internal/model"
	"github.com/tessadair/bloom/internal/streak"
)

type UserStore struct {
	db DBTX
}

func NewUserStore(db DBTX) *UserStore {
	return &UserStore{db: db}
}

// WithTx returns a UserStore bound to the given transaction.
func (s *UserStore) WithTx(tx *sql.Tx) *UserStore {
	return &UserStore{db: tx}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var lastActive sql.NullString

	err := scanner.Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.Timezone,
		&u.CurrentStreak, &u.LongestStreak, &lastActive,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastActive.Valid {
		u.LastActiveDate = &lastActive.String
	}
	return &u, nil
}

const userCols = `id, email, display_name, timezone, current_streak, longest_streak, last_active_date, created_at, updated_at`

func (s *UserStore) Create(email, passwordHash, displayName, timezone string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (email, password_hash, display_name, timezone) VALUES (?, ?, ?, ?)`,
		email, passwordHash, displayName, timezone,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// PasswordHash returns the stored bcrypt hash for an email, or "" if the
// user does not exist.
func (s *UserStore) PasswordHash(email string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, email).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get password hash: %w", err)
	}
	return hash, nil
}

func (s *UserStore) UpdateProfile(id int64, displayName string) (*model.User, error) {
	_, err := s.db.Exec(
		`UPDATE users SET display_name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		displayName, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) UpdateTimezone(id int64, timezone string) error {
	_, err := s.db.Exec(
		`UPDATE users SET timezone = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		timezone, id,
	)
	if err != nil {
		return fmt.Errorf("update timezone: %w", err)
	}
	return nil
}

// ApplyStreak writes the advanced streak state, guarded so only the first
// write per calendar day lands. The last_active_date predicate makes
// activity registration idempotent per (user, day): a concurrent request
// that already stamped today leaves zero rows affected; today is counted
// either way.
func (s *UserStore) ApplyStreak(id int64, next streak.State) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE users
		 SET current_streak = ?, longest_streak = ?, last_active_date = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND (last_active_date IS NULL OR last_active_date <> ?)`,
		next.Current, next.Longest, next.LastActive, id, next.LastActive,
	)
	if err != nil {
		return false, fmt.Errorf("apply streak: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
