package store

import (
	"database/sql"
	"fmt"

	"github.com/tessadair/bloom/internal/model"
)

// LedgerStore owns the currency_transactions table. Appends never update
// existing rows, so the ledger needs no concurrency control of its own; the
// balance is always the sum of a user's entries.
type LedgerStore struct {
	db DBTX
}

func NewLedgerStore(db DBTX) *LedgerStore {
	return &LedgerStore{db: db}
}

// WithTx returns a LedgerStore bound to the given transaction.
func (s *LedgerStore) WithTx(tx *sql.Tx) *LedgerStore {
	return &LedgerStore{db: tx}
}

func scanTransaction(scanner interface{ Scan(...any) error }) (*model.CurrencyTransaction, error) {
	var t model.CurrencyTransaction
	var refID sql.NullInt64

	err := scanner.Scan(&t.ID, &t.UserID, &t.Amount, &t.Source, &refID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	if refID.Valid {
		t.ReferenceID = &refID.Int64
	}
	return &t, nil
}

const transactionCols = `id, user_id, amount, source, reference_id, created_at`

// Append inserts one immutable ledger entry.
func (s *LedgerStore) Append(userID int64, amount int, source string, referenceID *int64) (*model.CurrencyTransaction, error) {
	var ref sql.NullInt64
	if referenceID != nil {
		ref = sql.NullInt64{Int64: *referenceID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO currency_transactions (user_id, amount, source, reference_id) VALUES (?, ?, ?, ?)`,
		userID, amount, source, ref,
	)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+transactionCols+` FROM currency_transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

// BalanceOf returns the sum of all entries for a user. No cached column:
// replay is the balance.
func (s *LedgerStore) BalanceOf(userID int64) (int, error) {
	var balance int
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(amount), 0) FROM currency_transactions WHERE user_id = ?`,
		userID,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("sum transactions: %w", err)
	}
	return balance, nil
}

// ListByUser returns a user's entries, newest first.
func (s *LedgerStore) ListByUser(userID int64) ([]model.CurrencyTransaction, error) {
	rows, err := s.db.Query(
		`SELECT `+transactionCols+` FROM currency_transactions WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.CurrencyTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}
