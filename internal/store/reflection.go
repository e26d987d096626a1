package store

import (
	"database/sql"
	"fmt"

	"github.com/tessadair/bloom/internal/model"
)

type ReflectionStore struct {
	db DBTX
}

func NewReflectionStore(db DBTX) *ReflectionStore {
	return &ReflectionStore{db: db}
}

// WithTx returns a ReflectionStore bound to the given transaction.
func (s *ReflectionStore) WithTx(tx *sql.Tx) *ReflectionStore {
	return &ReflectionStore{db: tx}
}

func scanReflection(scanner interface{ Scan(...any) error }) (*model.Reflection, error) {
	var r model.Reflection
	var prompt sql.NullString
	var mood sql.NullString

	err := scanner.Scan(
		&r.ID, &r.UserID, &r.Type, &prompt, &mood,
		&r.Content, &r.WordCount, &r.CurrencyEarned, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if prompt.Valid {
		r.Prompt = &prompt.String
	}
	if mood.Valid {
		r.Mood = &mood.String
	}
	return &r, nil
}

const reflectionCols = `id, user_id, type, prompt, mood, content, word_count, currency_earned, created_at`

func (s *ReflectionStore) Create(userID int64, typ string, prompt, mood *string, content string, wordCount, earned int) (*model.Reflection, error) {
	var p, m sql.NullString
	if prompt != nil {
		p = sql.NullString{String: *prompt, Valid: true}
	}
	if mood != nil {
		m = sql.NullString{String: *mood, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO reflections (user_id, type, prompt, mood, content, word_count, currency_earned)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, typ, p, m, content, wordCount, earned,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reflection: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+reflectionCols+` FROM reflections WHERE id = ?`, id)
	return scanReflection(row)
}

func (s *ReflectionStore) ListByUser(userID int64) ([]model.Reflection, error) {
	rows, err := s.db.Query(
		`SELECT `+reflectionCols+` FROM reflections WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reflections: %w", err)
	}
	defer rows.Close()

	var reflections []model.Reflection
	for rows.Next() {
		r, err := scanReflection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reflection: %w", err)
		}
		reflections = append(reflections, *r)
	}
	return reflections, rows.Err()
}
