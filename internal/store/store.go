// Package store wraps all SQLite access. Each entity gets a small store
// struct; stores hold a DBTX so the completion and redemption flows can run
// several store calls inside one transaction.
package store

import "database/sql"

// DBTX is the subset of *sql.DB and *sql.Tx the stores use.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}
