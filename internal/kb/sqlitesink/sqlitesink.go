// Package sqlitesink is the reference implementation of kb.Sink
// (spec.md §4.8): a single-table, pure-Go SQLite store (modernc.org/
// sqlite, no cgo) that persists a KB's hyperedges as their canonical
// printed text plus their content-derived ID.
package sqlitesink

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/brianmills2718/semantic-hypergraph/internal/kb"
)

const schema = `
CREATE TABLE IF NOT EXISTS edges (
	id       TEXT PRIMARY KEY,
	text     TEXT NOT NULL,
	seq      INTEGER NOT NULL
);
`

// Sink is a kb.Sink backed by a SQLite database file.
type Sink struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitesink: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitesink: creating schema: %w", err)
	}
	return &Sink{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Sink) Close() error { return s.db.Close() }

var _ kb.Sink = (*Sink)(nil)

// Snapshot replaces the table's contents with records, in one
// transaction.
func (s *Sink) Snapshot(records []kb.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlitesink: begin: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM edges"); err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlitesink: clearing table: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO edges (id, text, seq) VALUES (?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlitesink: preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(r.ID, r.Text, i); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlitesink: inserting %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// Restore loads every record currently in the table, ordered by the
// sequence position it was written at (spec.md §4.8's Restore feeds
// these back to KB.Restore in insertion order).
func (s *Sink) Restore() ([]kb.Record, error) {
	rows, err := s.db.Query("SELECT id, text FROM edges ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("sqlitesink: querying edges: %w", err)
	}
	defer rows.Close()

	var records []kb.Record
	for rows.Next() {
		var r kb.Record
		if err := rows.Scan(&r.ID, &r.Text); err != nil {
			return nil, fmt.Errorf("sqlitesink: scanning row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
