package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists journal entries in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) a SQLite-backed entry store.
// Use ":memory:" for an ephemeral store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			id    TEXT PRIMARY KEY,
			seq   INTEGER NOT NULL,
			time  TEXT NOT NULL,
			name  TEXT NOT NULL,
			attrs TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_entries_name ON entries(name);
		CREATE INDEX IF NOT EXISTS idx_entries_seq ON entries(seq);
	`)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Append persists a single entry.
func (s *Store) Append(e Entry) error {
	attrs, err := json.Marshal(e.Attrs)
	if err != nil {
		return fmt.Errorf("encoding attrs: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO entries (id, seq, time, name, attrs) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Seq, e.Time.Format(time.RFC3339Nano), e.Name, string(attrs),
	)
	if err != nil {
		return fmt.Errorf("inserting entry %s: %w", e.ID, err)
	}
	return nil
}

// AppendAll persists entries in order inside a single transaction.
func (s *Store) AppendAll(entries []Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO entries (id, seq, time, name, attrs) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range entries {
		e := &entries[i]
		attrs, err := json.Marshal(e.Attrs)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encoding attrs for %s: %w", e.ID, err)
		}
		if _, err := stmt.Exec(e.ID, e.Seq, e.Time.Format(time.RFC3339Nano), e.Name, string(attrs)); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting entry %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// List returns all stored entries in sequence order. A non-empty name
// filters to entries with that name.
func (s *Store) List(name string) ([]Entry, error) {
	query := `SELECT id, seq, time, name, attrs FROM entries ORDER BY seq`
	args := []any{}
	if name != "" {
		query = `SELECT id, seq, time, name, attrs FROM entries WHERE name = ? ORDER BY seq`
		args = append(args, name)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts, attrs string
		if err := rows.Scan(&e.ID, &e.Seq, &ts, &e.Name, &attrs); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Time, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp for %s: %w", e.ID, err)
		}
		if attrs != "" && attrs != "null" {
			if err := json.Unmarshal([]byte(attrs), &e.Attrs); err != nil {
				return nil, fmt.Errorf("decoding attrs for %s: %w", e.ID, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
