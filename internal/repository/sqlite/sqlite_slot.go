package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"alcyxob/fitcrm/internal/repository"
)

// SQLiteSlot implements repository.CollectionSlot on a single-row slot
// table. One database can carry several named slots, though this tool
// only ever uses one.
type SQLiteSlot struct {
	db   *sql.DB
	name string
}

// Open opens (creating if necessary) the slot database at path and
// prepares the slot table.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite slot: path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite slot: open %s: %w", path, err)
	}
	// The whole collection is written in one statement per mutation;
	// a single connection avoids SQLITE_BUSY between overlapping requests.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS collection_slot (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite slot: create table: %w", err)
	}
	return db, nil
}

// NewSQLiteSlot creates a slot bound to one row of the slot table.
func NewSQLiteSlot(db *sql.DB, name string) *SQLiteSlot {
	return &SQLiteSlot{db: db, name: name}
}

// Load reads the slot row. A missing row means the slot was never
// written and returns (nil, nil).
func (s *SQLiteSlot) Load(ctx context.Context) ([]byte, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT data FROM collection_slot WHERE name = ?", s.name)

	var data []byte
	err := row.Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite slot: load %q: %w", s.name, err)
	}
	return data, nil
}

// Save replaces the slot row content.
func (s *SQLiteSlot) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO collection_slot (name, data) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data`,
		s.name, data)
	if err != nil {
		return fmt.Errorf("sqlite slot: save %q: %w", s.name, err)
	}
	return nil
}

var _ repository.CollectionSlot = (*SQLiteSlot)(nil)
