package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/dagviewer/pkg/viewer"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS viewers (
  id TEXT PRIMARY KEY,
  state TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`

// SQLiteStore keeps state as JSON rows in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates if needed) the database at path.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store needs a path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite doesn't support concurrent writes.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (viewer.State, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM viewers WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return viewer.State{}, notFound(id)
	}
	if err != nil {
		return viewer.State{}, fmt.Errorf("query viewer: %w", err)
	}

	var st viewer.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return viewer.State{}, fmt.Errorf("parse viewer %s: %w", id, err)
	}
	return st, nil
}

func (s *SQLiteStore) Put(ctx context.Context, st viewer.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal viewer: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO viewers (id, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		st.ID, string(raw), st.UpdatedAt.Format("2006-01-02T15:04:05.000Z07:00"))
	if err != nil {
		return fmt.Errorf("save viewer: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM viewers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete viewer: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
