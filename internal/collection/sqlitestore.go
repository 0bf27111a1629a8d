// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/pdiddy/docparse/pkg/types"
)

const metaNextID = "next_id"

// SQLiteStore keeps the collection in a SQLite database: one row per paper,
// ordered by position, plus a meta row holding next_id. Each Save replaces
// the whole collection in a single transaction.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens or creates the database at path and its schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id INTEGER PRIMARY KEY,
			position INTEGER NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			abstract TEXT NOT NULL,
			added_date TEXT NOT NULL,
			markdown TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_position ON papers(position)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Load reads all papers in position order and the stored next_id. Rows
// whose dates cannot be parsed mark the database as corrupt; the corruption
// is logged and an empty state returned.
func (s *SQLiteStore) Load() (types.CollectionState, error) {
	ctx := context.Background()
	state := types.EmptyState()

	var next int
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, metaNextID).Scan(&next)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return types.CollectionState{}, &types.IOError{Op: "reading", Path: s.path, Err: err}
	default:
		state.NextID = next
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, title, abstract, added_date, markdown FROM papers ORDER BY position`)
	if err != nil {
		return types.CollectionState{}, &types.IOError{Op: "reading", Path: s.path, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p     types.Paper
			added string
		)
		if err := rows.Scan(&p.ID, &p.URL, &p.Title, &p.Abstract, &added, &p.FullText); err != nil {
			return types.CollectionState{}, &types.IOError{Op: "reading", Path: s.path, Err: err}
		}
		p.AddedDate, err = types.ParseTimestamp(added)
		if err != nil {
			log.Warn().
				Err(fmt.Errorf("%w: paper %d: %v", types.ErrStorageCorrupt, p.ID, err)).
				Str("path", s.path).
				Msg("starting with an empty collection")
			return types.EmptyState(), nil
		}
		state.Papers = append(state.Papers, p)
	}
	if err := rows.Err(); err != nil {
		return types.CollectionState{}, &types.IOError{Op: "reading", Path: s.path, Err: err}
	}

	state.Normalize()
	return state, nil
}

// Save replaces the stored collection with state.
func (s *SQLiteStore) Save(state types.CollectionState) error {
	if err := s.save(context.Background(), state); err != nil {
		return &types.IOError{Op: "saving", Path: s.path, Err: err}
	}
	return nil
}

func (s *SQLiteStore) save(ctx context.Context, state types.CollectionState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM papers`); err != nil {
		return fmt.Errorf("clearing papers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, position, url, title, abstract, added_date, markdown)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range state.Papers {
		if _, err := stmt.ExecContext(ctx, p.ID, i, p.URL, p.Title, p.Abstract,
			p.AddedDate.Format(time.RFC3339Nano), p.FullText); err != nil {
			return fmt.Errorf("inserting paper %d: %w", p.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		metaNextID, state.NextID); err != nil {
		return fmt.Errorf("storing next_id: %w", err)
	}

	return tx.Commit()
}
