// Package storage provides the SQLite-backed note store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/sessionscribe/scribe/internal/model/note"
)

// SQLiteStore implements note.Store on a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and applies
// the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			date TEXT NOT NULL,
			notes TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			UNIQUE (name, date)
		);
		CREATE INDEX IF NOT EXISTS idx_notes_name ON notes(name);
		CREATE INDEX IF NOT EXISTS idx_notes_date ON notes(date);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate notes schema: %w", err)
	}
	return nil
}

// Save inserts a note. A clash on (name, date) yields note.ErrDuplicate; an id
// clash is reported as a plain insert error.
func (s *SQLiteStore) Save(ctx context.Context, n note.Note) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notes(id, name, date, notes, created_at) VALUES(?, ?, ?, ?, ?)",
		n.ID, n.Name, n.Date, n.Notes, n.CreatedAt,
	)
	if err != nil {
		if isDuplicateNote(err) {
			return note.ErrDuplicate
		}
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// List returns every note in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]note.Note, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, date, notes, created_at FROM notes ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []note.Note{}
	for rows.Next() {
		var n note.Note
		if err := rows.Scan(&n.ID, &n.Name, &n.Date, &n.Notes, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isDuplicateNote matches only the UNIQUE (name, date) constraint. The id
// column is a PRIMARY KEY and fails with a different extended code.
func isDuplicateNote(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
