// Package localstore keeps named durable slots in an on-device SQLite file.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/dtroode/certdash/internal/model"
)

var _ model.LocalSlot = (*Slot)(nil)

// Slot is one named value in the slots table. Several slots may share a database.
type Slot struct {
	db   *sql.DB
	name string
	own  bool
}

// Open opens (creating if needed) the SQLite file at path and returns the slot called name.
func Open(path, name string) (*Slot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slot, err := NewSlot(context.Background(), db, name)
	if err != nil {
		db.Close()
		return nil, err
	}
	slot.own = true

	return slot, nil
}

// NewSlot returns the slot called name in db, creating the slots table if needed.
func NewSlot(ctx context.Context, db *sql.DB, name string) (*Slot, error) {
	const schema = `
		CREATE TABLE IF NOT EXISTS slots (
			name       TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create slots table: %w", err)
	}

	return &Slot{db: db, name: name}, nil
}

// Read returns the stored value, or nil when the slot has never been written.
func (s *Slot) Read() ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(context.Background(), `SELECT value FROM slots WHERE name = ?`, s.name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", s.name, err)
	}
	return data, nil
}

// Write replaces the stored value.
func (s *Slot) Write(data []byte) error {
	const query = `
		INSERT INTO slots (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(context.Background(), query, s.name, data); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", s.name, err)
	}
	return nil
}

// Close closes the database when the slot opened it.
func (s *Slot) Close() error {
	if s.own && s.db != nil {
		return s.db.Close()
	}
	return nil
}
