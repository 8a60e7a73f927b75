// Package sqlite keeps the catalog snapshot in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GoSim-25-26J-441/product-catalog/internal/storage"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

const defaultPath = "catalog.db"

// Slot persists the snapshot as one row of the state table.
type Slot struct {
	db     *sql.DB
	bucket string
	path   string
}

// Open creates the database file (and its directory) if needed.
func Open(path, bucket string) (*Slot, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	slot, err := New(db, bucket)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	slot.path = path
	return slot, nil
}

// New uses an already opened database and makes sure the state table exists.
func New(db *sql.DB, bucket string) (*Slot, error) {
	if bucket == "" {
		bucket = storage.DefaultKey
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Slot{db: db, bucket: bucket}, nil
}

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, s.bucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	return payload, nil
}

func (s *Slot) Write(ctx context.Context, data []byte) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
		s.bucket, data); err != nil {
		return fmt.Errorf("upsert %s: %w", s.bucket, err)
	}
	return nil
}

func (s *Slot) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Slot) Close() error { return s.db.Close() }

func (s *Slot) Driver() storage.Driver { return storage.DriverSQLite }

// Path returns the database file, empty when the slot wraps a caller-owned *sql.DB.
func (s *Slot) Path() string { return s.path }
