// Package postgres keeps the catalog snapshot in a JSONB row of a state table.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/product-catalog/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const ensureStateTable = `
create table if not exists state (
	bucket text primary key,
	payload jsonb not null,
	updated_at timestamptz not null default now()
);
`

// Querier is the subset of *pgxpool.Pool the slot needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Slot persists the snapshot as a single row keyed by bucket.
type Slot struct {
	db     Querier
	bucket string
}

// New ensures the state table exists. The slot takes ownership of db.
func New(ctx context.Context, db Querier, bucket string) (*Slot, error) {
	if bucket == "" {
		bucket = storage.DefaultKey
	}
	if _, err := db.Exec(ctx, ensureStateTable); err != nil {
		return nil, fmt.Errorf("ensure state table: %w", err)
	}
	return &Slot{db: db, bucket: bucket}, nil
}

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	const q = `select payload from state where bucket = $1;`

	var payload []byte
	err := s.db.QueryRow(ctx, q, s.bucket).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	return payload, nil
}

func (s *Slot) Write(ctx context.Context, data []byte) error {
	const q = `
insert into state (bucket, payload, updated_at)
values ($1, $2::jsonb, now())
on conflict (bucket) do update set payload = excluded.payload, updated_at = now();
`
	if _, err := s.db.Exec(ctx, q, s.bucket, string(data)); err != nil {
		return fmt.Errorf("upsert %s: %w", s.bucket, err)
	}
	return nil
}

func (s *Slot) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

func (s *Slot) Close() error {
	s.db.Close()
	return nil
}

func (s *Slot) Driver() storage.Driver { return storage.DriverPostgres }
