// internal/database/snapshot.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotStore persists flat game records in the uno_snapshots table
// (game_key text primary key, record jsonb, abandoned bool, updated_at).
// It satisfies the engine's storage contract; the engine never sees SQL.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

// NewSnapshotStore wraps an existing pool. Pass database.DB after ConnectDB.
func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Write upserts the record for a game key.
func (s *SnapshotStore) Write(ctx context.Context, key string, record []byte) error {
	q := `
		INSERT INTO uno_snapshots (game_key, record, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (game_key)
		DO UPDATE SET record = $2, abandoned = false, updated_at = now()
	`
	if _, err := s.pool.Exec(ctx, q, key, record); err != nil {
		return fmt.Errorf("upsert snapshot %q: %w", key, err)
	}
	return nil
}

// Read returns the stored record for a game key.
func (s *SnapshotStore) Read(ctx context.Context, key string) ([]byte, error) {
	var record []byte
	q := `SELECT record FROM uno_snapshots WHERE game_key = $1`
	if err := s.pool.QueryRow(ctx, q, key).Scan(&record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no snapshot for %q", key)
		}
		return nil, fmt.Errorf("read snapshot %q: %w", key, err)
	}
	return record, nil
}

// MarkAbandoned flags snapshots whose games went quiet. Used by the
// historian's inactivity sweep; abandoned snapshots stay loadable.
func (s *SnapshotStore) MarkAbandoned(ctx context.Context, key string) error {
	q := `UPDATE uno_snapshots SET abandoned = true, updated_at = now() WHERE game_key = $1`
	if _, err := s.pool.Exec(ctx, q, key); err != nil {
		return fmt.Errorf("mark snapshot %q abandoned: %w", key, err)
	}
	return nil
}
