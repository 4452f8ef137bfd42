// internal/database/activity.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/unolabs/uno-service/internal/cache"
)

// InsertActivityBatch writes a batch of drained activity records into the
// game_activity table (game_key, index, actor_id, message, ts). The
// historian calls this after pulling from the Redis queue; the pair forms
// the durable audit trail behind each game's in-memory ActivityLog.
func InsertActivityBatch(ctx context.Context, records []cache.GameActivityRecord) error {
	if len(records) == 0 {
		return nil
	}

	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO game_activity (game_key, index, actor_id, message, ts)
			VALUES ($1, $2, $3, $4, to_timestamp($5 / 1000.0))
			ON CONFLICT (game_key, index) DO NOTHING
		`
		for _, rec := range records {
			if _, err := tx.Exec(ctx, q, rec.GameKey, rec.Index, rec.ActorID, rec.Message, rec.Timestamp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert activity batch: %w", err)
	}
	return nil
}
