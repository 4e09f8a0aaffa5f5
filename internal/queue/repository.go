package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"empire-server/internal/shared/database"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing queue repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

const entryColumns = `id, kind, owner_id, target_id, target_level, metal_cost, crystal_cost, deuterium_cost, started_at, finishes_at`

// ListEntries returns a queue in processing order.
func (r *Repository) ListEntries(ctx context.Context, kind Kind, ownerID int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM queue_entries
		WHERE kind = $1 AND owner_id = $2
		ORDER BY started_at, id`

	rows, err := r.db.QueryContext(ctx, query, kind, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query queue entries: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Error("Failed to close rows", "component", "queue_repository", "error", err)
		}
	}()

	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(
			&e.ID, &e.Kind, &e.OwnerID, &e.TargetID, &e.TargetLevel,
			&e.Cost.Metal, &e.Cost.Crystal, &e.Cost.Deuterium,
			&e.StartedAt, &e.FinishesAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queue entries: %w", err)
	}

	return entries, nil
}

func (r *Repository) InsertEntry(ctx context.Context, e *Entry, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	query := `
		INSERT INTO queue_entries (kind, owner_id, target_id, target_level, metal_cost, crystal_cost, deuterium_cost, started_at, finishes_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		e.Kind, e.OwnerID, e.TargetID, e.TargetLevel,
		e.Cost.Metal, e.Cost.Crystal, e.Cost.Deuterium,
		e.StartedAt, e.FinishesAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to insert queue entry: %w", err)
	}

	return nil
}

// ClaimEntry deletes an entry and reports whether this caller won the
// race. A concurrent evaluator that already applied the entry leaves
// nothing to delete, so the second claim is a no-op.
func (r *Repository) ClaimEntry(ctx context.Context, id int, tx *database.Tx) (bool, error) {
	exec := r.getExecutor(tx)

	result, err := exec.ExecContext(ctx, `DELETE FROM queue_entries WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to claim queue entry %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check queue entry claim: %w", err)
	}

	return affected > 0, nil
}

// ListDueOwners returns the owners that have at least one due entry.
// Used by the sweep job; correctness never depends on it because every
// read path advances its own queue first.
func (r *Repository) ListDueOwners(ctx context.Context, kind Kind, now time.Time) ([]int, error) {
	query := `SELECT DISTINCT owner_id FROM queue_entries WHERE kind = $1 AND finishes_at <= $2`

	rows, err := r.db.QueryContext(ctx, query, kind, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due owners: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Error("Failed to close rows", "component", "queue_repository", "error", err)
		}
	}()

	var owners []int
	for rows.Next() {
		var owner int
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("failed to scan owner id: %w", err)
		}
		owners = append(owners, owner)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due owners: %w", err)
	}

	return owners, nil
}
