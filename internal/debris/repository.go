package debris

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"empire-server/internal/shared/database"
	"empire-server/internal/shared/errors"
	"empire-server/internal/universe"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing debris repository")

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

func (r *Repository) GetFieldByCoordinates(ctx context.Context, coords universe.Coordinates) (*Field, error) {
	query := `
		SELECT galaxy, system, position, metal, crystal, updated_at
		FROM debris_fields
		WHERE galaxy = $1 AND system = $2 AND position = $3`

	var f Field
	err := r.db.QueryRowContext(ctx, query, coords.Galaxy, coords.System, coords.Position).Scan(
		&f.Coordinates.Galaxy, &f.Coordinates.System, &f.Coordinates.Position,
		&f.Metal, &f.Crystal, &f.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("no debris field at %s", coords.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debris field at %s: %w", coords.String(), err)
	}

	return &f, nil
}

// ListFieldsBySystem returns all debris fields in one system, for the
// galaxy view.
func (r *Repository) ListFieldsBySystem(ctx context.Context, galaxy, system int) ([]Field, error) {
	query := `
		SELECT galaxy, system, position, metal, crystal, updated_at
		FROM debris_fields
		WHERE galaxy = $1 AND system = $2
		ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, galaxy, system)
	if err != nil {
		return nil, fmt.Errorf("failed to query debris fields: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Error("Failed to close rows", "component", "debris_repository", "error", err)
		}
	}()

	var fields []Field
	for rows.Next() {
		var f Field
		err := rows.Scan(
			&f.Coordinates.Galaxy, &f.Coordinates.System, &f.Coordinates.Position,
			&f.Metal, &f.Crystal, &f.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debris field: %w", err)
		}
		fields = append(fields, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debris fields: %w", err)
	}

	return fields, nil
}

// SaveField upserts a field, or removes the row when the collection
// left it depleted.
func (r *Repository) SaveField(ctx context.Context, f *Field, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	if f.Depleted() {
		_, err := exec.ExecContext(ctx,
			`DELETE FROM debris_fields WHERE galaxy = $1 AND system = $2 AND position = $3`,
			f.Coordinates.Galaxy, f.Coordinates.System, f.Coordinates.Position,
		)
		if err != nil {
			return fmt.Errorf("failed to remove depleted debris field at %s: %w", f.Coordinates.String(), err)
		}
		return nil
	}

	query := `
		INSERT INTO debris_fields (galaxy, system, position, metal, crystal, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (galaxy, system, position)
		DO UPDATE SET metal = $4, crystal = $5, updated_at = NOW()`

	_, err := exec.ExecContext(ctx, query,
		f.Coordinates.Galaxy, f.Coordinates.System, f.Coordinates.Position,
		f.Metal, f.Crystal,
	)
	if err != nil {
		return fmt.Errorf("failed to save debris field at %s: %w", f.Coordinates.String(), err)
	}

	return nil
}
