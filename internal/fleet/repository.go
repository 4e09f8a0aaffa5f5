package fleet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"empire-server/internal/catalog"
	"empire-server/internal/shared/database"
	"empire-server/internal/shared/errors"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing fleet repository")

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

const missionColumns = `
	id, player_id, origin_planet_id,
	origin_galaxy, origin_system, origin_position,
	dest_galaxy, dest_system, dest_position, dest_kind,
	mission_type, ships,
	cargo_metal, cargo_crystal, cargo_deuterium,
	speed_percent, fuel, state, processed,
	departed_at, arrives_at, returns_at, created_at, updated_at`

func (r *Repository) CreateMission(ctx context.Context, m *Mission, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	logger := r.logger.With(
		"component", "fleet_repository",
		"operation", "create_mission",
		"player_id", m.PlayerID,
		"mission_type", m.Type,
	)
	logger.Debug("Creating mission")

	shipsJSON, err := json.Marshal(m.Ships)
	if err != nil {
		return fmt.Errorf("failed to marshal ships: %w", err)
	}

	query := `
		INSERT INTO fleet_missions (
			player_id, origin_planet_id,
			origin_galaxy, origin_system, origin_position,
			dest_galaxy, dest_system, dest_position, dest_kind,
			mission_type, ships,
			cargo_metal, cargo_crystal, cargo_deuterium,
			speed_percent, fuel, state, processed,
			departed_at, arrives_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, false, $18, $19)
		RETURNING id, created_at, updated_at`

	err = exec.QueryRowContext(ctx, query,
		m.PlayerID, m.OriginPlanetID,
		m.Origin.Galaxy, m.Origin.System, m.Origin.Position,
		m.Destination.Galaxy, m.Destination.System, m.Destination.Position, m.DestinationKind,
		m.Type, shipsJSON,
		m.Cargo.Metal, m.Cargo.Crystal, m.Cargo.Deuterium,
		m.SpeedPercent, m.Fuel, m.State,
		m.DepartedAt, m.ArrivesAt,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		logger.Error("Failed to create mission", "error", err)
		return fmt.Errorf("failed to create mission: %w", err)
	}

	logger.Debug("Mission created", "mission_id", m.ID)
	return nil
}

func (r *Repository) GetMissionByID(ctx context.Context, id int) (*Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM fleet_missions WHERE id = $1`

	m, err := scanMission(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("mission %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mission %d: %w", id, err)
	}

	return m, nil
}

func (r *Repository) ListMissionsByPlayer(ctx context.Context, playerID int) ([]Mission, error) {
	query := `SELECT ` + missionColumns + `
		FROM fleet_missions
		WHERE player_id = $1
		ORDER BY departed_at DESC
		LIMIT 100`

	return r.queryMissions(ctx, query, playerID)
}

// ListDueArrivals returns unprocessed outbound missions whose arrival
// time has elapsed.
func (r *Repository) ListDueArrivals(ctx context.Context, now time.Time) ([]Mission, error) {
	query := `SELECT ` + missionColumns + `
		FROM fleet_missions
		WHERE state = $1 AND processed = false AND arrives_at <= $2
		ORDER BY arrives_at`

	return r.queryMissions(ctx, query, StateOutbound, now)
}

// ListDueReturns returns returning missions whose return time has
// elapsed.
func (r *Repository) ListDueReturns(ctx context.Context, now time.Time) ([]Mission, error) {
	query := `SELECT ` + missionColumns + `
		FROM fleet_missions
		WHERE state = $1 AND returns_at <= $2
		ORDER BY returns_at`

	return r.queryMissions(ctx, query, StateReturning, now)
}

// MarkArrivalProcessed flips the processed flag and reports whether
// this caller won the race. The update is conditioned on
// processed = false so two concurrent evaluators can never both apply
// an arrival.
func (r *Repository) MarkArrivalProcessed(ctx context.Context, id int, tx *database.Tx) (bool, error) {
	exec := r.getExecutor(tx)

	result, err := exec.ExecContext(ctx,
		`UPDATE fleet_missions SET processed = true, updated_at = NOW() WHERE id = $1 AND processed = false`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark mission %d processed: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check mission processing: %w", err)
	}

	return affected > 0, nil
}

// SaveTransition persists the post-arrival state of a mission: new
// state, surviving ships, carried cargo and the return schedule.
func (r *Repository) SaveTransition(ctx context.Context, m *Mission, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	shipsJSON, err := json.Marshal(m.Ships)
	if err != nil {
		return fmt.Errorf("failed to marshal ships: %w", err)
	}

	query := `
		UPDATE fleet_missions SET
			state = $2, ships = $3,
			cargo_metal = $4, cargo_crystal = $5, cargo_deuterium = $6,
			returns_at = $7, updated_at = NOW()
		WHERE id = $1`

	_, err = exec.ExecContext(ctx, query, m.ID,
		m.State, shipsJSON,
		m.Cargo.Metal, m.Cargo.Crystal, m.Cargo.Deuterium,
		m.ReturnsAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save mission %d transition: %w", m.ID, err)
	}

	return nil
}

// ClaimReturn moves a returning mission to completed and reports
// whether this caller won the race.
func (r *Repository) ClaimReturn(ctx context.Context, id int, tx *database.Tx) (bool, error) {
	exec := r.getExecutor(tx)

	result, err := exec.ExecContext(ctx,
		`UPDATE fleet_missions SET state = $2, updated_at = NOW() WHERE id = $1 AND state = $3`,
		id, StateCompleted, StateReturning,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim mission %d return: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check mission return claim: %w", err)
	}

	return affected > 0, nil
}

func (r *Repository) queryMissions(ctx context.Context, query string, args ...interface{}) ([]Mission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query missions: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Error("Failed to close rows", "component", "fleet_repository", "error", err)
		}
	}()

	var missions []Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating missions: %w", err)
	}

	return missions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMission(row rowScanner) (*Mission, error) {
	var m Mission
	var shipsJSON []byte

	err := row.Scan(
		&m.ID, &m.PlayerID, &m.OriginPlanetID,
		&m.Origin.Galaxy, &m.Origin.System, &m.Origin.Position,
		&m.Destination.Galaxy, &m.Destination.System, &m.Destination.Position, &m.DestinationKind,
		&m.Type, &shipsJSON,
		&m.Cargo.Metal, &m.Cargo.Crystal, &m.Cargo.Deuterium,
		&m.SpeedPercent, &m.Fuel, &m.State, &m.Processed,
		&m.DepartedAt, &m.ArrivesAt, &m.ReturnsAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(shipsJSON, &m.Ships); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ships: %w", err)
	}
	if m.Ships == nil {
		m.Ships = map[catalog.ShipID]int64{}
	}

	return &m, nil
}
