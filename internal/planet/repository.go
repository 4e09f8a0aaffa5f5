package planet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"empire-server/internal/catalog"
	"empire-server/internal/shared/database"
	"empire-server/internal/shared/errors"
	"empire-server/internal/universe"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing planet repository")

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

const planetColumns = `
	id, player_id, name, galaxy, system, position,
	metal, crystal, deuterium,
	metal_storage, crystal_storage, deuterium_storage,
	metal_rate, crystal_rate, deuterium_rate,
	energy_produced, energy_used,
	buildings, ships,
	last_resource_update, created_at, updated_at, deleted_at`

func (r *Repository) CreatePlanet(ctx context.Context, p *Planet, tx *database.Tx) (*Planet, error) {
	exec := r.getExecutor(tx)

	logger := r.logger.With(
		"component", "planet_repository",
		"operation", "create_planet",
		"player_id", p.PlayerID,
		"coordinates", p.Coordinates.String(),
	)
	logger.Debug("Creating planet")

	buildingsJSON, shipsJSON, err := marshalMaps(p)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO planets (
			player_id, name, galaxy, system, position,
			metal, crystal, deuterium,
			metal_storage, crystal_storage, deuterium_storage,
			metal_rate, crystal_rate, deuterium_rate,
			energy_produced, energy_used,
			buildings, ships, last_resource_update
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + planetColumns

	row := exec.QueryRowContext(ctx, query,
		p.PlayerID, p.Name, p.Coordinates.Galaxy, p.Coordinates.System, p.Coordinates.Position,
		p.Resources.Metal, p.Resources.Crystal, p.Resources.Deuterium,
		p.Storage.Metal, p.Storage.Crystal, p.Storage.Deuterium,
		p.Rates.Metal, p.Rates.Crystal, p.Rates.Deuterium,
		p.Energy.Produced, p.Energy.Used,
		buildingsJSON, shipsJSON, p.LastResourceUpdate,
	)

	created, err := scanPlanet(row)
	if err != nil {
		logger.Error("Failed to create planet", "error", err)
		return nil, fmt.Errorf("failed to create planet: %w", err)
	}

	logger.Debug("Planet created successfully", "planet_id", created.ID)
	return created, nil
}

func (r *Repository) GetPlanetByID(ctx context.Context, id int) (*Planet, error) {
	query := `SELECT ` + planetColumns + ` FROM planets WHERE id = $1 AND deleted_at IS NULL`

	p, err := scanPlanet(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("planet %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get planet %d: %w", id, err)
	}

	return p, nil
}

func (r *Repository) GetPlanetByCoordinates(ctx context.Context, coords universe.Coordinates) (*Planet, error) {
	query := `SELECT ` + planetColumns + `
		FROM planets
		WHERE galaxy = $1 AND system = $2 AND position = $3 AND deleted_at IS NULL`

	p, err := scanPlanet(r.db.QueryRowContext(ctx, query, coords.Galaxy, coords.System, coords.Position))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("no planet at %s", coords.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get planet at %s: %w", coords.String(), err)
	}

	return p, nil
}

func (r *Repository) GetPlanetsByPlayerID(ctx context.Context, playerID int) ([]Planet, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "get_planets_by_player", "player_id", playerID)
	logger.Debug("Getting planets by player ID")

	query := `SELECT ` + planetColumns + `
		FROM planets
		WHERE player_id = $1 AND deleted_at IS NULL
		ORDER BY galaxy, system, position`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		logger.Error("Failed to query planets", "error", err)
		return nil, fmt.Errorf("failed to query planets: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var planets []Planet
	for rows.Next() {
		p, err := scanPlanetRows(rows)
		if err != nil {
			logger.Error("Failed to scan planet row", "error", err)
			return nil, fmt.Errorf("failed to scan planet: %w", err)
		}
		planets = append(planets, *p)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating planets: %w", err)
	}

	logger.Debug("Planets retrieved", "count", len(planets))
	return planets, nil
}

// MaxBuildingLevelForPlayer returns the highest level of a building
// across all of a player's planets. Research durations use the best
// research lab the player owns.
func (r *Repository) MaxBuildingLevelForPlayer(ctx context.Context, playerID int, building catalog.BuildingID) (int, error) {
	query := `
		SELECT COALESCE(MAX((buildings->>$2)::int), 0)
		FROM planets
		WHERE player_id = $1 AND deleted_at IS NULL AND buildings ? $2`

	var level int
	err := r.db.QueryRowContext(ctx, query, playerID, string(building)).Scan(&level)
	if err != nil {
		return 0, fmt.Errorf("failed to get max %s level for player %d: %w", building, playerID, err)
	}

	return level, nil
}

// SaveState persists the mutable simulation state of a planet:
// resources, rates, storage, energy, building levels, stationed ships
// and the settlement timestamp.
func (r *Repository) SaveState(ctx context.Context, p *Planet, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	buildingsJSON, shipsJSON, err := marshalMaps(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE planets SET
			metal = $2, crystal = $3, deuterium = $4,
			metal_storage = $5, crystal_storage = $6, deuterium_storage = $7,
			metal_rate = $8, crystal_rate = $9, deuterium_rate = $10,
			energy_produced = $11, energy_used = $12,
			buildings = $13, ships = $14,
			last_resource_update = $15, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := exec.ExecContext(ctx, query, p.ID,
		p.Resources.Metal, p.Resources.Crystal, p.Resources.Deuterium,
		p.Storage.Metal, p.Storage.Crystal, p.Storage.Deuterium,
		p.Rates.Metal, p.Rates.Crystal, p.Rates.Deuterium,
		p.Energy.Produced, p.Energy.Used,
		buildingsJSON, shipsJSON, p.LastResourceUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to save planet %d: %w", p.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check planet update: %w", err)
	}
	if affected == 0 {
		return errors.NotFoundf("planet %d not found", p.ID)
	}

	return nil
}

// SoftDelete marks a planet as lost. The row survives for history.
func (r *Repository) SoftDelete(ctx context.Context, id int, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	_, err := exec.ExecContext(ctx, `UPDATE planets SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete planet %d: %w", id, err)
	}

	return nil
}

func marshalMaps(p *Planet) ([]byte, []byte, error) {
	buildings := p.Buildings
	if buildings == nil {
		buildings = map[catalog.BuildingID]int{}
	}
	ships := p.Ships
	if ships == nil {
		ships = map[catalog.ShipID]int64{}
	}

	buildingsJSON, err := json.Marshal(buildings)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal buildings: %w", err)
	}
	shipsJSON, err := json.Marshal(ships)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal ships: %w", err)
	}

	return buildingsJSON, shipsJSON, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlanet(row rowScanner) (*Planet, error) {
	var p Planet
	var buildingsJSON, shipsJSON []byte

	err := row.Scan(
		&p.ID, &p.PlayerID, &p.Name,
		&p.Coordinates.Galaxy, &p.Coordinates.System, &p.Coordinates.Position,
		&p.Resources.Metal, &p.Resources.Crystal, &p.Resources.Deuterium,
		&p.Storage.Metal, &p.Storage.Crystal, &p.Storage.Deuterium,
		&p.Rates.Metal, &p.Rates.Crystal, &p.Rates.Deuterium,
		&p.Energy.Produced, &p.Energy.Used,
		&buildingsJSON, &shipsJSON,
		&p.LastResourceUpdate, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(buildingsJSON, &p.Buildings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal buildings: %w", err)
	}
	if err := json.Unmarshal(shipsJSON, &p.Ships); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ships: %w", err)
	}

	return &p, nil
}

func scanPlanetRows(rows *sql.Rows) (*Planet, error) {
	return scanPlanet(rows)
}
