package player

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"empire-server/internal/catalog"
	"empire-server/internal/shared/database"
	"empire-server/internal/shared/errors"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing player repository")

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

const playerColumns = `id, username, email, display_name, dark_matter, research, created_at, updated_at`

func (r *Repository) CreatePlayer(ctx context.Context, username, email, displayName string) (*Player, error) {
	logger := r.logger.With(
		"component", "player_repository",
		"operation", "create_player",
		"username", username,
	)
	logger.Debug("Creating player")

	query := `
		INSERT INTO players (username, email, display_name, dark_matter, research)
		VALUES ($1, $2, $3, 0, '{}')
		RETURNING ` + playerColumns

	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, username, email, displayName))
	if err != nil {
		logger.Error("Failed to create player", "error", err)
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	logger.Info("Player created", "player_id", p.ID)
	return p, nil
}

func (r *Repository) GetPlayerByID(ctx context.Context, id int) (*Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("player %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}

	return p, nil
}

func (r *Repository) GetPlayerByUsername(ctx context.Context, username string) (*Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE username = $1`

	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, username))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("player %q not found", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %q: %w", username, err)
	}

	return p, nil
}

func (r *Repository) GetPlayerCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

// SaveResearch persists a player's research levels.
func (r *Repository) SaveResearch(ctx context.Context, playerID int, research map[catalog.ResearchID]int, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	if research == nil {
		research = map[catalog.ResearchID]int{}
	}
	researchJSON, err := json.Marshal(research)
	if err != nil {
		return fmt.Errorf("failed to marshal research: %w", err)
	}

	result, err := exec.ExecContext(ctx,
		`UPDATE players SET research = $2, updated_at = NOW() WHERE id = $1`,
		playerID, researchJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save research for player %d: %w", playerID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check research update: %w", err)
	}
	if affected == 0 {
		return errors.NotFoundf("player %d not found", playerID)
	}

	return nil
}

// AddDarkMatter credits dark matter won on expeditions.
func (r *Repository) AddDarkMatter(ctx context.Context, playerID int, amount float64, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	_, err := exec.ExecContext(ctx,
		`UPDATE players SET dark_matter = dark_matter + $2, updated_at = NOW() WHERE id = $1`,
		playerID, amount,
	)
	if err != nil {
		return fmt.Errorf("failed to add dark matter to player %d: %w", playerID, err)
	}

	return nil
}

func scanPlayer(row *sql.Row) (*Player, error) {
	var p Player
	var researchJSON []byte

	err := row.Scan(&p.ID, &p.Username, &p.Email, &p.DisplayName, &p.DarkMatter, &researchJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(researchJSON, &p.Research); err != nil {
		return nil, fmt.Errorf("failed to unmarshal research: %w", err)
	}

	return &p, nil
}
