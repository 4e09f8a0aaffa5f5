package player

import (
	"context"
	"fmt"
	"log/slog"

	"empire-server/internal/planet"
)

type Service struct {
	repo    *Repository
	planets *planet.Service
	logger  *slog.Logger
}

func NewService(repo *Repository, planets *planet.Service, logger *slog.Logger) *Service {
	logger.Debug("Initializing player service")

	return &Service{
		repo:    repo,
		planets: planets,
		logger:  logger,
	}
}

func (s *Service) GetPlayerByID(ctx context.Context, id int) (*Player, error) {
	return s.repo.GetPlayerByID(ctx, id)
}

func (s *Service) GetPlayerCount(ctx context.Context) (int, error) {
	return s.repo.GetPlayerCount(ctx)
}

// Register creates a player together with their homeworld.
func (s *Service) Register(ctx context.Context, username, email, displayName string) (*Player, error) {
	logger := s.logger.With(
		"component", "player_service",
		"operation", "register",
		"username", username,
	)
	logger.Debug("Registering player")

	p, err := s.repo.CreatePlayer(ctx, username, email, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	homeworld, err := s.planets.CreateHomeworld(ctx, p.ID, fmt.Sprintf("%s Prime", displayName))
	if err != nil {
		logger.Error("Failed to create homeworld", "error", err, "player_id", p.ID)
		return nil, fmt.Errorf("failed to create homeworld: %w", err)
	}

	logger.Info("Player registered", "player_id", p.ID, "homeworld_id", homeworld.ID)
	return p, nil
}
