package planet

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"empire-server/internal/catalog"
	"empire-server/internal/shared/clock"
	"empire-server/internal/shared/config"
	"empire-server/internal/shared/database"
	"empire-server/internal/shared/errors"
	"empire-server/internal/shared/random"
	"empire-server/internal/universe"
)

// Starter balance of every freshly settled planet.
var homeworldResources = catalog.Resources{Metal: 500, Crystal: 500}

const homeworldPlacementAttempts = 50

type Service struct {
	repo   *Repository
	clock  clock.Clock
	seed   random.SeedFunc
	logger *slog.Logger
}

func NewService(repo *Repository, clk clock.Clock, seed random.SeedFunc, logger *slog.Logger) *Service {
	logger.Debug("Initializing planet service")

	return &Service{
		repo:   repo,
		clock:  clk,
		seed:   seed,
		logger: logger,
	}
}

// GetPlanet returns the planet settled to the current instant. The
// settled snapshot is persisted so every read leaves the stored state
// current (lazy settlement, no background process needed).
func (s *Service) GetPlanet(ctx context.Context, id int) (*Planet, error) {
	p, err := s.repo.GetPlanetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	settled := Settle(*p, s.clock.Now())
	if !settled.LastResourceUpdate.Equal(p.LastResourceUpdate) {
		if err := s.repo.SaveState(ctx, &settled, nil); err != nil {
			return nil, fmt.Errorf("failed to persist settlement: %w", err)
		}
	}

	return &settled, nil
}

// GetPlayerPlanets returns a player's planets, each settled to now.
func (s *Service) GetPlayerPlanets(ctx context.Context, playerID int) ([]Planet, error) {
	planets, err := s.repo.GetPlanetsByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	settled := make([]Planet, 0, len(planets))
	for _, p := range planets {
		sp := Settle(p, now)
		if !sp.LastResourceUpdate.Equal(p.LastResourceUpdate) {
			if err := s.repo.SaveState(ctx, &sp, nil); err != nil {
				return nil, fmt.Errorf("failed to persist settlement: %w", err)
			}
		}
		settled = append(settled, sp)
	}

	return settled, nil
}

// CreateHomeworld places a starter planet for a new player at a random
// free position.
func (s *Service) CreateHomeworld(ctx context.Context, playerID int, name string) (*Planet, error) {
	logger := s.logger.With("component", "planet_service", "operation", "create_homeworld", "player_id", playerID)
	logger.Debug("Creating homeworld")

	coords, err := s.findFreePosition(ctx)
	if err != nil {
		logger.Error("Failed to find free position", "error", err)
		return nil, err
	}

	created, err := s.CreateColony(ctx, playerID, coords, name, homeworldResources, nil)
	if err != nil {
		logger.Error("Failed to create homeworld", "error", err)
		return nil, err
	}

	logger.Info("Homeworld created", "planet_id", created.ID, "coordinates", coords.String())
	return created, nil
}

// CreateColony creates a planet at the given coordinates with an
// initial resource drop (a colony ship's cargo, or the starter
// balance). Fails with a conflict error when the position is taken.
func (s *Service) CreateColony(ctx context.Context, playerID int, coords universe.Coordinates, name string, initial catalog.Resources, tx *database.Tx) (*Planet, error) {
	if err := coords.Validate(false); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetPlanetByCoordinates(ctx, coords); err == nil {
		return nil, errors.Conflictf("position %s is already occupied", coords.String())
	} else if errors.GetType(err) != errors.ErrorTypeNotFound {
		return nil, err
	}

	p := Planet{
		PlayerID:           playerID,
		Name:               name,
		Coordinates:        coords,
		Buildings:          map[catalog.BuildingID]int{},
		Ships:              map[catalog.ShipID]int64{},
		LastResourceUpdate: s.clock.Now(),
	}
	p = Recompute(p, config.GlobalConfig.Game.EconomySpeed)
	p = Credit(p, initial)

	return s.repo.CreatePlanet(ctx, &p, tx)
}

func (s *Service) findFreePosition(ctx context.Context) (universe.Coordinates, error) {
	rng := rand.New(rand.NewSource(s.seed()))

	for attempt := 0; attempt < homeworldPlacementAttempts; attempt++ {
		coords := randomCoordinates(rng)

		_, err := s.repo.GetPlanetByCoordinates(ctx, coords)
		if errors.GetType(err) == errors.ErrorTypeNotFound {
			return coords, nil
		}
		if err == nil {
			continue
		}
		return universe.Coordinates{}, err
	}

	return universe.Coordinates{}, errors.Conflictf("no free position found after %d attempts", homeworldPlacementAttempts)
}

// randomCoordinates draws a planetary position (never the expedition
// slot) from the injected source.
func randomCoordinates(rng *rand.Rand) universe.Coordinates {
	return universe.Coordinates{
		Galaxy:   1 + rng.Intn(universe.MaxGalaxy),
		System:   1 + rng.Intn(universe.MaxSystem),
		Position: 1 + rng.Intn(universe.MaxPosition),
	}
}
