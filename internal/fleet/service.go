package fleet

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"empire-server/internal/catalog"
	"empire-server/internal/debris"
	"empire-server/internal/expedition"
	"empire-server/internal/planet"
	"empire-server/internal/player"
	"empire-server/internal/shared/clock"
	"empire-server/internal/shared/config"
	"empire-server/internal/shared/database"
	"empire-server/internal/shared/errors"
	"empire-server/internal/shared/events"
	"empire-server/internal/shared/random"
)

type Service struct {
	repo       *Repository
	planets    *planet.Repository
	colonies   *planet.Service
	players    *player.Repository
	debris     *debris.Repository
	db         *database.DB
	clock      clock.Clock
	dispatcher events.Dispatcher
	seed       random.SeedFunc
	logger     *slog.Logger
}

func NewService(
	repo *Repository,
	planets *planet.Repository,
	colonies *planet.Service,
	players *player.Repository,
	debrisRepo *debris.Repository,
	db *database.DB,
	clk clock.Clock,
	dispatcher events.Dispatcher,
	seed random.SeedFunc,
	logger *slog.Logger,
) *Service {
	logger.Debug("Initializing fleet service")

	return &Service{
		repo:       repo,
		planets:    planets,
		colonies:   colonies,
		players:    players,
		debris:     debrisRepo,
		db:         db,
		clock:      clk,
		dispatcher: dispatcher,
		seed:       seed,
		logger:     logger,
	}
}

// GetMission returns a mission if it belongs to the player. Due
// transitions are applied first, so the read reflects the current
// instant whether or not a sweeper is running.
func (s *Service) GetMission(ctx context.Context, playerID, missionID int) (*Mission, error) {
	m, err := s.repo.GetMissionByID(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if m.PlayerID != playerID {
		return nil, errors.Forbidden("mission belongs to another player")
	}
	return s.settleMission(ctx, *m)
}

// ListMissions returns a player's recent missions, with any due
// arrivals and returns applied.
func (s *Service) ListMissions(ctx context.Context, playerID int) ([]Mission, error) {
	missions, err := s.repo.ListMissionsByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	for i := range missions {
		if !missionDue(missions[i], now) {
			continue
		}
		settled, err := s.settleMission(ctx, missions[i])
		if err != nil {
			return nil, err
		}
		missions[i] = *settled
	}
	return missions, nil
}

// settleMission walks a mission through every transition it is due
// for and returns the current row. The processed flag and state guards
// inside ResolveArrival and ResolveReturn make concurrent settlement
// against the sweeper safe.
func (s *Service) settleMission(ctx context.Context, m Mission) (*Mission, error) {
	now := s.clock.Now()

	if m.State == StateOutbound && !m.Processed && !m.ArrivesAt.After(now) {
		if err := s.ResolveArrival(ctx, m, now); err != nil {
			return nil, err
		}
		refreshed, err := s.repo.GetMissionByID(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		m = *refreshed
	}

	if m.State == StateReturning && m.ReturnsAt != nil && !m.ReturnsAt.After(now) {
		if err := s.ResolveReturn(ctx, m, now); err != nil {
			return nil, err
		}
		refreshed, err := s.repo.GetMissionByID(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		m = *refreshed
	}

	return &m, nil
}

func missionDue(m Mission, now time.Time) bool {
	switch m.State {
	case StateOutbound:
		return !m.Processed && !m.ArrivesAt.After(now)
	case StateReturning:
		return m.ReturnsAt != nil && !m.ReturnsAt.After(now)
	default:
		return false
	}
}

// Dispatch validates and launches a mission from one of the player's
// planets. Ships, cargo and fuel leave the planet atomically with the
// mission insert.
func (s *Service) Dispatch(ctx context.Context, playerID int, req DispatchRequest) (*Mission, error) {
	logger := s.logger.With(
		"component", "fleet_service",
		"operation", "dispatch",
		"player_id", playerID,
		"origin_planet_id", req.OriginPlanetID,
		"mission_type", req.Type,
	)
	logger.Debug("Dispatching fleet")

	origin, err := s.planets.GetPlanetByID(ctx, req.OriginPlanetID)
	if err != nil {
		return nil, err
	}
	if origin.PlayerID != playerID {
		return nil, errors.Forbidden("planet belongs to another player")
	}

	now := s.clock.Now()
	settled := planet.Settle(origin.CloneMaps(), now)

	mission, err := planDispatch(settled, req, config.GlobalConfig.Game.FleetSpeed, now)
	if err != nil {
		return nil, err
	}

	charge := mission.Cargo.Add(catalog.Resources{Deuterium: mission.Fuel})
	settled, err = planet.Debit(settled, charge)
	if err != nil {
		return nil, err
	}

	for id, count := range mission.Ships {
		remaining := settled.Ships[id] - count
		if remaining > 0 {
			settled.Ships[id] = remaining
		} else {
			delete(settled.Ships, id)
		}
	}

	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback(tx, s.logger)

	if err := s.planets.SaveState(ctx, &settled, tx); err != nil {
		logger.Error("Failed to save origin planet", "error", err)
		return nil, err
	}
	if err := s.repo.CreateMission(ctx, &mission, tx); err != nil {
		logger.Error("Failed to create mission", "error", err)
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.dispatcher.Publish(ctx, events.New(events.EventMissionDispatched, playerID, now, map[string]interface{}{
		"mission_id":   mission.ID,
		"mission_type": string(mission.Type),
		"destination":  mission.Destination.String(),
		"arrives_at":   mission.ArrivesAt,
	}))

	logger.Info("Fleet dispatched",
		"mission_id", mission.ID,
		"arrives_at", mission.ArrivesAt,
		"fuel", mission.Fuel,
	)
	return &mission, nil
}

// ResolveArrival applies a mission's effect at its destination. The
// arrival is claimed with a compare-and-swap on the processed flag, so
// two evaluators racing on the same mission apply it exactly once.
// Callers pass now from the sweeper or a settle-on-read path; arrivals
// before now are the only ones applied.
func (s *Service) ResolveArrival(ctx context.Context, mission Mission, now time.Time) error {
	if mission.State != StateOutbound || mission.Processed || mission.ArrivesAt.After(now) {
		return nil
	}

	logger := s.logger.With(
		"component", "fleet_service",
		"operation", "resolve_arrival",
		"mission_id", mission.ID,
		"mission_type", mission.Type,
	)

	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return err
	}
	defer rollback(tx, s.logger)

	claimed, err := s.repo.MarkArrivalProcessed(ctx, mission.ID, tx)
	if err != nil {
		return err
	}
	if !claimed {
		// A concurrent evaluator got there first. Benign.
		return nil
	}
	mission.Processed = true

	switch mission.Type {
	case MissionTransport, MissionDeployment:
		err = s.arriveDelivery(ctx, &mission, tx, logger)
	case MissionColonization:
		err = s.arriveColonization(ctx, &mission, tx, logger)
	case MissionExpedition:
		err = s.arriveExpedition(ctx, &mission, tx, logger)
	case MissionRecycle:
		err = s.arriveRecycle(ctx, &mission, tx, logger)
	default:
		// Attack and espionage currently turn around at the target.
		s.scheduleReturn(&mission, 1.0)
		err = s.repo.SaveTransition(ctx, &mission, tx)
	}
	if err != nil {
		logger.Error("Failed to resolve arrival", "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.dispatcher.Publish(ctx, events.New(events.EventMissionArrived, mission.PlayerID, mission.ArrivesAt, map[string]interface{}{
		"mission_id":   mission.ID,
		"mission_type": string(mission.Type),
		"destination":  mission.Destination.String(),
		"state":        string(mission.State),
	}))

	logger.Info("Mission arrival resolved", "state", mission.State)
	return nil
}

// arriveDelivery drops the cargo at the destination. Landing on the
// player's own planet merges the ships and ends the mission; anything
// else unloads and turns the fleet around.
func (s *Service) arriveDelivery(ctx context.Context, mission *Mission, tx *database.Tx, logger *slog.Logger) error {
	target, err := s.planets.GetPlanetByCoordinates(ctx, mission.Destination)
	if err != nil && errors.GetType(err) != errors.ErrorTypeNotFound {
		return err
	}

	if target == nil {
		// Nothing there to deliver to; haul everything back.
		s.scheduleReturn(mission, 1.0)
		return s.repo.SaveTransition(ctx, mission, tx)
	}

	settled := planet.Settle(target.CloneMaps(), mission.ArrivesAt)
	settled = planet.Credit(settled, mission.Cargo)
	mission.Cargo = catalog.Resources{}

	if target.PlayerID == mission.PlayerID {
		// The fleet lands and stations at the player's own planet.
		for id, count := range mission.Ships {
			settled.Ships[id] += count
		}
		mission.Ships = map[catalog.ShipID]int64{}
		mission.State = StateCompleted
	} else {
		s.scheduleReturn(mission, 1.0)
	}

	if err := s.planets.SaveState(ctx, &settled, tx); err != nil {
		return err
	}
	return s.repo.SaveTransition(ctx, mission, tx)
}

// arriveColonization consumes one colony ship to found a planet at the
// destination, seeding it with the mission cargo. The remaining escort
// is stationed on the new colony. An occupied position sends the whole
// fleet home with its cargo.
func (s *Service) arriveColonization(ctx context.Context, mission *Mission, tx *database.Tx, logger *slog.Logger) error {
	colony, err := s.colonies.CreateColony(ctx, mission.PlayerID, mission.Destination, "Colony "+mission.Destination.String(), mission.Cargo, tx)
	if errors.IsConflict(err) {
		logger.Info("Colonization target occupied, fleet returning")
		s.scheduleReturn(mission, 1.0)
		return s.repo.SaveTransition(ctx, mission, tx)
	}
	if err != nil {
		return err
	}

	if mission.Ships[catalog.ColonyShip] > 1 {
		mission.Ships[catalog.ColonyShip]--
	} else {
		delete(mission.Ships, catalog.ColonyShip)
	}

	for id, count := range mission.Ships {
		colony.Ships[id] += count
	}
	mission.Ships = map[catalog.ShipID]int64{}
	mission.Cargo = catalog.Resources{}
	mission.State = StateCompleted

	if err := s.planets.SaveState(ctx, colony, tx); err != nil {
		return err
	}
	if err := s.repo.SaveTransition(ctx, mission, tx); err != nil {
		return err
	}

	s.dispatcher.Publish(ctx, events.New(events.EventPlanetColonized, mission.PlayerID, mission.ArrivesAt, map[string]interface{}{
		"mission_id":  mission.ID,
		"planet_id":   colony.ID,
		"coordinates": mission.Destination.String(),
	}))

	logger.Info("Colony founded", "planet_id", colony.ID, "coordinates", mission.Destination.String())
	return nil
}

// arriveExpedition rolls the weighted outcome table and folds the
// result into the return leg: found resources fill free hold space,
// found ships join the fleet, losses shrink it, and a black hole ends
// it outright.
func (s *Service) arriveExpedition(ctx context.Context, mission *Mission, tx *database.Tx, logger *slog.Logger) error {
	rng := rand.New(rand.NewSource(s.seed()))
	outcome := expedition.Resolve(catalog.FleetPower(mission.Ships), rng)

	logger = logger.With("expedition_event", outcome.Event)

	if outcome.FleetDestroyed {
		mission.Ships = map[catalog.ShipID]int64{}
		mission.Cargo = catalog.Resources{}
		mission.State = StateDestroyed
		if err := s.repo.SaveTransition(ctx, mission, tx); err != nil {
			return err
		}
		s.publishExpedition(ctx, mission, outcome)
		logger.Info("Expedition fleet lost")
		return nil
	}

	if outcome.ShipLossFactor > 0 {
		for id, count := range mission.Ships {
			survivors := int64(math.Floor(float64(count) * (1 - outcome.ShipLossFactor)))
			if survivors > 0 {
				mission.Ships[id] = survivors
			} else {
				delete(mission.Ships, id)
			}
		}
		if len(mission.Ships) == 0 {
			mission.Cargo = catalog.Resources{}
			mission.State = StateDestroyed
			if err := s.repo.SaveTransition(ctx, mission, tx); err != nil {
				return err
			}
			s.publishExpedition(ctx, mission, outcome)
			logger.Info("Expedition fleet lost to an encounter")
			return nil
		}
	}

	for id, count := range outcome.Ships {
		if count > 0 {
			mission.Ships[id] += count
		}
	}

	if !outcome.Resources.IsZero() {
		free := catalog.CargoCapacity(mission.Ships) - mission.Cargo.Total()
		mission.Cargo = mission.Cargo.Add(fitToCapacity(outcome.Resources, free))
	}

	if outcome.DarkMatter > 0 {
		if err := s.players.AddDarkMatter(ctx, mission.PlayerID, outcome.DarkMatter, tx); err != nil {
			return err
		}
	}

	s.scheduleReturn(mission, outcome.TimeModifier)
	if err := s.repo.SaveTransition(ctx, mission, tx); err != nil {
		return err
	}

	s.publishExpedition(ctx, mission, outcome)
	logger.Info("Expedition resolved", "returns_at", mission.ReturnsAt)
	return nil
}

func (s *Service) publishExpedition(ctx context.Context, mission *Mission, outcome expedition.Outcome) {
	s.dispatcher.Publish(ctx, events.New(events.EventExpeditionResolved, mission.PlayerID, mission.ArrivesAt, map[string]interface{}{
		"mission_id":  mission.ID,
		"event":       string(outcome.Event),
		"dark_matter": outcome.DarkMatter,
		"destroyed":   outcome.FleetDestroyed,
	}))
}

// arriveRecycle loads debris into the recyclers' holds. A vanished
// field just means an empty-handed return.
func (s *Service) arriveRecycle(ctx context.Context, mission *Mission, tx *database.Tx, logger *slog.Logger) error {
	field, err := s.debris.GetFieldByCoordinates(ctx, mission.Destination)
	if errors.GetType(err) == errors.ErrorTypeNotFound {
		logger.Info("Debris field gone, fleet returning empty")
		s.scheduleReturn(mission, 1.0)
		return s.repo.SaveTransition(ctx, mission, tx)
	}
	if err != nil {
		return err
	}

	remaining, collected, err := debris.Collect(*field, mission.Ships[catalog.Recycler])
	if err != nil {
		return err
	}

	if err := s.debris.SaveField(ctx, &remaining, tx); err != nil {
		return err
	}

	mission.Cargo = mission.Cargo.Add(catalog.Resources{Metal: collected.Metal, Crystal: collected.Crystal})
	s.scheduleReturn(mission, 1.0)
	if err := s.repo.SaveTransition(ctx, mission, tx); err != nil {
		return err
	}

	s.dispatcher.Publish(ctx, events.New(events.EventDebrisCollected, mission.PlayerID, mission.ArrivesAt, map[string]interface{}{
		"mission_id":     mission.ID,
		"coordinates":    mission.Destination.String(),
		"metal":          collected.Metal,
		"crystal":        collected.Crystal,
		"field_depleted": collected.FieldDepleted,
	}))

	logger.Info("Debris collected",
		"metal", collected.Metal,
		"crystal", collected.Crystal,
		"field_depleted", collected.FieldDepleted,
	)
	return nil
}

// ResolveReturn lands a returning fleet: ships rejoin the origin
// planet and the hauled cargo is credited. If the origin planet is
// gone the fleet falls back to the player's first remaining planet.
func (s *Service) ResolveReturn(ctx context.Context, mission Mission, now time.Time) error {
	if mission.State != StateReturning || mission.ReturnsAt == nil || mission.ReturnsAt.After(now) {
		return nil
	}

	logger := s.logger.With(
		"component", "fleet_service",
		"operation", "resolve_return",
		"mission_id", mission.ID,
		"mission_type", mission.Type,
	)

	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return err
	}
	defer rollback(tx, s.logger)

	claimed, err := s.repo.ClaimReturn(ctx, mission.ID, tx)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}
	mission.State = StateCompleted

	home, err := s.landingPlanet(ctx, &mission)
	if err != nil {
		return err
	}

	if home == nil {
		// No planet left to land on. Fleet and cargo are lost.
		logger.Warn("No planet left for returning fleet")
	} else {
		settled := planet.Settle(home.CloneMaps(), *mission.ReturnsAt)
		settled = planet.Credit(settled, mission.Cargo)
		for id, count := range mission.Ships {
			settled.Ships[id] += count
		}
		if err := s.planets.SaveState(ctx, &settled, tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.dispatcher.Publish(ctx, events.New(events.EventMissionReturned, mission.PlayerID, *mission.ReturnsAt, map[string]interface{}{
		"mission_id":   mission.ID,
		"mission_type": string(mission.Type),
		"cargo_total":  mission.Cargo.Total(),
		"ships":        catalog.TotalShips(mission.Ships),
	}))

	logger.Info("Mission returned")
	return nil
}

func (s *Service) landingPlanet(ctx context.Context, mission *Mission) (*planet.Planet, error) {
	home, err := s.planets.GetPlanetByID(ctx, mission.OriginPlanetID)
	if err == nil {
		return home, nil
	}
	if errors.GetType(err) != errors.ErrorTypeNotFound {
		return nil, err
	}

	planets, err := s.planets.GetPlanetsByPlayerID(ctx, mission.PlayerID)
	if err != nil {
		return nil, err
	}
	if len(planets) == 0 {
		return nil, nil
	}
	return &planets[0], nil
}

// scheduleReturn flips the mission to its return leg. The return
// duration mirrors the outbound one, scaled by expedition delay or
// speed-bonus modifiers.
func (s *Service) scheduleReturn(mission *Mission, modifier float64) {
	duration := time.Duration(float64(mission.OutboundDuration()) * modifier)
	if duration < catalog.MinDuration {
		duration = catalog.MinDuration
	}
	returnsAt := mission.ArrivesAt.Add(duration)
	mission.ReturnsAt = &returnsAt
	mission.State = StateReturning
}

func rollback(tx *database.Tx, logger *slog.Logger) {
	if err := tx.Rollback(); err != nil && err.Error() != "sql: transaction has already been committed or rolled back" {
		logger.Error("Failed to rollback transaction", "error", err)
	}
}

// fitToCapacity shrinks a resource find so it fits the free hold
// space, preferring metal, then crystal, then deuterium.
func fitToCapacity(found catalog.Resources, free float64) catalog.Resources {
	if free <= 0 {
		return catalog.Resources{}
	}

	var loaded catalog.Resources
	loaded.Metal = math.Min(found.Metal, free)
	free -= loaded.Metal
	loaded.Crystal = math.Min(found.Crystal, free)
	free -= loaded.Crystal
	loaded.Deuterium = math.Min(found.Deuterium, free)

	return loaded
}
