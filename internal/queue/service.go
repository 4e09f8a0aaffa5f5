package queue

import (
	"context"
	"log/slog"
	"time"

	"empire-server/internal/catalog"
	"empire-server/internal/planet"
	"empire-server/internal/player"
	"empire-server/internal/shared/clock"
	"empire-server/internal/shared/config"
	"empire-server/internal/shared/database"
	"empire-server/internal/shared/errors"
	"empire-server/internal/shared/events"
)

type Service struct {
	repo       *Repository
	planets    *planet.Repository
	players    *player.Repository
	db         *database.DB
	clock      clock.Clock
	dispatcher events.Dispatcher
	logger     *slog.Logger
}

func NewService(
	repo *Repository,
	planets *planet.Repository,
	players *player.Repository,
	db *database.DB,
	clk clock.Clock,
	dispatcher events.Dispatcher,
	logger *slog.Logger,
) *Service {
	logger.Debug("Initializing queue service")

	return &Service{
		repo:       repo,
		planets:    planets,
		players:    players,
		db:         db,
		clock:      clk,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ListDueOwners returns the owners with at least one due entry, for
// the sweep job.
func (s *Service) ListDueOwners(ctx context.Context, kind Kind, now time.Time) ([]int, error) {
	return s.repo.ListDueOwners(ctx, kind, now)
}

// GetBuildingQueueFor returns a planet's queue after verifying the
// caller owns the planet and advancing anything due.
func (s *Service) GetBuildingQueueFor(ctx context.Context, playerID, planetID int) ([]Entry, error) {
	if err := s.checkOwnership(ctx, playerID, planetID); err != nil {
		return nil, err
	}
	return s.GetBuildingQueue(ctx, planetID)
}

// EnqueueBuildingFor verifies the caller owns the planet before
// queueing the upgrade.
func (s *Service) EnqueueBuildingFor(ctx context.Context, playerID, planetID int, target catalog.BuildingID) (*Entry, error) {
	if err := s.checkOwnership(ctx, playerID, planetID); err != nil {
		return nil, err
	}
	return s.EnqueueBuilding(ctx, planetID, target)
}

func (s *Service) checkOwnership(ctx context.Context, playerID, planetID int) error {
	p, err := s.planets.GetPlanetByID(ctx, planetID)
	if err != nil {
		return err
	}
	if p.PlayerID != playerID {
		return errors.Forbidden("planet belongs to another player")
	}
	return nil
}

// GetBuildingQueue returns a planet's queue after advancing it.
func (s *Service) GetBuildingQueue(ctx context.Context, planetID int) ([]Entry, error) {
	if _, err := s.AdvanceBuildingQueue(ctx, planetID, s.clock.Now()); err != nil {
		return nil, err
	}
	return s.repo.ListEntries(ctx, KindBuilding, planetID)
}

// GetResearchQueue returns a player's queue after advancing it.
func (s *Service) GetResearchQueue(ctx context.Context, playerID int) ([]Entry, error) {
	if _, err := s.AdvanceResearchQueue(ctx, playerID, s.clock.Now()); err != nil {
		return nil, err
	}
	return s.repo.ListEntries(ctx, KindResearch, playerID)
}

// EnqueueBuilding commits a planet to a building upgrade: the cost for
// the next level is charged immediately and the entry completes after
// the computed build time. The queue is advanced first so capacity and
// levels reflect the current instant.
func (s *Service) EnqueueBuilding(ctx context.Context, planetID int, target catalog.BuildingID) (*Entry, error) {
	logger := s.logger.With(
		"component", "queue_service",
		"operation", "enqueue_building",
		"planet_id", planetID,
		"target", target,
	)
	logger.Debug("Enqueueing building upgrade")

	if !catalog.KnownBuilding(target) {
		return nil, errors.Validationf("unknown building %q", target)
	}

	now := s.clock.Now()
	if _, err := s.AdvanceBuildingQueue(ctx, planetID, now); err != nil {
		return nil, err
	}

	p, err := s.planets.GetPlanetByID(ctx, planetID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListEntries(ctx, KindBuilding, planetID)
	if err != nil {
		return nil, err
	}

	cfg := config.GlobalConfig.Game
	if len(entries) >= cfg.QueueCap {
		return nil, errors.Capacityf("build queue is full (%d entries)", cfg.QueueCap)
	}
	if HasPendingTarget(entries, string(target)) {
		return nil, errors.Conflictf("%s is already queued", target)
	}

	targetLevel := p.BuildingLevel(target) + 1
	cost, err := catalog.BuildingCost(target, targetLevel)
	if err != nil {
		return nil, err
	}

	settled := planet.Settle(p.CloneMaps(), now)
	settled, err = planet.Debit(settled, cost)
	if err != nil {
		return nil, err
	}

	duration := catalog.BuildTime(
		cost,
		settled.BuildingLevel(catalog.RobotFactory),
		settled.BuildingLevel(catalog.NaniteFactory),
		cfg.EconomySpeed,
		target == catalog.NaniteFactory,
	)

	entry := &Entry{
		Kind:        KindBuilding,
		OwnerID:     planetID,
		TargetID:    string(target),
		TargetLevel: targetLevel,
		Cost:        cost,
		StartedAt:   now,
		FinishesAt:  now.Add(duration),
	}

	if err := s.commitEnqueue(ctx, &settled, entry); err != nil {
		logger.Error("Failed to commit enqueue", "error", err)
		return nil, err
	}

	logger.Info("Building upgrade queued",
		"target_level", targetLevel,
		"finishes_at", entry.FinishesAt,
	)
	return entry, nil
}

// EnqueueResearch commits a player to a research upgrade, funded by
// one of their planets. Duration scales with the best research lab the
// player owns.
func (s *Service) EnqueueResearch(ctx context.Context, playerID, fundingPlanetID int, target catalog.ResearchID) (*Entry, error) {
	logger := s.logger.With(
		"component", "queue_service",
		"operation", "enqueue_research",
		"player_id", playerID,
		"target", target,
	)
	logger.Debug("Enqueueing research upgrade")

	if !catalog.KnownResearch(target) {
		return nil, errors.Validationf("unknown research %q", target)
	}

	now := s.clock.Now()
	if _, err := s.AdvanceResearchQueue(ctx, playerID, now); err != nil {
		return nil, err
	}

	pl, err := s.players.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	p, err := s.planets.GetPlanetByID(ctx, fundingPlanetID)
	if err != nil {
		return nil, err
	}
	if p.PlayerID != playerID {
		return nil, errors.Forbidden("planet belongs to another player")
	}

	entries, err := s.repo.ListEntries(ctx, KindResearch, playerID)
	if err != nil {
		return nil, err
	}

	cfg := config.GlobalConfig.Game
	if len(entries) >= cfg.QueueCap {
		return nil, errors.Capacityf("research queue is full (%d entries)", cfg.QueueCap)
	}
	if HasPendingTarget(entries, string(target)) {
		return nil, errors.Conflictf("%s is already queued", target)
	}

	targetLevel := pl.ResearchLevel(target) + 1
	cost, err := catalog.ResearchCost(target, targetLevel)
	if err != nil {
		return nil, err
	}

	labLevel, err := s.planets.MaxBuildingLevelForPlayer(ctx, playerID, catalog.ResearchLab)
	if err != nil {
		return nil, err
	}

	settled := planet.Settle(p.CloneMaps(), now)
	settled, err = planet.Debit(settled, cost)
	if err != nil {
		return nil, err
	}

	duration := catalog.ResearchTime(cost, labLevel, cfg.EconomySpeed)

	entry := &Entry{
		Kind:        KindResearch,
		OwnerID:     playerID,
		TargetID:    string(target),
		TargetLevel: targetLevel,
		Cost:        cost,
		StartedAt:   now,
		FinishesAt:  now.Add(duration),
	}

	if err := s.commitEnqueue(ctx, &settled, entry); err != nil {
		logger.Error("Failed to commit enqueue", "error", err)
		return nil, err
	}

	logger.Info("Research upgrade queued",
		"target_level", targetLevel,
		"finishes_at", entry.FinishesAt,
	)
	return entry, nil
}

// commitEnqueue persists the debited planet snapshot and the new entry
// in one transaction, so a failed insert never leaves the cost charged.
func (s *Service) commitEnqueue(ctx context.Context, p *planet.Planet, entry *Entry) error {
	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return err
	}
	defer rollback(tx, s.logger)

	if err := s.planets.SaveState(ctx, p, tx); err != nil {
		return err
	}
	if err := s.repo.InsertEntry(ctx, entry, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// AdvanceBuildingQueue applies every due entry of a planet's queue in
// enqueue order. Each application settles resources up to the entry's
// completion instant with the old rates before the new level takes
// effect. Never fails on an empty or missing queue.
func (s *Service) AdvanceBuildingQueue(ctx context.Context, planetID int, now time.Time) ([]Entry, error) {
	entries, err := s.repo.ListEntries(ctx, KindBuilding, planetID)
	if err != nil {
		return nil, err
	}

	due, _ := Due(entries, now)
	if len(due) == 0 {
		return nil, nil
	}

	p, err := s.planets.GetPlanetByID(ctx, planetID)
	if err != nil {
		if errors.GetType(err) == errors.ErrorTypeNotFound {
			return nil, nil
		}
		return nil, err
	}
	current := p.CloneMaps()

	var applied []Entry
	for _, entry := range due {
		next, ok, err := s.applyBuildingEntry(ctx, current, entry)
		if err != nil {
			return applied, err
		}
		current = next
		if !ok {
			continue
		}

		applied = append(applied, entry)
		s.dispatcher.Publish(ctx, events.New(events.EventQueueEntryCompleted, current.PlayerID, entry.FinishesAt, map[string]interface{}{
			"kind":      string(entry.Kind),
			"planet_id": planetID,
			"target":    entry.TargetID,
			"level":     entry.TargetLevel,
		}))
	}

	return applied, nil
}

func (s *Service) applyBuildingEntry(ctx context.Context, current planet.Planet, entry Entry) (planet.Planet, bool, error) {
	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return current, false, err
	}
	defer rollback(tx, s.logger)

	claimed, err := s.repo.ClaimEntry(ctx, entry.ID, tx)
	if err != nil {
		return current, false, err
	}
	if !claimed {
		// A concurrent evaluator already applied it. Benign.
		return current, false, nil
	}

	next := planet.Settle(current, entry.FinishesAt)
	if next.BuildingLevel(catalog.BuildingID(entry.TargetID)) < entry.TargetLevel {
		next.Buildings[catalog.BuildingID(entry.TargetID)] = entry.TargetLevel
	}
	next = planet.Recompute(next, config.GlobalConfig.Game.EconomySpeed)

	if err := s.planets.SaveState(ctx, &next, tx); err != nil {
		return current, false, err
	}
	if err := tx.Commit(); err != nil {
		return current, false, err
	}

	return next, true, nil
}

// AdvanceResearchQueue applies every due entry of a player's research
// queue in enqueue order.
func (s *Service) AdvanceResearchQueue(ctx context.Context, playerID int, now time.Time) ([]Entry, error) {
	entries, err := s.repo.ListEntries(ctx, KindResearch, playerID)
	if err != nil {
		return nil, err
	}

	due, _ := Due(entries, now)
	if len(due) == 0 {
		return nil, nil
	}

	pl, err := s.players.GetPlayerByID(ctx, playerID)
	if err != nil {
		if errors.GetType(err) == errors.ErrorTypeNotFound {
			return nil, nil
		}
		return nil, err
	}

	research := make(map[catalog.ResearchID]int, len(pl.Research))
	for id, level := range pl.Research {
		research[id] = level
	}

	var applied []Entry
	for _, entry := range due {
		ok, err := s.applyResearchEntry(ctx, playerID, research, entry)
		if err != nil {
			return applied, err
		}
		if !ok {
			continue
		}

		applied = append(applied, entry)
		s.dispatcher.Publish(ctx, events.New(events.EventQueueEntryCompleted, playerID, entry.FinishesAt, map[string]interface{}{
			"kind":   string(entry.Kind),
			"target": entry.TargetID,
			"level":  entry.TargetLevel,
		}))
	}

	return applied, nil
}

func (s *Service) applyResearchEntry(ctx context.Context, playerID int, research map[catalog.ResearchID]int, entry Entry) (bool, error) {
	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return false, err
	}
	defer rollback(tx, s.logger)

	claimed, err := s.repo.ClaimEntry(ctx, entry.ID, tx)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}

	if research[catalog.ResearchID(entry.TargetID)] < entry.TargetLevel {
		research[catalog.ResearchID(entry.TargetID)] = entry.TargetLevel
	}

	if err := s.players.SaveResearch(ctx, playerID, research, tx); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}

	return true, nil
}

func rollback(tx *database.Tx, logger *slog.Logger) {
	if err := tx.Rollback(); err != nil && err.Error() != "sql: transaction has already been committed or rolled back" {
		logger.Error("Failed to rollback transaction", "error", err)
	}
}
