package game

import (
	"context"
	"log/slog"
	"time"

	"empire-server/internal/fleet"
	"empire-server/internal/queue"
	"empire-server/internal/shared/clock"
)

// Sweeper periodically drives time-dependent state forward: due queue
// entries are applied and due mission arrivals and returns resolved.
// Every step is idempotent under concurrency (compare-and-swap claims
// at the store), so the sweeper coexists with lazy settle-on-read and
// with other sweeper instances.
type Sweeper struct {
	queues   *queue.Service
	fleets   *fleet.Service
	missions *fleet.Repository
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
}

func NewSweeper(
	queues *queue.Service,
	fleets *fleet.Service,
	missions *fleet.Repository,
	clk clock.Clock,
	interval time.Duration,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		queues:   queues,
		fleets:   fleets,
		missions: missions,
		clock:    clk,
		interval: interval,
		logger:   logger.With("component", "sweeper"),
	}
}

// Run blocks until the context is cancelled, sweeping once per
// interval.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Sweeper started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass. Failures on individual items are logged and
// skipped; the next pass retries them.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.clock.Now()

	s.sweepQueues(ctx, now)
	s.sweepArrivals(ctx, now)
	s.sweepReturns(ctx, now)
}

func (s *Sweeper) sweepQueues(ctx context.Context, now time.Time) {
	planetIDs, err := s.queues.ListDueOwners(ctx, queue.KindBuilding, now)
	if err != nil {
		s.logger.Error("Failed to list due building queues", "error", err)
	} else {
		for _, planetID := range planetIDs {
			if _, err := s.queues.AdvanceBuildingQueue(ctx, planetID, now); err != nil {
				s.logger.Error("Failed to advance building queue", "error", err, "planet_id", planetID)
			}
		}
	}

	playerIDs, err := s.queues.ListDueOwners(ctx, queue.KindResearch, now)
	if err != nil {
		s.logger.Error("Failed to list due research queues", "error", err)
		return
	}
	for _, playerID := range playerIDs {
		if _, err := s.queues.AdvanceResearchQueue(ctx, playerID, now); err != nil {
			s.logger.Error("Failed to advance research queue", "error", err, "player_id", playerID)
		}
	}
}

func (s *Sweeper) sweepArrivals(ctx context.Context, now time.Time) {
	missions, err := s.missions.ListDueArrivals(ctx, now)
	if err != nil {
		s.logger.Error("Failed to list due arrivals", "error", err)
		return
	}

	for _, m := range missions {
		if err := s.fleets.ResolveArrival(ctx, m, now); err != nil {
			s.logger.Error("Failed to resolve arrival", "error", err, "mission_id", m.ID)
		}
	}
}

func (s *Sweeper) sweepReturns(ctx context.Context, now time.Time) {
	missions, err := s.missions.ListDueReturns(ctx, now)
	if err != nil {
		s.logger.Error("Failed to list due returns", "error", err)
		return
	}

	for _, m := range missions {
		if err := s.fleets.ResolveReturn(ctx, m, now); err != nil {
			s.logger.Error("Failed to resolve return", "error", err, "mission_id", m.ID)
		}
	}
}
