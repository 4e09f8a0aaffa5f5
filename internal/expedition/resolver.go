package expedition

import (
	"math/rand"

	"empire-server/internal/catalog"
)

// EventType is one of the nine expedition outcomes.
type EventType string

const (
	EventNothing    EventType = "nothing"
	EventResources  EventType = "resources"
	EventShips      EventType = "ships"
	EventDarkMatter EventType = "dark_matter"
	EventPirates    EventType = "pirates"
	EventAliens     EventType = "aliens"
	EventBlackHole  EventType = "black_hole"
	EventDelay      EventType = "delay"
	EventSpeedBonus EventType = "speed_bonus"
)

// weightedEvent rows are drawn by a uniform roll over the cumulative
// weight table. Weights sum to 100.
type weightedEvent struct {
	event  EventType
	weight int
}

var eventWeights = []weightedEvent{
	{EventNothing, 30},
	{EventResources, 25},
	{EventShips, 10},
	{EventDarkMatter, 5},
	{EventPirates, 10},
	{EventAliens, 5},
	{EventBlackHole, 2},
	{EventDelay, 8},
	{EventSpeedBonus, 5},
}

// TotalWeight is the sum of all outcome weights.
func TotalWeight() int {
	total := 0
	for _, w := range eventWeights {
		total += w.weight
	}
	return total
}

// Fleet power thresholds separating reward tiers. Crossing a threshold
// raises gains and lowers relative loss risk.
var powerTiers = []float64{1e3, 1e4, 1e5, 1e6, 1e7}

// Outcome is the ephemeral result of one expedition arrival, folded
// into the mission's return leg by the caller.
type Outcome struct {
	Event          EventType                `json:"event"`
	Resources      catalog.Resources        `json:"resources"`
	Ships          map[catalog.ShipID]int64 `json:"ships,omitempty"`
	DarkMatter     float64                  `json:"dark_matter"`
	ShipLossFactor float64                  `json:"ship_loss_factor"`
	TimeModifier   float64                  `json:"time_modifier"`
	FleetDestroyed bool                     `json:"fleet_destroyed"`
}

// Tier maps total fleet power onto a reward tier (0..5).
func Tier(fleetPower float64) int {
	tier := 0
	for _, threshold := range powerTiers {
		if fleetPower >= threshold {
			tier++
		}
	}
	return tier
}

// Resolve draws one weighted outcome for an expedition. Reproducible
// for a given rng state; production callers seed the rng from an
// entropy source players cannot influence.
func Resolve(fleetPower float64, rng *rand.Rand) Outcome {
	outcome := Outcome{TimeModifier: 1.0}

	roll := rng.Intn(TotalWeight())
	cumulative := 0
	for _, w := range eventWeights {
		cumulative += w.weight
		if roll < cumulative {
			outcome.Event = w.event
			break
		}
	}

	tier := Tier(fleetPower)
	tierScale := float64(int64(1) << uint(tier))

	switch outcome.Event {
	case EventResources:
		outcome.Resources = catalog.Resources{
			Metal:     (200 + rng.Float64()*800) * tierScale,
			Crystal:   (100 + rng.Float64()*400) * tierScale,
			Deuterium: (50 + rng.Float64()*150) * tierScale,
		}
	case EventShips:
		outcome.Ships = map[catalog.ShipID]int64{
			catalog.SmallCargo:   1 + rng.Int63n(int64(tier)+2),
			catalog.LightFighter: rng.Int63n(int64(tier) + 2),
		}
	case EventDarkMatter:
		outcome.DarkMatter = (100 + rng.Float64()*300) * float64(tier+1)
	case EventPirates:
		outcome.ShipLossFactor = lossFactor(0.30, tier)
	case EventAliens:
		outcome.ShipLossFactor = lossFactor(0.40, tier)
	case EventBlackHole:
		outcome.FleetDestroyed = true
	case EventDelay:
		outcome.TimeModifier = 1.5 + rng.Float64()*1.5
	case EventSpeedBonus:
		outcome.TimeModifier = 0.5 + rng.Float64()*0.3
	}

	return outcome
}

// lossFactor shrinks the relative loss as the tier climbs, floored so
// an encounter always costs something.
func lossFactor(base float64, tier int) float64 {
	factor := base - 0.04*float64(tier)
	if factor < 0.05 {
		factor = 0.05
	}
	return factor
}
