package universe

import (
	"fmt"
	"math"

	"empire-server/internal/shared/errors"
)

// Coordinate space bounds. Position 16 is the expedition slot: no
// planet can exist there, but fleets may target it.
const (
	MaxGalaxy   = 9
	MaxSystem   = 499
	MaxPosition = 15

	ExpeditionPosition = 16
)

// Base distance constants per coordinate tier.
const (
	distanceSamePosition = 5.0
	distanceSystemBase   = 1000.0
	distancePerPosition  = 5.0
	distanceGalaxyBase   = 2700.0
	distancePerSystem    = 95.0
	distancePerGalaxy    = 20000.0
)

// Coordinates locate a planet, moon, debris field or empty position
// inside the universe.
type Coordinates struct {
	Galaxy   int `json:"galaxy"`
	System   int `json:"system"`
	Position int `json:"position"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("[%d:%d:%d]", c.Galaxy, c.System, c.Position)
}

func (c Coordinates) Equal(other Coordinates) bool {
	return c.Galaxy == other.Galaxy && c.System == other.System && c.Position == other.Position
}

// Validate checks the coordinates against the universe bounds. Planet
// positions run 1..15; the expedition slot 16 is only valid when
// allowExpeditionSlot is set.
func (c Coordinates) Validate(allowExpeditionSlot bool) error {
	if c.Galaxy < 1 || c.Galaxy > MaxGalaxy {
		return errors.Validationf("galaxy %d out of range 1..%d", c.Galaxy, MaxGalaxy)
	}
	if c.System < 1 || c.System > MaxSystem {
		return errors.Validationf("system %d out of range 1..%d", c.System, MaxSystem)
	}

	maxPosition := MaxPosition
	if allowExpeditionSlot {
		maxPosition = ExpeditionPosition
	}
	if c.Position < 1 || c.Position > maxPosition {
		return errors.Validationf("position %d out of range 1..%d", c.Position, maxPosition)
	}

	return nil
}

// Distance converts coordinate deltas into the abstract distance units
// consumed by the travel time and fuel formulas. Tiering: same position
// is a minimal hop, same system scales with position delta, same galaxy
// with system delta, and galaxy crossings dominate everything else.
func Distance(from, to Coordinates) float64 {
	if from.Galaxy != to.Galaxy {
		return distancePerGalaxy * math.Abs(float64(from.Galaxy-to.Galaxy))
	}
	if from.System != to.System {
		return distanceGalaxyBase + distancePerSystem*math.Abs(float64(from.System-to.System))
	}
	if from.Position != to.Position {
		return distanceSystemBase + distancePerPosition*math.Abs(float64(from.Position-to.Position))
	}
	return distanceSamePosition
}
