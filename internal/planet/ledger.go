package planet

import (
	"math"
	"time"

	"empire-server/internal/catalog"
	"empire-server/internal/shared/errors"
)

// Settle rolls a planet snapshot forward to asOf: each resource grows
// by its hourly rate over the elapsed time, capped at the storage
// limit, and the settlement timestamp advances. Idempotent when asOf
// equals the stored timestamp and monotonic in asOf; an asOf in the
// past is a no-op rather than a rollback.
func Settle(p Planet, asOf time.Time) Planet {
	elapsed := asOf.Sub(p.LastResourceUpdate)
	if elapsed <= 0 {
		return p
	}

	hours := elapsed.Hours()
	p.Resources = cappedAdd(p.Resources, p.Rates.Scale(hours), p.Storage)
	p.LastResourceUpdate = asOf

	return p
}

// Debit removes a cost from the planet's balance. Fails with an
// insufficient-resources error and no partial effect when the balance
// does not cover the cost.
func Debit(p Planet, cost catalog.Resources) (Planet, error) {
	if cost.HasNegative() {
		return p, errors.Validationf("debit amounts must not be negative")
	}
	if !p.Resources.Covers(cost) {
		return p, errors.InsufficientResourcesf(
			"planet %d balance (%.0f/%.0f/%.0f) does not cover cost (%.0f/%.0f/%.0f)",
			p.ID,
			p.Resources.Metal, p.Resources.Crystal, p.Resources.Deuterium,
			cost.Metal, cost.Crystal, cost.Deuterium,
		)
	}

	p.Resources = p.Resources.Sub(cost)
	return p, nil
}

// Credit adds resources to the planet's balance, capped at storage.
// Overflow beyond a storage cap is discarded.
func Credit(p Planet, delta catalog.Resources) Planet {
	p.Resources = cappedAdd(p.Resources, delta, p.Storage)
	return p
}

func cappedAdd(current, delta, cap catalog.Resources) catalog.Resources {
	return catalog.Resources{
		Metal:     cappedSum(current.Metal, delta.Metal, cap.Metal),
		Crystal:   cappedSum(current.Crystal, delta.Crystal, cap.Crystal),
		Deuterium: cappedSum(current.Deuterium, delta.Deuterium, cap.Deuterium),
	}
}

// cappedSum never decreases a quantity that already sits above its
// cap, it only stops further growth.
func cappedSum(current, delta, cap float64) float64 {
	sum := math.Min(current+delta, cap)
	if sum < current {
		return current
	}
	return sum
}
