package catalog

import (
	"math"
	"time"
)

// Construction can never complete instantaneously.
const MinDuration = time.Second

const (
	buildTimeDivisor    = 2500.0
	researchTimeDivisor = 1000.0
	fuelReferenceDist   = 35000.0
)

// BuildTime returns the construction duration for a building upgrade.
// Each robot factory level adds a linear speedup, each nanite factory
// level halves the remainder, and the universe economy speed divides
// the whole thing. The nanite factory itself does not profit from its
// own bonus. Pure: no clock reads.
func BuildTime(cost Resources, robotLevel, naniteLevel int, economySpeed float64, isNaniteFactory bool) time.Duration {
	if robotLevel < 0 {
		robotLevel = 0
	}
	if naniteLevel < 0 {
		naniteLevel = 0
	}

	hours := (cost.Metal + cost.Crystal) / (buildTimeDivisor * float64(1+robotLevel) * economySpeed)
	if !isNaniteFactory {
		hours /= math.Pow(2, float64(naniteLevel))
	}

	return clampDuration(hours * float64(time.Hour))
}

// ResearchTime returns the duration of a research upgrade given the
// level of the research lab backing it.
func ResearchTime(cost Resources, labLevel int, economySpeed float64) time.Duration {
	if labLevel < 0 {
		labLevel = 0
	}

	hours := (cost.Metal + cost.Crystal) / (researchTimeDivisor * float64(1+labLevel) * economySpeed)

	return clampDuration(hours * float64(time.Hour))
}

// TravelTime returns the one-way flight duration. Duration grows with
// distance, shrinks as the speed percent rises, and is divided by the
// universe fleet speed factor.
func TravelTime(distance, slowestShipSpeed float64, speedPercent int, fleetSpeedFactor float64) time.Duration {
	if slowestShipSpeed <= 0 || speedPercent < 1 {
		return MinDuration
	}

	throttle := 100.0 / float64(speedPercent)
	seconds := (10 + 3500*math.Sqrt(10*distance/slowestShipSpeed)*throttle) / fleetSpeedFactor

	return clampDuration(seconds * float64(time.Second))
}

// FuelConsumption returns the deuterium pre-charged for a round trip.
// Fuel grows with distance and with the speed percent: flying at full
// throttle costs four times the base rate.
func FuelConsumption(distance float64, ships map[ShipID]int64, speedPercent int) float64 {
	if speedPercent < 1 {
		speedPercent = 1
	}

	speedFactor := float64(speedPercent)/100 + 1

	var fuel float64
	for id, count := range ships {
		if count <= 0 {
			continue
		}
		spec, ok := shipSpecs[id]
		if !ok {
			continue
		}
		fuel += spec.FuelRate * float64(count) * distance / fuelReferenceDist * speedFactor * speedFactor
	}

	return 1 + math.Round(fuel)
}

func clampDuration(d float64) time.Duration {
	if d < float64(MinDuration) {
		return MinDuration
	}
	return time.Duration(d)
}
