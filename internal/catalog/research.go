package catalog

import (
	"math"

	"empire-server/internal/shared/errors"
)

// ResearchID identifies a research technology. Research levels belong
// to the player, not to a planet.
type ResearchID string

const (
	EnergyTech      ResearchID = "energy_tech"
	ComputerTech    ResearchID = "computer_tech"
	EspionageTech   ResearchID = "espionage_tech"
	CombustionDrive ResearchID = "combustion_drive"
	ImpulseDrive    ResearchID = "impulse_drive"
	HyperspaceDrive ResearchID = "hyperspace_drive"
	HyperspaceTech  ResearchID = "hyperspace_tech"
)

// ResearchSpec holds the fixed per-technology cost curve constants.
type ResearchSpec struct {
	BaseCost Resources
	Growth   float64
}

var researchSpecs = map[ResearchID]ResearchSpec{
	EnergyTech:      {BaseCost: Resources{Crystal: 800, Deuterium: 400}, Growth: 2},
	ComputerTech:    {BaseCost: Resources{Crystal: 400, Deuterium: 600}, Growth: 2},
	EspionageTech:   {BaseCost: Resources{Metal: 200, Crystal: 1000, Deuterium: 200}, Growth: 2},
	CombustionDrive: {BaseCost: Resources{Metal: 400, Deuterium: 600}, Growth: 2},
	ImpulseDrive:    {BaseCost: Resources{Metal: 2000, Crystal: 4000, Deuterium: 600}, Growth: 2},
	HyperspaceDrive: {BaseCost: Resources{Metal: 10000, Crystal: 20000, Deuterium: 6000}, Growth: 2},
	HyperspaceTech:  {BaseCost: Resources{Crystal: 4000, Deuterium: 2000}, Growth: 2},
}

// KnownResearch reports whether id names a technology.
func KnownResearch(id ResearchID) bool {
	_, ok := researchSpecs[id]
	return ok
}

// ResearchCost returns the resource cost of researching targetLevel.
func ResearchCost(id ResearchID, targetLevel int) (Resources, error) {
	spec, ok := researchSpecs[id]
	if !ok {
		return Resources{}, errors.Validationf("unknown research %q", id)
	}
	if targetLevel < 1 {
		return Resources{}, errors.Validationf("target level %d must be at least 1", targetLevel)
	}

	factor := math.Pow(spec.Growth, float64(targetLevel-1))
	cost := spec.BaseCost.Scale(factor)

	return Resources{
		Metal:     math.Floor(cost.Metal),
		Crystal:   math.Floor(cost.Crystal),
		Deuterium: math.Floor(cost.Deuterium),
	}, nil
}
