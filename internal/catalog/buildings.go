package catalog

import (
	"math"

	"empire-server/internal/shared/errors"
)

// BuildingID identifies a building type.
type BuildingID string

const (
	MetalMine            BuildingID = "metal_mine"
	CrystalMine          BuildingID = "crystal_mine"
	DeuteriumSynthesizer BuildingID = "deuterium_synthesizer"
	SolarPlant           BuildingID = "solar_plant"
	RobotFactory         BuildingID = "robot_factory"
	NaniteFactory        BuildingID = "nanite_factory"
	Shipyard             BuildingID = "shipyard"
	MetalStorage         BuildingID = "metal_storage"
	CrystalStorage       BuildingID = "crystal_storage"
	DeuteriumTank        BuildingID = "deuterium_tank"
	ResearchLab          BuildingID = "research_lab"
)

// BuildingSpec holds the fixed per-type constants of the cost curve.
// The cost of level L is BaseCost scaled by Growth^(L-1).
type BuildingSpec struct {
	BaseCost Resources
	Growth   float64
}

var buildingSpecs = map[BuildingID]BuildingSpec{
	MetalMine:            {BaseCost: Resources{Metal: 60, Crystal: 15}, Growth: 1.5},
	CrystalMine:          {BaseCost: Resources{Metal: 48, Crystal: 24}, Growth: 1.6},
	DeuteriumSynthesizer: {BaseCost: Resources{Metal: 225, Crystal: 75}, Growth: 1.5},
	SolarPlant:           {BaseCost: Resources{Metal: 75, Crystal: 30}, Growth: 1.5},
	RobotFactory:         {BaseCost: Resources{Metal: 400, Crystal: 120, Deuterium: 200}, Growth: 2},
	NaniteFactory:        {BaseCost: Resources{Metal: 1000000, Crystal: 500000, Deuterium: 100000}, Growth: 2},
	Shipyard:             {BaseCost: Resources{Metal: 400, Crystal: 200, Deuterium: 100}, Growth: 2},
	MetalStorage:         {BaseCost: Resources{Metal: 1000}, Growth: 2},
	CrystalStorage:       {BaseCost: Resources{Metal: 1000, Crystal: 500}, Growth: 2},
	DeuteriumTank:        {BaseCost: Resources{Metal: 1000, Crystal: 1000}, Growth: 2},
	ResearchLab:          {BaseCost: Resources{Metal: 200, Crystal: 400, Deuterium: 200}, Growth: 2},
}

// KnownBuilding reports whether id names a building type.
func KnownBuilding(id BuildingID) bool {
	_, ok := buildingSpecs[id]
	return ok
}

// BuildingCost returns the resource cost of upgrading a building to
// targetLevel. Pure: same input, same output.
func BuildingCost(id BuildingID, targetLevel int) (Resources, error) {
	spec, ok := buildingSpecs[id]
	if !ok {
		return Resources{}, errors.Validationf("unknown building %q", id)
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
