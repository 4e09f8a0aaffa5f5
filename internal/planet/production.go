package planet

import (
	"math"

	"empire-server/internal/catalog"
)

// Base hourly income every planet gets regardless of mines.
const (
	baseMetalRate   = 30.0
	baseCrystalRate = 15.0
)

// Per-level production and energy constants.
const (
	metalMineRate       = 30.0
	crystalMineRate     = 20.0
	deuteriumSynthRate  = 10.0
	solarPlantOutput    = 20.0
	mineEnergyDraw      = 10.0
	deuteriumEnergyDraw = 20.0
	levelScalingBase    = 1.1
	baseStorageCap      = 10000.0
)

// Recompute derives the hourly production rates, storage caps and
// energy balance from the planet's building levels. Called whenever a
// building level changes; settlement between level changes only needs
// the stored rates.
func Recompute(p Planet, economySpeed float64) Planet {
	metalMine := p.BuildingLevel(catalog.MetalMine)
	crystalMine := p.BuildingLevel(catalog.CrystalMine)
	deutSynth := p.BuildingLevel(catalog.DeuteriumSynthesizer)
	solar := p.BuildingLevel(catalog.SolarPlant)

	p.Rates = catalog.Resources{
		Metal:     (baseMetalRate + levelOutput(metalMineRate, metalMine)) * economySpeed,
		Crystal:   (baseCrystalRate + levelOutput(crystalMineRate, crystalMine)) * economySpeed,
		Deuterium: levelOutput(deuteriumSynthRate, deutSynth) * economySpeed,
	}

	p.Storage = catalog.Resources{
		Metal:     storageCap(p.BuildingLevel(catalog.MetalStorage)),
		Crystal:   storageCap(p.BuildingLevel(catalog.CrystalStorage)),
		Deuterium: storageCap(p.BuildingLevel(catalog.DeuteriumTank)),
	}

	p.Energy = EnergyBalance{
		Produced: levelOutput(solarPlantOutput, solar),
		Used: levelOutput(mineEnergyDraw, metalMine) +
			levelOutput(mineEnergyDraw, crystalMine) +
			levelOutput(deuteriumEnergyDraw, deutSynth),
	}

	return p
}

// levelOutput is the per-building exponential output curve:
// rate * level * 1.1^level.
func levelOutput(rate float64, level int) float64 {
	if level <= 0 {
		return 0
	}
	return rate * float64(level) * math.Pow(levelScalingBase, float64(level))
}

// storageCap doubles with every storage building level.
func storageCap(level int) float64 {
	return baseStorageCap * math.Pow(2, float64(level))
}
