package planet

import (
	"testing"

	"empire-server/internal/catalog"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeBareRock(t *testing.T) {
	p := Recompute(Planet{}, 1)

	assert.Equal(t, 30.0, p.Rates.Metal)
	assert.Equal(t, 15.0, p.Rates.Crystal)
	assert.Equal(t, 0.0, p.Rates.Deuterium)
	assert.Equal(t, 10000.0, p.Storage.Metal)
	assert.Equal(t, 0.0, p.Energy.Balance())
}

func TestRecomputeMineOutput(t *testing.T) {
	p := Planet{
		Buildings: map[catalog.BuildingID]int{
			catalog.MetalMine: 1,
		},
	}

	p = Recompute(p, 1)

	// 30 base + 30 * 1 * 1.1^1
	assert.InDelta(t, 63.0, p.Rates.Metal, 1e-9)
}

func TestRecomputeRatesGrowWithLevel(t *testing.T) {
	prev := 0.0
	for level := 1; level <= 20; level++ {
		p := Recompute(Planet{
			Buildings: map[catalog.BuildingID]int{catalog.MetalMine: level},
		}, 1)

		assert.Greater(t, p.Rates.Metal, prev, "rate must grow with mine level")
		prev = p.Rates.Metal
	}
}

func TestRecomputeEconomySpeedScalesRates(t *testing.T) {
	buildings := map[catalog.BuildingID]int{
		catalog.MetalMine:            3,
		catalog.CrystalMine:          2,
		catalog.DeuteriumSynthesizer: 1,
	}

	classic := Recompute(Planet{Buildings: buildings}, 1)
	fast := Recompute(Planet{Buildings: buildings}, 4)

	assert.InDelta(t, classic.Rates.Metal*4, fast.Rates.Metal, 1e-9)
	assert.InDelta(t, classic.Rates.Crystal*4, fast.Rates.Crystal, 1e-9)
	assert.InDelta(t, classic.Rates.Deuterium*4, fast.Rates.Deuterium, 1e-9)
}

func TestRecomputeStorageDoubles(t *testing.T) {
	p := Recompute(Planet{
		Buildings: map[catalog.BuildingID]int{
			catalog.MetalStorage:   2,
			catalog.CrystalStorage: 1,
		},
	}, 1)

	assert.Equal(t, 40000.0, p.Storage.Metal)
	assert.Equal(t, 20000.0, p.Storage.Crystal)
	assert.Equal(t, 10000.0, p.Storage.Deuterium)
}

func TestRecomputeEnergyBalance(t *testing.T) {
	p := Recompute(Planet{
		Buildings: map[catalog.BuildingID]int{
			catalog.MetalMine:  1,
			catalog.SolarPlant: 1,
		},
	}, 1)

	// Solar 20 * 1.1 produced, mine 10 * 1.1 used.
	assert.InDelta(t, 22.0, p.Energy.Produced, 1e-9)
	assert.InDelta(t, 11.0, p.Energy.Used, 1e-9)
	assert.Greater(t, p.Energy.Balance(), 0.0)
}

func TestRecomputeDoesNotScaleStorageWithSpeed(t *testing.T) {
	classic := Recompute(Planet{}, 1)
	fast := Recompute(Planet{}, 8)

	assert.Equal(t, classic.Storage, fast.Storage)
}
