package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildingCost(t *testing.T) {
	tests := []struct {
		name        string
		building    BuildingID
		targetLevel int
		want        Resources
	}{
		{"metal mine level 1", MetalMine, 1, Resources{Metal: 60, Crystal: 15}},
		{"metal mine level 2", MetalMine, 2, Resources{Metal: 90, Crystal: 22}},
		{"crystal mine level 1", CrystalMine, 1, Resources{Metal: 48, Crystal: 24}},
		{"deuterium synthesizer level 1", DeuteriumSynthesizer, 1, Resources{Metal: 225, Crystal: 75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildingCost(tt.building, tt.targetLevel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildingCostRejectsBadInput(t *testing.T) {
	_, err := BuildingCost("moon_base", 1)
	assert.Error(t, err)

	_, err = BuildingCost(MetalMine, 0)
	assert.Error(t, err)
}

func TestBuildingCostGrowsStrictly(t *testing.T) {
	for level := 1; level < 20; level++ {
		lower, err := BuildingCost(MetalMine, level)
		require.NoError(t, err)
		higher, err := BuildingCost(MetalMine, level+1)
		require.NoError(t, err)

		assert.Greater(t, higher.Total(), lower.Total(), "cost must grow with level")
	}
}

func TestResearchCostDoubles(t *testing.T) {
	l1, err := ResearchCost(EnergyTech, 1)
	require.NoError(t, err)
	l2, err := ResearchCost(EnergyTech, 2)
	require.NoError(t, err)

	assert.Equal(t, l1.Scale(2), l2)
}

func TestBuildTime(t *testing.T) {
	cost := Resources{Metal: 2500, Crystal: 2500}

	t.Run("no factories", func(t *testing.T) {
		d := BuildTime(cost, 0, 0, 1, false)
		assert.Equal(t, 2*time.Hour, d)
	})

	t.Run("robot factory speeds up linearly", func(t *testing.T) {
		d := BuildTime(cost, 1, 0, 1, false)
		assert.Equal(t, time.Hour, d)
	})

	t.Run("nanite factory halves per level", func(t *testing.T) {
		d := BuildTime(cost, 0, 2, 1, false)
		assert.Equal(t, 30*time.Minute, d)
	})

	t.Run("nanite factory skips its own bonus", func(t *testing.T) {
		d := BuildTime(cost, 0, 2, 1, true)
		assert.Equal(t, 2*time.Hour, d)
	})

	t.Run("economy speed divides", func(t *testing.T) {
		d := BuildTime(cost, 0, 0, 4, false)
		assert.Equal(t, 30*time.Minute, d)
	})

	t.Run("never below minimum", func(t *testing.T) {
		d := BuildTime(Resources{Metal: 1}, 10, 10, 100, false)
		assert.Equal(t, MinDuration, d)
	})
}

func TestBuildTimeNonIncreasingInFactories(t *testing.T) {
	cost := Resources{Metal: 100000, Crystal: 50000}

	prev := BuildTime(cost, 0, 0, 1, false)
	for robot := 1; robot <= 10; robot++ {
		d := BuildTime(cost, robot, 0, 1, false)
		require.LessOrEqual(t, d, prev)
		prev = d
	}

	prev = BuildTime(cost, 0, 0, 1, false)
	for nanite := 1; nanite <= 10; nanite++ {
		d := BuildTime(cost, 0, nanite, 1, false)
		require.LessOrEqual(t, d, prev)
		prev = d
	}
}

func TestResearchTime(t *testing.T) {
	cost := Resources{Metal: 500, Crystal: 500}

	assert.Equal(t, time.Hour, ResearchTime(cost, 0, 1))
	assert.Equal(t, 30*time.Minute, ResearchTime(cost, 1, 1))
	assert.Equal(t, 30*time.Minute, ResearchTime(cost, 0, 2))
}

func TestTravelTime(t *testing.T) {
	t.Run("full throttle is fastest", func(t *testing.T) {
		full := TravelTime(1000, 10000, 100, 1)
		half := TravelTime(1000, 10000, 50, 1)
		assert.Less(t, full, half)
	})

	t.Run("grows with distance", func(t *testing.T) {
		near := TravelTime(5, 10000, 100, 1)
		far := TravelTime(60000, 10000, 100, 1)
		assert.Less(t, near, far)
	})

	t.Run("fleet speed factor divides", func(t *testing.T) {
		classic := TravelTime(1000, 10000, 100, 1)
		fast := TravelTime(1000, 10000, 100, 2)
		assert.InDelta(t, float64(classic)/2, float64(fast), float64(time.Second))
	})

	t.Run("zero speed ships clamp to minimum", func(t *testing.T) {
		assert.Equal(t, MinDuration, TravelTime(1000, 0, 100, 1))
	})
}

func TestFuelConsumption(t *testing.T) {
	ships := map[ShipID]int64{SmallCargo: 10}

	t.Run("non-negative and at least base charge", func(t *testing.T) {
		fuel := FuelConsumption(0, ships, 100)
		assert.GreaterOrEqual(t, fuel, 1.0)
	})

	t.Run("grows with distance", func(t *testing.T) {
		near := FuelConsumption(1000, ships, 100)
		far := FuelConsumption(60000, ships, 100)
		assert.Greater(t, far, near)
	})

	t.Run("grows with throttle", func(t *testing.T) {
		slow := FuelConsumption(60000, ships, 10)
		fast := FuelConsumption(60000, ships, 100)
		assert.Greater(t, fast, slow)
	})

	t.Run("grows with fleet size", func(t *testing.T) {
		small := FuelConsumption(60000, map[ShipID]int64{SmallCargo: 1}, 100)
		large := FuelConsumption(60000, map[ShipID]int64{SmallCargo: 100}, 100)
		assert.Greater(t, large, small)
	})
}

func TestCargoCapacity(t *testing.T) {
	assert.Equal(t, 50000.0, CargoCapacity(map[ShipID]int64{SmallCargo: 10}))
	assert.Equal(t, 45000.0, CargoCapacity(map[ShipID]int64{SmallCargo: 4, LargeCargo: 1}))
	assert.Equal(t, 0.0, CargoCapacity(nil))
}

func TestSlowestShipSpeed(t *testing.T) {
	ships := map[ShipID]int64{
		SmallCargo: 3,
		Recycler:   1,
	}

	assert.Equal(t, 2000.0, SlowestShipSpeed(ships))
	assert.Equal(t, 0.0, SlowestShipSpeed(nil))
}
