package fleet

import (
	"testing"
	"time"

	"empire-server/internal/catalog"
	"empire-server/internal/planet"
	"empire-server/internal/shared/errors"
	"empire-server/internal/universe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dispatchEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func originPlanet() planet.Planet {
	return planet.Planet{
		ID:          7,
		PlayerID:    3,
		Coordinates: universe.Coordinates{Galaxy: 1, System: 1, Position: 1},
		Resources: catalog.Resources{
			Metal:     100000,
			Crystal:   100000,
			Deuterium: 100000,
		},
		Ships: map[catalog.ShipID]int64{
			catalog.SmallCargo: 20,
			catalog.Recycler:   5,
			catalog.ColonyShip: 1,
		},
	}
}

func transportRequest() DispatchRequest {
	return DispatchRequest{
		OriginPlanetID:  7,
		Destination:     universe.Coordinates{Galaxy: 1, System: 2, Position: 5},
		DestinationKind: DestinationPlanet,
		Type:            MissionTransport,
		Ships:           map[catalog.ShipID]int64{catalog.SmallCargo: 10},
		Cargo:           catalog.Resources{Metal: 40000},
		SpeedPercent:    100,
	}
}

func TestPlanDispatchTransport(t *testing.T) {
	m, err := planDispatch(originPlanet(), transportRequest(), 1, dispatchEpoch)
	require.NoError(t, err)

	assert.Equal(t, 3, m.PlayerID)
	assert.Equal(t, 7, m.OriginPlanetID)
	assert.Equal(t, StateOutbound, m.State)
	assert.Equal(t, dispatchEpoch, m.DepartedAt)
	assert.True(t, m.ArrivesAt.After(dispatchEpoch))
	assert.Greater(t, m.Fuel, 0.0)
	assert.Nil(t, m.ReturnsAt)
}

// Ten small cargos hold 50,000: 40,000 fits, 60,000 does not.
func TestPlanDispatchCargoCapacity(t *testing.T) {
	req := transportRequest()
	req.Cargo = catalog.Resources{Metal: 40000}
	_, err := planDispatch(originPlanet(), req, 1, dispatchEpoch)
	assert.NoError(t, err)

	req.Cargo = catalog.Resources{Metal: 60000}
	_, err = planDispatch(originPlanet(), req, 1, dispatchEpoch)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeCapacity, errors.GetType(err))
}

func TestPlanDispatchShipValidation(t *testing.T) {
	tests := []struct {
		name     string
		ships    map[catalog.ShipID]int64
		wantType errors.ErrorType
	}{
		{"zero ships", map[catalog.ShipID]int64{}, errors.ErrorTypeValidation},
		{"all counts zero", map[catalog.ShipID]int64{catalog.SmallCargo: 0}, errors.ErrorTypeValidation},
		{"negative count", map[catalog.ShipID]int64{catalog.SmallCargo: -1}, errors.ErrorTypeValidation},
		{"unknown ship", map[catalog.ShipID]int64{"death_star": 1}, errors.ErrorTypeValidation},
		{"more than stationed", map[catalog.ShipID]int64{catalog.SmallCargo: 21}, errors.ErrorTypeInsufficientResources},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := transportRequest()
			req.Ships = tt.ships
			req.Cargo = catalog.Resources{}

			_, err := planDispatch(originPlanet(), req, 1, dispatchEpoch)
			require.Error(t, err)
			assert.Equal(t, tt.wantType, errors.GetType(err))
		})
	}
}

func TestPlanDispatchSpeedBounds(t *testing.T) {
	for _, percent := range []int{0, -1, 101} {
		req := transportRequest()
		req.SpeedPercent = percent

		_, err := planDispatch(originPlanet(), req, 1, dispatchEpoch)
		assert.Error(t, err, "speed percent %d must be rejected", percent)
	}
}

func TestPlanDispatchThrottleSlowsArrival(t *testing.T) {
	fast := transportRequest()
	fast.Cargo = catalog.Resources{}

	slow := fast
	slow.SpeedPercent = 50

	fm, err := planDispatch(originPlanet(), fast, 1, dispatchEpoch)
	require.NoError(t, err)
	sm, err := planDispatch(originPlanet(), slow, 1, dispatchEpoch)
	require.NoError(t, err)

	assert.True(t, sm.ArrivesAt.After(fm.ArrivesAt))
	assert.Less(t, sm.Fuel, fm.Fuel)
}

func TestPlanDispatchColonizationNeedsColonyShip(t *testing.T) {
	req := transportRequest()
	req.Type = MissionColonization
	req.Cargo = catalog.Resources{}

	_, err := planDispatch(originPlanet(), req, 1, dispatchEpoch)
	require.Error(t, err)

	req.Ships = map[catalog.ShipID]int64{catalog.SmallCargo: 1, catalog.ColonyShip: 1}
	_, err = planDispatch(originPlanet(), req, 1, dispatchEpoch)
	assert.NoError(t, err)
}

func TestPlanDispatchRecycleRules(t *testing.T) {
	base := DispatchRequest{
		OriginPlanetID:  7,
		Destination:     universe.Coordinates{Galaxy: 1, System: 1, Position: 8},
		DestinationKind: DestinationDebris,
		Type:            MissionRecycle,
		Ships:           map[catalog.ShipID]int64{catalog.Recycler: 2},
		SpeedPercent:    100,
	}

	_, err := planDispatch(originPlanet(), base, 1, dispatchEpoch)
	assert.NoError(t, err)

	t.Run("needs a recycler", func(t *testing.T) {
		req := base
		req.Ships = map[catalog.ShipID]int64{catalog.SmallCargo: 2}
		_, err := planDispatch(originPlanet(), req, 1, dispatchEpoch)
		assert.Error(t, err)
	})

	t.Run("holds must be empty", func(t *testing.T) {
		req := base
		req.Cargo = catalog.Resources{Metal: 1}
		_, err := planDispatch(originPlanet(), req, 1, dispatchEpoch)
		assert.Error(t, err)
	})

	t.Run("must target debris", func(t *testing.T) {
		req := base
		req.DestinationKind = DestinationPlanet
		_, err := planDispatch(originPlanet(), req, 1, dispatchEpoch)
		assert.Error(t, err)
	})
}

func TestPlanDispatchExpeditionSlot(t *testing.T) {
	req := DispatchRequest{
		OriginPlanetID:  7,
		Destination:     universe.Coordinates{Galaxy: 1, System: 1, Position: 16},
		DestinationKind: DestinationEmpty,
		Type:            MissionExpedition,
		Ships:           map[catalog.ShipID]int64{catalog.SmallCargo: 5},
		SpeedPercent:    100,
	}

	_, err := planDispatch(originPlanet(), req, 1, dispatchEpoch)
	assert.NoError(t, err)

	t.Run("expedition must target the expedition slot", func(t *testing.T) {
		bad := req
		bad.Destination.Position = 8
		_, err := planDispatch(originPlanet(), bad, 1, dispatchEpoch)
		assert.Error(t, err)
	})

	t.Run("other missions cannot target the expedition slot", func(t *testing.T) {
		bad := req
		bad.Type = MissionTransport
		_, err := planDispatch(originPlanet(), bad, 1, dispatchEpoch)
		assert.Error(t, err)
	})
}

func TestPlanDispatchUnknownMissionType(t *testing.T) {
	req := transportRequest()
	req.Type = "invasion"

	_, err := planDispatch(originPlanet(), req, 1, dispatchEpoch)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestPlanDispatchDropsZeroCounts(t *testing.T) {
	req := transportRequest()
	req.Ships = map[catalog.ShipID]int64{
		catalog.SmallCargo: 10,
		catalog.Recycler:   0,
	}
	req.Cargo = catalog.Resources{}

	m, err := planDispatch(originPlanet(), req, 1, dispatchEpoch)
	require.NoError(t, err)

	assert.Len(t, m.Ships, 1)
	assert.Equal(t, int64(10), m.Ships[catalog.SmallCargo])
}
