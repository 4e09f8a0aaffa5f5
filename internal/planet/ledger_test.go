package planet

import (
	"testing"
	"time"

	"empire-server/internal/catalog"
	"empire-server/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settleEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testPlanet() Planet {
	return Planet{
		ID:       1,
		PlayerID: 1,
		Resources: catalog.Resources{
			Metal:   100,
			Crystal: 50,
		},
		Storage: catalog.Resources{
			Metal:     10000,
			Crystal:   10000,
			Deuterium: 10000,
		},
		Rates: catalog.Resources{
			Metal:     1000,
			Crystal:   500,
			Deuterium: 100,
		},
		Buildings:          map[catalog.BuildingID]int{catalog.MetalMine: 1},
		Ships:              map[catalog.ShipID]int64{},
		LastResourceUpdate: settleEpoch,
	}
}

func TestSettleAccruesLinearly(t *testing.T) {
	p := testPlanet()

	settled := Settle(p, settleEpoch.Add(time.Hour))

	assert.Equal(t, 1100.0, settled.Resources.Metal)
	assert.Equal(t, 550.0, settled.Resources.Crystal)
	assert.Equal(t, 100.0, settled.Resources.Deuterium)
	assert.Equal(t, settleEpoch.Add(time.Hour), settled.LastResourceUpdate)
}

func TestSettleZeroElapsedIsIdentity(t *testing.T) {
	p := testPlanet()

	settled := Settle(p, settleEpoch)

	assert.Equal(t, p.Resources, settled.Resources)
	assert.Equal(t, p.LastResourceUpdate, settled.LastResourceUpdate)
}

func TestSettlePastInstantNeverRollsBack(t *testing.T) {
	p := testPlanet()

	settled := Settle(p, settleEpoch.Add(-time.Hour))

	assert.Equal(t, p.Resources, settled.Resources)
	assert.Equal(t, settleEpoch, settled.LastResourceUpdate)
}

func TestSettleIdempotent(t *testing.T) {
	p := testPlanet()
	asOf := settleEpoch.Add(30 * time.Minute)

	once := Settle(p, asOf)
	twice := Settle(once, asOf)

	assert.Equal(t, once.Resources, twice.Resources)
}

// Settling twice over split intervals must equal settling once over
// the whole interval: the accrual is a pure function of elapsed time.
func TestSettleComposes(t *testing.T) {
	p := testPlanet()

	direct := Settle(p, settleEpoch.Add(2*time.Hour))
	stepped := Settle(Settle(p, settleEpoch.Add(time.Hour)), settleEpoch.Add(2*time.Hour))

	assert.InDelta(t, direct.Resources.Metal, stepped.Resources.Metal, 1e-9)
	assert.InDelta(t, direct.Resources.Crystal, stepped.Resources.Crystal, 1e-9)
	assert.InDelta(t, direct.Resources.Deuterium, stepped.Resources.Deuterium, 1e-9)
}

func TestSettleCapsAtStorage(t *testing.T) {
	p := testPlanet()

	settled := Settle(p, settleEpoch.Add(100*time.Hour))

	assert.Equal(t, 10000.0, settled.Resources.Metal)
	assert.Equal(t, 10000.0, settled.Resources.Crystal)
	assert.Equal(t, 10000.0, settled.Resources.Deuterium)
}

func TestSettleNeverDecreasesAboveCapBalance(t *testing.T) {
	p := testPlanet()
	p.Resources.Metal = 20000 // already above the cap

	settled := Settle(p, settleEpoch.Add(time.Hour))

	assert.Equal(t, 20000.0, settled.Resources.Metal)
}

func TestSettleEndToEnd(t *testing.T) {
	p := Planet{
		Storage:            catalog.Resources{Metal: 100000, Crystal: 100000, Deuterium: 100000},
		Rates:              catalog.Resources{Metal: 1000},
		LastResourceUpdate: settleEpoch,
	}

	settled := Settle(p, settleEpoch.Add(3600*time.Second))

	assert.Equal(t, 1000.0, settled.Resources.Metal)
}

func TestDebit(t *testing.T) {
	p := testPlanet()
	p.Resources = catalog.Resources{Metal: 100, Crystal: 50}

	t.Run("covered cost succeeds", func(t *testing.T) {
		debited, err := Debit(p, catalog.Resources{Metal: 60, Crystal: 15})
		require.NoError(t, err)
		assert.Equal(t, catalog.Resources{Metal: 40, Crystal: 35}, debited.Resources)
	})

	t.Run("uncovered cost fails without partial effect", func(t *testing.T) {
		debited, err := Debit(p, catalog.Resources{Metal: 60, Crystal: 60})
		require.Error(t, err)
		assert.Equal(t, errors.ErrorTypeInsufficientResources, errors.GetType(err))
		assert.Equal(t, p.Resources, debited.Resources)
	})

	t.Run("negative cost rejected", func(t *testing.T) {
		_, err := Debit(p, catalog.Resources{Metal: -10})
		require.Error(t, err)
		assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
	})
}

func TestCreditCapsAtStorage(t *testing.T) {
	p := testPlanet()
	p.Resources = catalog.Resources{Metal: 9000, Crystal: 50}

	credited := Credit(p, catalog.Resources{Metal: 5000, Crystal: 100})

	assert.Equal(t, 10000.0, credited.Resources.Metal)
	assert.Equal(t, 150.0, credited.Resources.Crystal)
}
