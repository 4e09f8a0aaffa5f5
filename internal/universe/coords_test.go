package universe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinatesValidate(t *testing.T) {
	tests := []struct {
		name            string
		coords          Coordinates
		allowExpedition bool
		wantErr         bool
	}{
		{"valid", Coordinates{Galaxy: 1, System: 1, Position: 1}, false, false},
		{"max bounds", Coordinates{Galaxy: 9, System: 499, Position: 15}, false, false},
		{"galaxy zero", Coordinates{Galaxy: 0, System: 1, Position: 1}, false, true},
		{"galaxy too large", Coordinates{Galaxy: 10, System: 1, Position: 1}, false, true},
		{"system too large", Coordinates{Galaxy: 1, System: 500, Position: 1}, false, true},
		{"position zero", Coordinates{Galaxy: 1, System: 1, Position: 0}, false, true},
		{"expedition slot rejected for planets", Coordinates{Galaxy: 1, System: 1, Position: 16}, false, true},
		{"expedition slot allowed for fleets", Coordinates{Galaxy: 1, System: 1, Position: 16}, true, false},
		{"position beyond expedition slot", Coordinates{Galaxy: 1, System: 1, Position: 17}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coords.Validate(tt.allowExpedition)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDistanceTiers(t *testing.T) {
	base := Coordinates{Galaxy: 2, System: 100, Position: 8}

	samePosition := Distance(base, base)
	sameSystem := Distance(base, Coordinates{Galaxy: 2, System: 100, Position: 12})
	sameGalaxy := Distance(base, Coordinates{Galaxy: 2, System: 250, Position: 8})
	crossGalaxy := Distance(base, Coordinates{Galaxy: 5, System: 100, Position: 8})

	assert.Equal(t, 5.0, samePosition)
	assert.Equal(t, 1000.0+5*4, sameSystem)
	assert.Equal(t, 2700.0+95*150, sameGalaxy)
	assert.Equal(t, 20000.0*3, crossGalaxy)

	// The tiers must be strictly ordered.
	require.Less(t, samePosition, sameSystem)
	require.Less(t, sameSystem, sameGalaxy)
	require.Less(t, sameGalaxy, crossGalaxy)
}

func TestDistanceSymmetric(t *testing.T) {
	a := Coordinates{Galaxy: 1, System: 10, Position: 3}
	b := Coordinates{Galaxy: 4, System: 200, Position: 14}

	assert.Equal(t, Distance(a, b), Distance(b, a))
}

func TestDistanceGrowsWithDelta(t *testing.T) {
	from := Coordinates{Galaxy: 1, System: 1, Position: 1}

	prev := 0.0
	for system := 2; system <= 499; system += 50 {
		d := Distance(from, Coordinates{Galaxy: 1, System: system, Position: 1})
		require.Greater(t, d, prev, "distance must grow with system delta")
		prev = d
	}
}
