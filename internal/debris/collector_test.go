package debris

import (
	"testing"

	"empire-server/internal/universe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testField(metal, crystal float64) Field {
	return Field{
		Coordinates: universe.Coordinates{Galaxy: 1, System: 1, Position: 8},
		Metal:       metal,
		Crystal:     crystal,
	}
}

// Two recyclers hold 40,000: a rich field fills them with metal alone
// and the crystal stays behind.
func TestCollectMetalFillsCapacityFirst(t *testing.T) {
	remaining, result, err := Collect(testField(50000, 10000), 2)
	require.NoError(t, err)

	assert.Equal(t, 40000.0, result.Metal)
	assert.Equal(t, 0.0, result.Crystal)
	assert.False(t, result.FieldDepleted)
	assert.Equal(t, 10000.0, remaining.Metal)
	assert.Equal(t, 10000.0, remaining.Crystal)
}

func TestCollectCrystalFillsLeftoverCapacity(t *testing.T) {
	remaining, result, err := Collect(testField(15000, 30000), 2)
	require.NoError(t, err)

	assert.Equal(t, 15000.0, result.Metal)
	assert.Equal(t, 25000.0, result.Crystal)
	assert.Equal(t, 0.0, remaining.Metal)
	assert.Equal(t, 5000.0, remaining.Crystal)
}

func TestCollectDepletesSmallField(t *testing.T) {
	remaining, result, err := Collect(testField(5000, 3000), 1)
	require.NoError(t, err)

	assert.Equal(t, 5000.0, result.Metal)
	assert.Equal(t, 3000.0, result.Crystal)
	assert.True(t, result.FieldDepleted)
	assert.True(t, remaining.Depleted())
}

func TestCollectNeverExceedsFieldOrCapacity(t *testing.T) {
	tests := []struct {
		name      string
		metal     float64
		crystal   float64
		recyclers int64
	}{
		{"rich field few recyclers", 1e6, 1e6, 3},
		{"poor field many recyclers", 100, 50, 50},
		{"metal only", 30000, 0, 1},
		{"crystal only", 0, 30000, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := testField(tt.metal, tt.crystal)
			remaining, result, err := Collect(field, tt.recyclers)
			require.NoError(t, err)

			assert.LessOrEqual(t, result.Metal, field.Metal)
			assert.LessOrEqual(t, result.Crystal, field.Crystal)
			assert.LessOrEqual(t, result.Total(), float64(tt.recyclers)*RecyclerCapacity)
			assert.GreaterOrEqual(t, remaining.Metal, 0.0)
			assert.GreaterOrEqual(t, remaining.Crystal, 0.0)
			assert.InDelta(t, field.Metal+field.Crystal, remaining.Metal+remaining.Crystal+result.Total(), 1e-9)
		})
	}
}

func TestCollectZeroRecyclers(t *testing.T) {
	remaining, result, err := Collect(testField(1000, 1000), 0)
	require.NoError(t, err)

	assert.Zero(t, result.Total())
	assert.Equal(t, 1000.0, remaining.Metal)
}

func TestCollectNegativeRecyclersRejected(t *testing.T) {
	_, _, err := Collect(testField(1000, 1000), -1)
	assert.Error(t, err)
}
