package planet

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"empire-server/internal/universe"
)

func TestRandomCoordinatesStayInsidePlanetaryBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		coords := randomCoordinates(rng)

		require.NoError(t, coords.Validate(false))
		assert.GreaterOrEqual(t, coords.Galaxy, 1)
		assert.LessOrEqual(t, coords.Galaxy, universe.MaxGalaxy)
		assert.GreaterOrEqual(t, coords.System, 1)
		assert.LessOrEqual(t, coords.System, universe.MaxSystem)
		assert.GreaterOrEqual(t, coords.Position, 1)
		assert.LessOrEqual(t, coords.Position, universe.MaxPosition)
	}
}

func TestRandomCoordinatesDeterministicPerSeed(t *testing.T) {
	first := rand.New(rand.NewSource(7))
	second := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		assert.Equal(t, randomCoordinates(first), randomCoordinates(second))
	}
}
