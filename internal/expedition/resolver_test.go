package expedition

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightsSumToHundred(t *testing.T) {
	assert.Equal(t, 100, TotalWeight())
}

func TestTier(t *testing.T) {
	tests := []struct {
		power float64
		want  int
	}{
		{0, 0},
		{999, 0},
		{1e3, 1},
		{1e4, 2},
		{1e5, 3},
		{1e6, 4},
		{1e7, 5},
		{5e8, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Tier(tt.power), "power %g", tt.power)
	}
}

func TestResolveDeterministicForSeed(t *testing.T) {
	first := Resolve(5e4, rand.New(rand.NewSource(42)))
	second := Resolve(5e4, rand.New(rand.NewSource(42)))

	assert.Equal(t, first, second)
}

func TestResolveOutcomeInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 10000; i++ {
		o := Resolve(1e5, rng)

		switch o.Event {
		case EventNothing:
			assert.True(t, o.Resources.IsZero())
			assert.Zero(t, o.DarkMatter)
			assert.Equal(t, 1.0, o.TimeModifier)
		case EventResources:
			assert.Greater(t, o.Resources.Total(), 0.0)
		case EventShips:
			assert.NotEmpty(t, o.Ships)
		case EventDarkMatter:
			assert.Greater(t, o.DarkMatter, 0.0)
		case EventPirates, EventAliens:
			assert.Greater(t, o.ShipLossFactor, 0.0)
			assert.LessOrEqual(t, o.ShipLossFactor, 0.40)
		case EventBlackHole:
			assert.True(t, o.FleetDestroyed)
		case EventDelay:
			assert.GreaterOrEqual(t, o.TimeModifier, 1.5)
			assert.LessOrEqual(t, o.TimeModifier, 3.0)
		case EventSpeedBonus:
			assert.GreaterOrEqual(t, o.TimeModifier, 0.5)
			assert.LessOrEqual(t, o.TimeModifier, 0.8)
		default:
			t.Fatalf("unknown event %q", o.Event)
		}
	}
}

// The empirical event frequencies over many draws must converge on the
// weight table.
func TestResolveFrequenciesMatchWeights(t *testing.T) {
	const draws = 200000
	rng := rand.New(rand.NewSource(1))

	counts := map[EventType]int{}
	for i := 0; i < draws; i++ {
		counts[Resolve(1e4, rng).Event]++
	}

	for _, w := range eventWeights {
		expected := float64(w.weight) / float64(TotalWeight())
		actual := float64(counts[w.event]) / draws
		require.InDelta(t, expected, actual, 0.01, "event %s", w.event)
	}
}

func TestResolveGainsScaleWithTier(t *testing.T) {
	lowTotal, highTotal := 0.0, 0.0
	lowRng := rand.New(rand.NewSource(3))
	highRng := rand.New(rand.NewSource(3))

	for i := 0; i < 5000; i++ {
		lowTotal += Resolve(100, lowRng).Resources.Total()
		highTotal += Resolve(1e7, highRng).Resources.Total()
	}

	assert.Greater(t, highTotal, lowTotal)
}

func TestResolveLossShrinksWithTier(t *testing.T) {
	assert.Equal(t, 0.30, lossFactor(0.30, 0))
	assert.InDelta(t, 0.10, lossFactor(0.30, 5), 1e-9)
	assert.Equal(t, 0.05, lossFactor(0.30, 10), "loss factor is floored")
}
