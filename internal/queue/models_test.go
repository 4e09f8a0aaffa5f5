package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var queueEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func entry(id int, target string, started, finishes time.Duration) Entry {
	return Entry{
		ID:         id,
		Kind:       KindBuilding,
		OwnerID:    1,
		TargetID:   target,
		StartedAt:  queueEpoch.Add(started),
		FinishesAt: queueEpoch.Add(finishes),
	}
}

func TestDueSplit(t *testing.T) {
	entries := []Entry{
		entry(1, "metal_mine", 0, time.Hour),
		entry(2, "crystal_mine", time.Minute, 2*time.Hour),
		entry(3, "solar_plant", 2*time.Minute, 3*time.Hour),
	}

	due, remaining := Due(entries, queueEpoch.Add(2*time.Hour))

	require.Len(t, due, 2)
	require.Len(t, remaining, 1)
	assert.Equal(t, 1, due[0].ID)
	assert.Equal(t, 2, due[1].ID)
	assert.Equal(t, 3, remaining[0].ID)
}

func TestDueBoundaryInclusive(t *testing.T) {
	entries := []Entry{entry(1, "metal_mine", 0, time.Hour)}

	due, _ := Due(entries, queueEpoch.Add(time.Hour))

	assert.Len(t, due, 1, "an entry finishing exactly now is due")
}

// Entries finishing at the same instant stay in queue order, so a
// batch of simultaneously due upgrades applies first-in first-out.
func TestDuePreservesOrderForSimultaneousFinish(t *testing.T) {
	entries := []Entry{
		entry(1, "metal_mine", 0, time.Hour),
		entry(2, "crystal_mine", time.Second, time.Hour),
		entry(3, "deuterium_synthesizer", 2*time.Second, time.Hour),
	}

	due, _ := Due(entries, queueEpoch.Add(time.Hour))

	require.Len(t, due, 3)
	for i, e := range due {
		assert.Equal(t, i+1, e.ID)
	}
}

func TestDueEmptyQueue(t *testing.T) {
	due, remaining := Due(nil, queueEpoch)

	assert.Empty(t, due)
	assert.Empty(t, remaining)
}

func TestHasPendingTarget(t *testing.T) {
	entries := []Entry{
		entry(1, "metal_mine", 0, time.Hour),
		entry(2, "crystal_mine", time.Minute, 2*time.Hour),
	}

	assert.True(t, HasPendingTarget(entries, "metal_mine"))
	assert.False(t, HasPendingTarget(entries, "solar_plant"))
	assert.False(t, HasPendingTarget(nil, "metal_mine"))
}
