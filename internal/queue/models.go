package queue

import (
	"time"

	"empire-server/internal/catalog"
)

// Kind separates the per-planet building queue from the per-player
// research queue.
type Kind string

const (
	KindBuilding Kind = "building"
	KindResearch Kind = "research"
)

// Entry is one pending upgrade. The cost recorded here was charged
// when the entry was created; completion only applies the level.
type Entry struct {
	ID          int               `json:"id"`
	Kind        Kind              `json:"kind"`
	OwnerID     int               `json:"owner_id"`
	TargetID    string            `json:"target_id"`
	TargetLevel int               `json:"target_level"`
	Cost        catalog.Resources `json:"cost"`
	StartedAt   time.Time         `json:"started_at"`
	FinishesAt  time.Time         `json:"finishes_at"`
}

// Due splits a queue into the entries whose finish time has elapsed
// and the rest. Entries must already be in queue order (started_at,
// then id); the split preserves it, so simultaneously due entries are
// still applied strictly first-in first-out.
func Due(entries []Entry, now time.Time) (due, remaining []Entry) {
	for _, e := range entries {
		if !e.FinishesAt.After(now) {
			due = append(due, e)
		} else {
			remaining = append(remaining, e)
		}
	}
	return due, remaining
}

// HasPendingTarget reports whether a target id already has an entry in
// the queue.
func HasPendingTarget(entries []Entry, targetID string) bool {
	for _, e := range entries {
		if e.TargetID == targetID {
			return true
		}
	}
	return false
}
