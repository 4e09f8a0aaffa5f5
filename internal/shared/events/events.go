package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a domain event emitted by the simulation core.
type EventType string

const (
	EventQueueEntryCompleted EventType = "queue_entry_completed"
	EventMissionDispatched   EventType = "mission_dispatched"
	EventMissionArrived      EventType = "mission_arrived"
	EventMissionReturned     EventType = "mission_returned"
	EventPlanetColonized     EventType = "planet_colonized"
	EventDebrisCollected     EventType = "debris_collected"
	EventExpeditionResolved  EventType = "expedition_resolved"
)

// Event is the envelope forwarded to external notification layers.
// The core only emits; routing events to clients is someone else's job.
type Event struct {
	ID         string                 `json:"id"`
	Type       EventType              `json:"type"`
	PlayerID   int                    `json:"player_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// New builds an event envelope with a fresh identifier.
func New(eventType EventType, playerID int, occurredAt time.Time, payload map[string]interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		PlayerID:   playerID,
		OccurredAt: occurredAt,
		Payload:    payload,
	}
}
