package fleet

import (
	"time"

	"empire-server/internal/catalog"
	"empire-server/internal/universe"
)

// MissionType is the purpose of a flight.
type MissionType string

const (
	MissionAttack       MissionType = "attack"
	MissionTransport    MissionType = "transport"
	MissionDeployment   MissionType = "deployment"
	MissionEspionage    MissionType = "espionage"
	MissionColonization MissionType = "colonization"
	MissionRecycle      MissionType = "recycle"
	MissionExpedition   MissionType = "expedition"
)

// DestinationKind describes what sits at the target coordinates.
type DestinationKind string

const (
	DestinationPlanet DestinationKind = "planet"
	DestinationMoon   DestinationKind = "moon"
	DestinationDebris DestinationKind = "debris"
	DestinationEmpty  DestinationKind = "empty"
)

// State is the lifecycle stage of a mission. Arrival processing is
// one-shot: the Processed flag flips exactly once, guarded by a
// compare-and-swap at the store.
type State string

const (
	StateOutbound  State = "in_transit_outbound"
	StateReturning State = "in_transit_return"
	StateCompleted State = "completed"
	StateDestroyed State = "destroyed"
)

// Mission is one outbound (and optionally return) flight.
type Mission struct {
	ID              int                      `json:"id"`
	PlayerID        int                      `json:"player_id"`
	OriginPlanetID  int                      `json:"origin_planet_id"`
	Origin          universe.Coordinates     `json:"origin"`
	Destination     universe.Coordinates     `json:"destination"`
	DestinationKind DestinationKind          `json:"destination_kind"`
	Type            MissionType              `json:"type"`
	Ships           map[catalog.ShipID]int64 `json:"ships"`
	Cargo           catalog.Resources        `json:"cargo"`
	SpeedPercent    int                      `json:"speed_percent"`
	Fuel            float64                  `json:"fuel"`
	State           State                    `json:"state"`
	Processed       bool                     `json:"processed"`
	DepartedAt      time.Time                `json:"departed_at"`
	ArrivesAt       time.Time                `json:"arrives_at"`
	ReturnsAt       *time.Time               `json:"returns_at,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// OutboundDuration is the one-way flight time computed at dispatch.
func (m *Mission) OutboundDuration() time.Duration {
	return m.ArrivesAt.Sub(m.DepartedAt)
}

func knownMissionType(t MissionType) bool {
	switch t {
	case MissionAttack, MissionTransport, MissionDeployment, MissionEspionage,
		MissionColonization, MissionRecycle, MissionExpedition:
		return true
	}
	return false
}
