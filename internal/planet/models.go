package planet

import (
	"time"

	"empire-server/internal/catalog"
	"empire-server/internal/universe"
)

// Planet is a player-owned production site at fixed coordinates. The
// struct is a snapshot: core operations take it by value, return an
// updated copy and leave persistence to the caller.
type Planet struct {
	ID          int                        `json:"id"`
	PlayerID    int                        `json:"player_id"`
	Name        string                     `json:"name"`
	Coordinates universe.Coordinates       `json:"coordinates"`
	Resources   catalog.Resources          `json:"resources"`
	Storage     catalog.Resources          `json:"storage"`
	Rates       catalog.Resources          `json:"rates"`
	Energy      EnergyBalance              `json:"energy"`
	Buildings   map[catalog.BuildingID]int `json:"buildings"`
	Ships       map[catalog.ShipID]int64   `json:"ships"`

	LastResourceUpdate time.Time  `json:"last_resource_update"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`
}

// EnergyBalance is derived from building levels, never time-accrued.
// Balance may go negative; production penalties for deficits are
// applied by the layer that owns them, not by the ledger.
type EnergyBalance struct {
	Produced float64 `json:"produced"`
	Used     float64 `json:"used"`
}

func (e EnergyBalance) Balance() float64 {
	return e.Produced - e.Used
}

// BuildingLevel returns the level of a building, 0 when never built.
func (p *Planet) BuildingLevel(id catalog.BuildingID) int {
	if p.Buildings == nil {
		return 0
	}
	return p.Buildings[id]
}

// ShipCount returns the number of stationed ships of a type.
func (p *Planet) ShipCount(id catalog.ShipID) int64 {
	if p.Ships == nil {
		return 0
	}
	return p.Ships[id]
}

// CloneMaps returns a copy of the planet with its own building and
// ship maps, so mutations do not leak into the snapshot it came from.
func (p Planet) CloneMaps() Planet {
	buildings := make(map[catalog.BuildingID]int, len(p.Buildings))
	for id, level := range p.Buildings {
		buildings[id] = level
	}
	ships := make(map[catalog.ShipID]int64, len(p.Ships))
	for id, count := range p.Ships {
		ships[id] = count
	}
	p.Buildings = buildings
	p.Ships = ships
	return p
}
