package catalog

// ShipID identifies a ship type.
type ShipID string

const (
	SmallCargo     ShipID = "small_cargo"
	LargeCargo     ShipID = "large_cargo"
	LightFighter   ShipID = "light_fighter"
	Recycler       ShipID = "recycler"
	ColonyShip     ShipID = "colony_ship"
	EspionageProbe ShipID = "espionage_probe"
)

// ShipSpec holds the per-type flight constants. Speed is the maximum
// velocity in distance units per hour, Cargo the hold size in resource
// units, FuelRate the base deuterium consumption over the reference
// distance, and Power the combat-power weight used for expedition
// tiering.
type ShipSpec struct {
	Speed    float64
	Cargo    float64
	FuelRate float64
	Power    float64
}

var shipSpecs = map[ShipID]ShipSpec{
	SmallCargo:     {Speed: 5000, Cargo: 5000, FuelRate: 10, Power: 4000},
	LargeCargo:     {Speed: 7500, Cargo: 25000, FuelRate: 50, Power: 12000},
	LightFighter:   {Speed: 12500, Cargo: 50, FuelRate: 20, Power: 4400},
	Recycler:       {Speed: 2000, Cargo: 20000, FuelRate: 300, Power: 16000},
	ColonyShip:     {Speed: 2500, Cargo: 7500, FuelRate: 1000, Power: 30000},
	EspionageProbe: {Speed: 100000000, Cargo: 5, FuelRate: 1, Power: 1000},
}

// KnownShip reports whether id names a ship type.
func KnownShip(id ShipID) bool {
	_, ok := shipSpecs[id]
	return ok
}

// Ship returns the spec of a ship type. The boolean mirrors map access
// so callers can reject unknown ids before doing arithmetic.
func Ship(id ShipID) (ShipSpec, bool) {
	spec, ok := shipSpecs[id]
	return spec, ok
}

// CargoCapacity returns the aggregate hold size of a fleet.
func CargoCapacity(ships map[ShipID]int64) float64 {
	var capacity float64
	for id, count := range ships {
		if count <= 0 {
			continue
		}
		if spec, ok := shipSpecs[id]; ok {
			capacity += spec.Cargo * float64(count)
		}
	}
	return capacity
}

// SlowestShipSpeed returns the velocity of the slowest ship present in
// the fleet; the whole fleet flies at that speed. Returns 0 for an
// empty fleet.
func SlowestShipSpeed(ships map[ShipID]int64) float64 {
	var slowest float64
	for id, count := range ships {
		if count <= 0 {
			continue
		}
		spec, ok := shipSpecs[id]
		if !ok {
			continue
		}
		if slowest == 0 || spec.Speed < slowest {
			slowest = spec.Speed
		}
	}
	return slowest
}

// FleetPower returns the summed combat-power weight of a fleet. Used
// by the expedition resolver to derive the outcome tier.
func FleetPower(ships map[ShipID]int64) float64 {
	var power float64
	for id, count := range ships {
		if count <= 0 {
			continue
		}
		if spec, ok := shipSpecs[id]; ok {
			power += spec.Power * float64(count)
		}
	}
	return power
}

// TotalShips returns the number of ships in a fleet.
func TotalShips(ships map[ShipID]int64) int64 {
	var total int64
	for _, count := range ships {
		if count > 0 {
			total += count
		}
	}
	return total
}
