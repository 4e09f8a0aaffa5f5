package fleet

import (
	"time"

	"empire-server/internal/catalog"
	"empire-server/internal/planet"
	"empire-server/internal/shared/errors"
	"empire-server/internal/universe"
)

// DispatchRequest is the validated intent to send a fleet.
type DispatchRequest struct {
	OriginPlanetID  int
	Destination     universe.Coordinates
	DestinationKind DestinationKind
	Type            MissionType
	Ships           map[catalog.ShipID]int64
	Cargo           catalog.Resources
	SpeedPercent    int
}

// planDispatch turns a dispatch request into a mission snapshot
// against a settled origin planet. Pure: all timing comes from now and
// the formulas, nothing is persisted. The returned mission has the
// fuel already computed; the caller debits fuel and cargo atomically.
func planDispatch(origin planet.Planet, req DispatchRequest, fleetSpeedFactor float64, now time.Time) (Mission, error) {
	if !knownMissionType(req.Type) {
		return Mission{}, errors.Validationf("unknown mission type %q", req.Type)
	}

	if req.SpeedPercent < 1 || req.SpeedPercent > 100 {
		return Mission{}, errors.Validationf("speed percent %d out of range 1..100", req.SpeedPercent)
	}

	if req.Cargo.HasNegative() {
		return Mission{}, errors.Validationf("cargo amounts must not be negative")
	}

	if err := validateShips(origin, req); err != nil {
		return Mission{}, err
	}

	allowExpeditionSlot := req.Type == MissionExpedition
	if err := req.Destination.Validate(allowExpeditionSlot); err != nil {
		return Mission{}, err
	}
	if req.Type == MissionExpedition && req.Destination.Position != universe.ExpeditionPosition {
		return Mission{}, errors.Validationf("expeditions must target position %d", universe.ExpeditionPosition)
	}

	capacity := catalog.CargoCapacity(req.Ships)
	if req.Cargo.Total() > capacity {
		return Mission{}, errors.Capacityf(
			"cargo %.0f exceeds fleet capacity %.0f", req.Cargo.Total(), capacity)
	}

	distance := universe.Distance(origin.Coordinates, req.Destination)
	duration := catalog.TravelTime(distance, catalog.SlowestShipSpeed(req.Ships), req.SpeedPercent, fleetSpeedFactor)
	fuel := catalog.FuelConsumption(distance, req.Ships, req.SpeedPercent)

	ships := make(map[catalog.ShipID]int64, len(req.Ships))
	for id, count := range req.Ships {
		if count > 0 {
			ships[id] = count
		}
	}

	return Mission{
		PlayerID:        origin.PlayerID,
		OriginPlanetID:  origin.ID,
		Origin:          origin.Coordinates,
		Destination:     req.Destination,
		DestinationKind: req.DestinationKind,
		Type:            req.Type,
		Ships:           ships,
		Cargo:           req.Cargo,
		SpeedPercent:    req.SpeedPercent,
		Fuel:            fuel,
		State:           StateOutbound,
		DepartedAt:      now,
		ArrivesAt:       now.Add(duration),
	}, nil
}

func validateShips(origin planet.Planet, req DispatchRequest) error {
	var total int64
	for id, count := range req.Ships {
		if count < 0 {
			return errors.Validationf("negative count for ship %q", id)
		}
		if count == 0 {
			continue
		}
		if !catalog.KnownShip(id) {
			return errors.Validationf("unknown ship %q", id)
		}
		if origin.ShipCount(id) < count {
			return errors.InsufficientResourcesf(
				"planet %d has %d %s, %d requested", origin.ID, origin.ShipCount(id), id, count)
		}
		total += count
	}
	if total == 0 {
		return errors.Validationf("a mission needs at least one ship")
	}

	switch req.Type {
	case MissionColonization:
		if req.Ships[catalog.ColonyShip] < 1 {
			return errors.Validationf("colonization needs a colony ship")
		}
	case MissionRecycle:
		if req.Ships[catalog.Recycler] < 1 {
			return errors.Validationf("recycling needs at least one recycler")
		}
		if !req.Cargo.IsZero() {
			return errors.Validationf("recycle missions fly with empty holds")
		}
		if req.DestinationKind != DestinationDebris {
			return errors.Validationf("recycle missions target debris fields")
		}
	}

	return nil
}
