package debris

import (
	"math"

	"empire-server/internal/shared/errors"
)

// RecyclerCapacity is the hold size of a single recycler in resource
// units.
const RecyclerCapacity = 20000.0

// CollectionResult reports what a recycler fleet pulled out of a field.
type CollectionResult struct {
	Metal         float64 `json:"metal"`
	Crystal       float64 `json:"crystal"`
	FieldDepleted bool    `json:"field_depleted"`
}

func (r CollectionResult) Total() float64 {
	return r.Metal + r.Crystal
}

// Collect computes how much of a field a recycler fleet hauls away.
// Capacity is recyclerCount * RecyclerCapacity; metal is loaded first
// and crystal fills whatever capacity remains. Collection never
// exceeds what the field holds, and the returned field reflects the
// removal.
func Collect(field Field, recyclerCount int64) (Field, CollectionResult, error) {
	if recyclerCount < 0 {
		return field, CollectionResult{}, errors.Validationf("recycler count %d must not be negative", recyclerCount)
	}

	capacity := float64(recyclerCount) * RecyclerCapacity

	metal := math.Min(field.Metal, capacity)
	crystal := math.Min(field.Crystal, capacity-metal)

	field.Metal -= metal
	field.Crystal -= crystal

	result := CollectionResult{
		Metal:         metal,
		Crystal:       crystal,
		FieldDepleted: field.Depleted(),
	}

	return field, result, nil
}
