package catalog

// Resources is the metal/crystal/deuterium triple used for planet
// balances, costs and cargo alike.
type Resources struct {
	Metal     float64 `json:"metal"`
	Crystal   float64 `json:"crystal"`
	Deuterium float64 `json:"deuterium"`
}

func (r Resources) Add(other Resources) Resources {
	return Resources{
		Metal:     r.Metal + other.Metal,
		Crystal:   r.Crystal + other.Crystal,
		Deuterium: r.Deuterium + other.Deuterium,
	}
}

func (r Resources) Sub(other Resources) Resources {
	return Resources{
		Metal:     r.Metal - other.Metal,
		Crystal:   r.Crystal - other.Crystal,
		Deuterium: r.Deuterium - other.Deuterium,
	}
}

func (r Resources) Scale(factor float64) Resources {
	return Resources{
		Metal:     r.Metal * factor,
		Crystal:   r.Crystal * factor,
		Deuterium: r.Deuterium * factor,
	}
}

// Covers reports whether r is at least other in every component.
func (r Resources) Covers(other Resources) bool {
	return r.Metal >= other.Metal && r.Crystal >= other.Crystal && r.Deuterium >= other.Deuterium
}

func (r Resources) Total() float64 {
	return r.Metal + r.Crystal + r.Deuterium
}

func (r Resources) IsZero() bool {
	return r.Metal == 0 && r.Crystal == 0 && r.Deuterium == 0
}

// HasNegative reports whether any component is below zero. Carried
// cargo and costs are never allowed to go negative.
func (r Resources) HasNegative() bool {
	return r.Metal < 0 || r.Crystal < 0 || r.Deuterium < 0
}
