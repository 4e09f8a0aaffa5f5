package debris

import (
	"time"

	"empire-server/internal/universe"
)

// Field holds the salvageable resources left at a coordinate. Both
// quantities stay non-negative; a field at (0, 0) is depleted and may
// be removed.
type Field struct {
	Coordinates universe.Coordinates `json:"coordinates"`
	Metal       float64              `json:"metal"`
	Crystal     float64              `json:"crystal"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func (f Field) Depleted() bool {
	return f.Metal <= 0 && f.Crystal <= 0
}
