package player

import (
	"time"

	"empire-server/internal/catalog"
)

// Player owns planets, the research queue and the dark matter earned
// on expeditions.
type Player struct {
	ID          int                        `json:"id"`
	Username    string                     `json:"username"`
	Email       string                     `json:"email"`
	DisplayName string                     `json:"display_name"`
	DarkMatter  float64                    `json:"dark_matter"`
	Research    map[catalog.ResearchID]int `json:"research"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// ResearchLevel returns the level of a technology, 0 when never researched.
func (p *Player) ResearchLevel(id catalog.ResearchID) int {
	if p.Research == nil {
		return 0
	}
	return p.Research[id]
}
