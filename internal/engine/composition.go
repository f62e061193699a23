package engine

import (
	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
)

// Composition counts utility flags across the characters a team was given.
type Composition struct {
	Flash int `json:"flash"`
	Info  int `json:"info"`
	Deny  int `json:"deny"`
	Entry int `json:"entry"`
	Hold  int `json:"hold"`
}

type TeamCompositions struct {
	Team1 Composition `json:"team1"`
	Team2 Composition `json:"team2"`
}

// Compose summarizes a record. Values that are not characters, such as role
// names in role mode, contribute nothing.
func Compose(r Record, cat *catalog.Catalog) TeamCompositions {
	return TeamCompositions{
		Team1: compose(r.Teams.Team1, r.Roles, cat),
		Team2: compose(r.Teams.Team2, r.Roles, cat),
	}
}

func compose(members []string, roles map[string]string, cat *catalog.Catalog) Composition {
	var c Composition
	for _, p := range members {
		u := cat.UtilityOf(roles[p])
		c.Flash += b2i(u.Flash)
		c.Info += b2i(u.Info)
		c.Deny += b2i(u.Deny)
		c.Entry += b2i(u.Entry)
		c.Hold += b2i(u.Hold)
	}
	return c
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
