package export

import (
	"fmt"
	"strings"

	"github.com/DoyleJ11/squad-randomizer/internal/engine"
)

// Text renders a record as a short chat-friendly summary.
func Text(r engine.Record, comp engine.TeamCompositions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Map: %s\n", r.Map)
	teams := []struct {
		members []string
		comp    engine.Composition
	}{{r.Teams.Team1, comp.Team1}, {r.Teams.Team2, comp.Team2}}

	for i, t := range teams {
		fmt.Fprintf(&b, "\nTeam %d\n", i+1)
		for _, p := range t.members {
			l := r.Weapons[p]
			fmt.Fprintf(&b, "  %s: %s | %s + %s\n", p, r.Roles[p], l.Primary, l.Secondary)
		}
		if r.Settings.AssignmentMode != engine.AssignRole {
			c := t.comp
			fmt.Fprintf(&b, "  utility: flash %d, info %d, deny %d, entry %d, hold %d\n",
				c.Flash, c.Info, c.Deny, c.Entry, c.Hold)
		}
	}
	return b.String()
}
