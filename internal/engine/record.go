package engine

import (
	"github.com/mitchellh/copystructure"

	"github.com/DoyleJ11/squad-randomizer/internal/constraints"
)

// Settings is the mode snapshot stored with a record. It is captured at build
// time and never recomputed from live settings.
type Settings struct {
	WeaponSelectionMode constraints.GroupKind `json:"weaponSelectionMode"`
	WeaponGroupsUsed    bool                  `json:"weaponGroupsUsed"`
	AssignmentMode      AssignmentMode        `json:"assignmentMode"`
	TeamMode            TeamMode              `json:"teamMode"`
}

// Record is the result of one randomization. Treat it as read-only; use Copy
// before handing it to code that may mutate it.
type Record struct {
	Teams     Teams              `json:"teams"`
	Weapons   map[string]Loadout `json:"weapons"`
	Roles     map[string]string  `json:"roles"`
	Map       string             `json:"map"`
	Settings  Settings           `json:"randomizationSettings"`
	Fallbacks int                `json:"fallbacks"`
}

// Build composes a record from freshly computed parts. Inputs are copied so
// the caller may keep using them.
func Build(teams Teams, weapons map[string]Loadout, roles map[string]string, mapName string, settings Settings) Record {
	w := make(map[string]Loadout, len(weapons))
	for k, v := range weapons {
		w[k] = v
	}
	r := make(map[string]string, len(roles))
	for k, v := range roles {
		r[k] = v
	}
	return Record{
		Teams:    teams.Clone(),
		Weapons:  w,
		Roles:    r,
		Map:      mapName,
		Settings: settings,
	}
}

// Copy returns a deep copy of the record.
func (r Record) Copy() Record {
	c, err := copystructure.Copy(r)
	if err != nil {
		// Record only holds maps, slices and strings
		panic(err)
	}
	return c.(Record)
}

// Participants lists team1 then team2.
func (r Record) Participants() []string {
	return append(append([]string{}, r.Teams.Team1...), r.Teams.Team2...)
}
