package lobby

import (
	"time"

	"github.com/mitchellh/copystructure"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/constraints"
	"github.com/DoyleJ11/squad-randomizer/internal/engine"
)

const (
	MaxParticipants   = 10
	MaxParticipantLen = 20
)

// State is everything a lobby owns. Only the lobby goroutine mutates it;
// snapshots handed out are deep copies.
type State struct {
	Participants   []string              `json:"participants"`
	TeamMode       engine.TeamMode       `json:"teamMode"`
	Pinned         engine.Teams          `json:"pinnedTeams"`
	Exclusions     constraints.Set       `json:"exclusions"`
	Groups         constraints.Groups    `json:"weaponGroups"`
	Toggles        constraints.Toggles   `json:"toggles"`
	Selection      constraints.GroupKind `json:"weaponSelectionMode"`
	AssignmentMode engine.AssignmentMode `json:"assignmentMode"`
	Map            engine.MapPin         `json:"pinnedMap"`

	// Deathmatch draws a single weapon against its own exclusions and
	// selection mode. Pairing groups and their toggles are shared.
	Deathmatch          constraints.Set       `json:"deathmatchExclusions"`
	DeathmatchSelection constraints.GroupKind `json:"deathmatchSelectionMode"`
	DeathmatchWeapon    string                `json:"deathmatchWeapon,omitempty"`

	Result  *engine.Record `json:"result,omitempty"`
	History []HistoryEntry `json:"history"`
}

type HistoryEntry struct {
	ID     string        `json:"id"`
	At     time.Time     `json:"at"`
	Record engine.Record `json:"record"`
}

func NewState() State {
	return State{
		Participants:   []string{},
		TeamMode:       engine.TeamRandom,
		Pinned:         engine.Teams{Team1: []string{}, Team2: []string{}},
		Exclusions:     constraints.NewSet(),
		Groups:         constraints.Groups{},
		Toggles:        constraints.DefaultToggles(),
		Selection:      constraints.KindCategory,
		AssignmentMode: engine.AssignRole,
		Deathmatch:     constraints.NewSet(),
		History:        []HistoryEntry{},

		DeathmatchSelection: constraints.KindCategory,
	}
}

func (s State) Clone() State {
	c, err := copystructure.Copy(s)
	if err != nil {
		// State holds only maps, slices, strings and time values
		panic(err)
	}
	return c.(State)
}

// Settings is the portion covered by the settings document.
func (s State) Settings() constraints.Settings {
	return constraints.Settings{
		Exclusions:     s.Exclusions,
		Groups:         s.Groups,
		Toggles:        s.Toggles,
		AssignmentMode: string(s.AssignmentMode),
	}
}

func (s State) WeaponConfig() engine.WeaponConfig {
	return engine.WeaponConfig{Selection: s.Selection, Groups: s.Groups, Toggles: s.Toggles}
}

func (s State) DeathmatchConfig() engine.WeaponConfig {
	return engine.WeaponConfig{Selection: s.DeathmatchSelection, Groups: s.Groups, Toggles: s.Toggles}
}

// Request builds the engine input from the canonical state.
func (s State) Request() engine.Request {
	return engine.Request{
		Participants:   s.Participants,
		TeamMode:       s.TeamMode,
		Pinned:         s.Pinned,
		AssignmentMode: s.AssignmentMode,
		Exclusions:     s.Exclusions,
		Weapons:        s.WeaponConfig(),
		Map:            s.Map,
	}
}

// Repair fills zero values and drops anything the catalog no longer knows,
// so a state restored from storage is safe to use.
func (s State) Repair(cat *catalog.Catalog) State {
	out := s.Clone()
	def := NewState()
	if out.Participants == nil {
		out.Participants = def.Participants
	}
	if _, ok := engine.ParseTeamMode(string(out.TeamMode)); !ok {
		out.TeamMode = def.TeamMode
	}
	if _, ok := engine.ParseAssignmentMode(string(out.AssignmentMode)); !ok {
		out.AssignmentMode = def.AssignmentMode
	}
	if _, ok := constraints.ParseGroupKind(string(out.Selection)); !ok {
		out.Selection = def.Selection
	}
	if _, ok := constraints.ParseGroupKind(string(out.DeathmatchSelection)); !ok {
		out.DeathmatchSelection = def.DeathmatchSelection
	}
	out.Exclusions = out.Exclusions.Normalize(cat)
	out.Deathmatch = out.Deathmatch.Normalize(cat)

	groups := constraints.Groups{}
	for _, g := range out.Groups {
		if g.Validate(cat) == nil {
			groups = append(groups, g)
		}
	}
	out.Groups = groups
	out.Pinned = keepParticipants(out.Pinned, out.Participants)
	if out.History == nil {
		out.History = def.History
	}
	return out
}

func keepParticipants(t engine.Teams, participants []string) engine.Teams {
	known := map[string]bool{}
	for _, p := range participants {
		known[p] = true
	}
	keep := func(side []string) []string {
		out := []string{}
		for _, p := range side {
			if known[p] {
				out = append(out, p)
			}
		}
		return out
	}
	return engine.Teams{Team1: keep(t.Team1), Team2: keep(t.Team2)}
}
