package engine

import (
	"fmt"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/constraints"
	"github.com/DoyleJ11/squad-randomizer/internal/sample"
)

// Request carries everything one randomization needs. The lobby builds it
// from its canonical state; nothing here reads shared state.
type Request struct {
	Participants   []string
	TeamMode       TeamMode
	Pinned         Teams
	AssignmentMode AssignmentMode
	Exclusions     constraints.Set
	Weapons        WeaponConfig
	Map            MapPin
}

// RandomizeAll partitions the participants, assigns roles or characters per
// team, hands out loadouts over the whole participant list, picks a map and
// builds the record.
func RandomizeAll(req Request, cat *catalog.Catalog, src sample.Source) (Record, error) {
	if len(req.Participants) < MinParticipants {
		return Record{}, fmt.Errorf("%w: have %d", ErrNotEnoughParticipants, len(req.Participants))
	}
	if _, ok := ParseAssignmentMode(string(req.AssignmentMode)); !ok {
		return Record{}, fmt.Errorf("%w: assignment mode %q", ErrUnknownMode, req.AssignmentMode)
	}
	if _, ok := constraints.ParseGroupKind(string(req.Weapons.Selection)); !ok {
		return Record{}, fmt.Errorf("%w: weapon selection %q", ErrUnknownMode, req.Weapons.Selection)
	}

	teams, err := Partition(req.Participants, req.TeamMode, req.Pinned, src)
	if err != nil {
		return Record{}, err
	}
	roles, stats, err := Assign(teams, req.AssignmentMode, req.Exclusions, cat, src)
	if err != nil {
		return Record{}, fmt.Errorf("assign: %w", err)
	}
	weapons, err := AssignWeapons(req.Participants, req.Weapons, req.Exclusions, cat, src)
	if err != nil {
		return Record{}, fmt.Errorf("weapons: %w", err)
	}
	mapName, err := SelectMap(req.Exclusions, cat, req.Map, src)
	if err != nil {
		return Record{}, fmt.Errorf("map: %w", err)
	}

	rec := Build(teams, weapons, roles, mapName, Settings{
		WeaponSelectionMode: req.Weapons.Selection,
		WeaponGroupsUsed:    req.Weapons.ActiveGroups() != nil,
		AssignmentMode:      req.AssignmentMode,
		TeamMode:            req.TeamMode,
	})
	rec.Fallbacks = stats.Fallbacks
	return rec, nil
}
