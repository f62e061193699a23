package engine

import (
	"fmt"

	"github.com/elliotchance/pie/v2"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/constraints"
	"github.com/DoyleJ11/squad-randomizer/internal/sample"
)

// Assign gives every team member a role or character according to mode.
// Uniqueness is per team; the two teams may share values.
func Assign(teams Teams, mode AssignmentMode, ex constraints.Set, cat *catalog.Catalog, src sample.Source) (map[string]string, Stats, error) {
	out := map[string]string{}
	var stats Stats

	switch mode {
	case AssignRole:
		pool := ex.RolePool(cat)
		if len(pool) == 0 {
			return nil, stats, fmt.Errorf("%w: every role is excluded", ErrNoEligibleOptions)
		}
		assignUniqueFrom(out, pool, teams.Team1, roleRetries, src, &stats)
		assignUniqueFrom(out, pool, teams.Team2, roleRetries, src, &stats)

	case AssignAgent:
		pool := ex.CharacterPool(cat)
		if len(pool) == 0 {
			return nil, stats, fmt.Errorf("%w: every character is excluded", ErrNoEligibleOptions)
		}
		assignUniqueFrom(out, pool, teams.Team1, characterRetries, src, &stats)
		assignUniqueFrom(out, pool, teams.Team2, characterRetries, src, &stats)

	case AssignReplication:
		pool := ex.CharacterPool(cat)
		if len(pool) == 0 {
			return nil, stats, fmt.Errorf("%w: every character is excluded", ErrNoEligibleOptions)
		}
		for _, team := range [][]string{teams.Team1, teams.Team2} {
			if len(team) == 0 {
				continue
			}
			c, _ := sample.Pick(src, pool)
			for _, p := range team {
				out[p] = c
			}
		}

	case AssignLegacy:
		byRole := ex.RoleCharacters(cat)
		if len(ex.CharacterPool(cat)) == 0 {
			return nil, stats, fmt.Errorf("%w: every character is excluded", ErrNoEligibleOptions)
		}
		assignByRole(out, ex.RolePool(cat), byRole, ex.CharacterPool(cat), teams.Team1, src, &stats)
		assignByRole(out, ex.RolePool(cat), byRole, ex.CharacterPool(cat), teams.Team2, src, &stats)

	default:
		return nil, stats, fmt.Errorf("%w: assignment mode %q", ErrUnknownMode, mode)
	}
	return out, stats, nil
}

// assignUniqueFrom draws, for each member in order, a value this team has not
// used yet. After retries failed attempts it falls back to the full pool and
// accepts a duplicate. pool must not be empty.
func assignUniqueFrom(out map[string]string, pool, members []string, retries int, src sample.Source, stats *Stats) {
	used := map[string]bool{}
	for _, p := range members {
		assigned := false
		for attempt := 0; attempt < retries && !assigned; attempt++ {
			v, ok := sample.Pick(src, pie.Filter(pool, func(x string) bool { return !used[x] }))
			if ok {
				out[p] = v
				used[v] = true
				assigned = true
			}
		}
		if !assigned {
			out[p], _ = sample.Pick(src, pool)
			stats.Fallbacks++
		}
	}
}

// assignByRole re-draws a role for every attempt, then an unused character of
// that role. On exhaustion it takes any unused character, and only then any
// character at all.
func assignByRole(out map[string]string, roles []string, byRole map[string][]string, all, members []string, src sample.Source, stats *Stats) {
	used := map[string]bool{}
	unused := func(x string) bool { return !used[x] }

	for _, p := range members {
		assigned := false
		for attempt := 0; attempt < characterRetries && !assigned; attempt++ {
			role, ok := sample.Pick(src, roles)
			if !ok {
				break
			}
			if c, ok := sample.Pick(src, pie.Filter(byRole[role], unused)); ok {
				out[p] = c
				used[c] = true
				assigned = true
			}
		}
		if assigned {
			continue
		}
		if c, ok := sample.Pick(src, pie.Filter(all, unused)); ok {
			out[p] = c
			used[c] = true
			continue
		}
		out[p], _ = sample.Pick(src, all)
		stats.Fallbacks++
	}
}
