package engine

import (
	"fmt"

	"github.com/elliotchance/pie/v2"

	"github.com/DoyleJ11/squad-randomizer/internal/sample"
)

// Partition splits participants into two teams.
//
// Random mode shuffles everyone and puts the first ceil(n/2) on team1.
// Manual mode keeps the pinned members and hands out the rest one by one to
// the shorter side; equal sides are settled by a coin flip.
func Partition(participants []string, mode TeamMode, pinned Teams, src sample.Source) (Teams, error) {
	switch mode {
	case TeamRandom:
		shuffled := sample.Shuffle(src, participants)
		mid := (len(shuffled) + 1) / 2
		return Teams{
			Team1: append([]string{}, shuffled[:mid]...),
			Team2: append([]string{}, shuffled[mid:]...),
		}, nil

	case TeamManual:
		teams := pinnedWithin(participants, pinned)
		unassigned := pie.Filter(participants, func(p string) bool { return teams.Contains(p) == 0 })
		for _, p := range sample.Shuffle(src, unassigned) {
			switch {
			case len(teams.Team1) < len(teams.Team2):
				teams.Team1 = append(teams.Team1, p)
			case len(teams.Team2) < len(teams.Team1):
				teams.Team2 = append(teams.Team2, p)
			case sample.Index(src, 2) == 0:
				teams.Team1 = append(teams.Team1, p)
			default:
				teams.Team2 = append(teams.Team2, p)
			}
		}
		return teams, nil

	default:
		return Teams{}, fmt.Errorf("%w: team mode %q", ErrUnknownMode, mode)
	}
}

// pinnedWithin drops pins for unknown participants and keeps each participant
// on the first side it was pinned to.
func pinnedWithin(participants []string, pinned Teams) Teams {
	known := make(map[string]bool, len(participants))
	for _, p := range participants {
		known[p] = true
	}
	seen := map[string]bool{}
	keep := func(side []string) []string {
		out := []string{}
		for _, p := range side {
			if known[p] && !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
		return out
	}
	t1 := keep(pinned.Team1)
	t2 := keep(pinned.Team2)
	return Teams{Team1: t1, Team2: t2}
}
