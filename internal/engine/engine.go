// Package engine turns a participant list and a constraint snapshot into one
// randomized assignment of teams, roles or characters, weapons and a map.
//
// Every function here is a pure function of its arguments and the supplied
// sample.Source; no state survives between calls.
package engine

import (
	"errors"
)

var ErrNotEnoughParticipants = errors.New("need at least 2 participants to randomize")
var ErrNoEligibleOptions = errors.New("no eligible options")
var ErrUnknownMode = errors.New("unknown mode")

const MinParticipants = 2

// Retry budgets shape how often small pools produce duplicates; keep them fixed.
const (
	characterRetries = 50
	roleRetries      = 20
)

type TeamMode string

const (
	TeamRandom TeamMode = "random"
	TeamManual TeamMode = "manual"
)

func ParseTeamMode(s string) (TeamMode, bool) {
	switch TeamMode(s) {
	case TeamRandom, TeamManual:
		return TeamMode(s), true
	default:
		return "", false
	}
}

type AssignmentMode string

const (
	AssignRole        AssignmentMode = "role"
	AssignAgent       AssignmentMode = "agent"
	AssignReplication AssignmentMode = "replication"
	// AssignLegacy draws a role first, then an unused character of that role.
	AssignLegacy AssignmentMode = "legacy"
)

func ParseAssignmentMode(s string) (AssignmentMode, bool) {
	switch AssignmentMode(s) {
	case AssignRole, AssignAgent, AssignReplication, AssignLegacy:
		return AssignmentMode(s), true
	default:
		return "", false
	}
}

// ValidAssignmentMode is shaped for constraints.Import.
func ValidAssignmentMode(s string) bool {
	_, ok := ParseAssignmentMode(s)
	return ok
}

// Teams is a two-way partition. A participant appears in at most one side.
type Teams struct {
	Team1 []string `json:"team1"`
	Team2 []string `json:"team2"`
}

func (t Teams) Clone() Teams {
	return Teams{
		Team1: append([]string{}, t.Team1...),
		Team2: append([]string{}, t.Team2...),
	}
}

// Contains reports which side holds p: 1, 2, or 0 when unassigned.
func (t Teams) Contains(p string) int {
	for _, m := range t.Team1 {
		if m == p {
			return 1
		}
	}
	for _, m := range t.Team2 {
		if m == p {
			return 2
		}
	}
	return 0
}

// Stats counts draws that fell back to a duplicate after the retry budget ran out.
type Stats struct {
	Fallbacks int `json:"fallbacks"`
}
