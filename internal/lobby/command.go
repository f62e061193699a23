package lobby

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/constraints"
	"github.com/DoyleJ11/squad-randomizer/internal/engine"
	"github.com/DoyleJ11/squad-randomizer/internal/sample"
)

var (
	ErrInvalidParticipant   = errors.New("participant name must be 1 to 20 characters")
	ErrDuplicateParticipant = errors.New("participant already added")
	ErrTooManyParticipants  = errors.New("participant limit reached")
	ErrUnknownParticipant   = errors.New("unknown participant")
	ErrUnknownCommand       = errors.New("unknown command")
	ErrInvalidCommand       = errors.New("invalid command")
)

type CommandType string

const (
	CmdAddParticipant    CommandType = "AddParticipant"
	CmdRemoveParticipant CommandType = "RemoveParticipant"
	CmdPinParticipant    CommandType = "PinParticipant"
	CmdUnpinParticipant  CommandType = "UnpinParticipant"
	CmdSetTeamMode       CommandType = "SetTeamMode"

	CmdToggleRole            CommandType = "ToggleRole"
	CmdToggleCharacter       CommandType = "ToggleCharacter"
	CmdToggleCategory        CommandType = "ToggleCategory"
	CmdToggleWeapon          CommandType = "ToggleWeapon"
	CmdToggleCategoryWeapons CommandType = "ToggleCategoryWeapons"
	CmdToggleMap             CommandType = "ToggleMap"

	CmdAddGroup          CommandType = "AddGroup"
	CmdRemoveGroup       CommandType = "RemoveGroup"
	CmdRenameGroup       CommandType = "RenameGroup"
	CmdSetGroupsInUse    CommandType = "SetGroupsInUse"
	CmdSetSelectionMode  CommandType = "SetSelectionMode"
	CmdSetAssignmentMode CommandType = "SetAssignmentMode"

	CmdPinMap   CommandType = "PinMap"
	CmdClearMap CommandType = "ClearMap"

	CmdToggleDeathmatchWeapon          CommandType = "ToggleDeathmatchWeapon"
	CmdToggleDeathmatchCategory        CommandType = "ToggleDeathmatchCategory"
	CmdToggleDeathmatchCategoryWeapons CommandType = "ToggleDeathmatchCategoryWeapons"
	CmdSetDeathmatchSelection          CommandType = "SetDeathmatchSelection"

	CmdImportSettings  CommandType = "ImportSettings"
	CmdRandomize       CommandType = "Randomize"
	CmdRandomizeWeapon CommandType = "RandomizeWeapon"
)

// Command is a requested mutation. Which fields matter depends on Type.
type Command struct {
	Type      CommandType     `json:"type"`
	Name      string          `json:"name,omitempty"`
	Team      int             `json:"team,omitempty"`
	Key       string          `json:"key,omitempty"`
	GroupID   string          `json:"groupId,omitempty"`
	Kind      string          `json:"kind,omitempty"`
	Primary   string          `json:"primary,omitempty"`
	Secondary string          `json:"secondary,omitempty"`
	On        bool            `json:"on,omitempty"`
	Mode      string          `json:"mode,omitempty"`
	Document  json.RawMessage `json:"document,omitempty"`
}

// Env is what Apply needs beyond the state itself.
type Env struct {
	Catalog      *catalog.Catalog
	Source       sample.Source
	HistoryLimit int
	Now          func() time.Time
	NewID        func() string
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now()
}

func (e Env) newID() string {
	if e.NewID == nil {
		return uuid.NewString()
	}
	return e.NewID()
}

// Apply returns the state after cmd. s is never modified; on error the
// returned state is s unchanged.
func Apply(s State, cmd Command, env Env) (State, error) {
	cat := env.Catalog
	next := s.Clone()
	var err error

	switch cmd.Type {
	case CmdAddParticipant:
		err = next.addParticipant(cmd.Name)
	case CmdRemoveParticipant:
		err = next.removeParticipant(cmd.Name)
	case CmdPinParticipant:
		err = next.pin(cmd.Name, cmd.Team)
	case CmdUnpinParticipant:
		if !pie.Contains(next.Participants, cmd.Name) {
			err = fmt.Errorf("%w: %q", ErrUnknownParticipant, cmd.Name)
			break
		}
		next.Pinned = unpin(next.Pinned, cmd.Name)
	case CmdSetTeamMode:
		mode, ok := engine.ParseTeamMode(cmd.Mode)
		if !ok {
			err = fmt.Errorf("%w: team mode %q", engine.ErrUnknownMode, cmd.Mode)
			break
		}
		next.TeamMode = mode

	case CmdToggleRole:
		next.Exclusions, err = next.Exclusions.ToggleRole(cat, cmd.Key)
	case CmdToggleCharacter:
		next.Exclusions, err = next.Exclusions.ToggleCharacter(cat, cmd.Key)
	case CmdToggleCategory:
		next.Exclusions, err = next.Exclusions.ToggleCategory(cat, cmd.Key)
	case CmdToggleWeapon:
		next.Exclusions, err = next.Exclusions.ToggleWeapon(cat, cmd.Key)
	case CmdToggleCategoryWeapons:
		next.Exclusions, err = next.Exclusions.ToggleAllWeaponsInCategory(cat, cmd.Key)
	case CmdToggleMap:
		next.Exclusions, err = next.Exclusions.ToggleMap(cat, cmd.Key)

	case CmdAddGroup:
		kind, ok := constraints.ParseGroupKind(cmd.Kind)
		if !ok {
			err = fmt.Errorf("%w: group kind %q", constraints.ErrInvalidGroup, cmd.Kind)
			break
		}
		var g constraints.Group
		if g, err = constraints.NewGroup(cat, kind, cmd.Name, cmd.Primary, cmd.Secondary); err == nil {
			next.Groups = next.Groups.Add(g)
		}
	case CmdRemoveGroup:
		next.Groups, err = next.Groups.Remove(cmd.GroupID)
	case CmdRenameGroup:
		err = next.renameGroup(cat, cmd)
	case CmdSetGroupsInUse:
		kind, ok := constraints.ParseGroupKind(cmd.Kind)
		if !ok {
			err = fmt.Errorf("%w: group kind %q", constraints.ErrInvalidGroup, cmd.Kind)
			break
		}
		next.Toggles = next.Toggles.With(kind, cmd.On)
	case CmdSetSelectionMode:
		kind, ok := constraints.ParseGroupKind(cmd.Mode)
		if !ok {
			err = fmt.Errorf("%w: weapon selection %q", engine.ErrUnknownMode, cmd.Mode)
			break
		}
		next.Selection = kind
	case CmdSetAssignmentMode:
		mode, ok := engine.ParseAssignmentMode(cmd.Mode)
		if !ok {
			err = fmt.Errorf("%w: assignment mode %q", engine.ErrUnknownMode, cmd.Mode)
			break
		}
		next.AssignmentMode = mode

	case CmdPinMap:
		if !cat.HasMap(cmd.Name) {
			err = fmt.Errorf("%w: map %q", constraints.ErrUnknownKey, cmd.Name)
			break
		}
		next.Map = engine.MapPin{Name: cmd.Name, Active: true}
	case CmdClearMap:
		next.Map = engine.MapPin{}

	case CmdToggleDeathmatchWeapon:
		next.Deathmatch, err = next.Deathmatch.ToggleWeapon(cat, cmd.Key)
	case CmdToggleDeathmatchCategory:
		next.Deathmatch, err = next.Deathmatch.ToggleCategory(cat, cmd.Key)
	case CmdToggleDeathmatchCategoryWeapons:
		next.Deathmatch, err = next.Deathmatch.ToggleAllWeaponsInCategory(cat, cmd.Key)
	case CmdSetDeathmatchSelection:
		kind, ok := constraints.ParseGroupKind(cmd.Mode)
		if !ok {
			err = fmt.Errorf("%w: deathmatch selection %q", engine.ErrUnknownMode, cmd.Mode)
			break
		}
		next.DeathmatchSelection = kind

	case CmdImportSettings:
		var imported constraints.Settings
		imported, err = constraints.Import(cmd.Document, cat, next.Settings(), engine.ValidAssignmentMode)
		if err == nil {
			next.Exclusions = imported.Exclusions
			next.Groups = imported.Groups
			next.Toggles = imported.Toggles
			next.AssignmentMode = engine.AssignmentMode(imported.AssignmentMode)
		}

	case CmdRandomize:
		var rec engine.Record
		if rec, err = engine.RandomizeAll(next.Request(), cat, env.Source); err == nil {
			next.Result = &rec
			next.History = appendHistory(next.History, HistoryEntry{
				ID:     env.newID(),
				At:     env.now(),
				Record: rec.Copy(),
			}, env.HistoryLimit)
		}
	case CmdRandomizeWeapon:
		next.DeathmatchWeapon, err = engine.RandomWeapon(next.DeathmatchConfig(), next.Deathmatch, cat, env.Source)

	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}

	if err != nil {
		return s, err
	}
	return next, nil
}

func (s *State) addParticipant(raw string) error {
	name := strings.TrimSpace(raw)
	if name == "" || utf8.RuneCountInString(name) > MaxParticipantLen {
		return fmt.Errorf("%w: %q", ErrInvalidParticipant, raw)
	}
	if pie.Contains(s.Participants, name) {
		return fmt.Errorf("%w: %q", ErrDuplicateParticipant, name)
	}
	if len(s.Participants) >= MaxParticipants {
		return fmt.Errorf("%w: %d", ErrTooManyParticipants, MaxParticipants)
	}
	s.Participants = append(s.Participants, name)
	return nil
}

// removeParticipant also drops the name from pinned teams and the last result.
func (s *State) removeParticipant(name string) error {
	if !pie.Contains(s.Participants, name) {
		return fmt.Errorf("%w: %q", ErrUnknownParticipant, name)
	}
	s.Participants = pie.Filter(s.Participants, func(p string) bool { return p != name })
	s.Pinned = unpin(s.Pinned, name)
	if s.Result != nil {
		s.Result.Teams = unpin(s.Result.Teams, name)
		delete(s.Result.Roles, name)
		delete(s.Result.Weapons, name)
	}
	return nil
}

func (s *State) pin(name string, team int) error {
	if !pie.Contains(s.Participants, name) {
		return fmt.Errorf("%w: %q", ErrUnknownParticipant, name)
	}
	pinned := unpin(s.Pinned, name)
	switch team {
	case 1:
		pinned.Team1 = append(pinned.Team1, name)
	case 2:
		pinned.Team2 = append(pinned.Team2, name)
	default:
		return fmt.Errorf("%w: team must be 1 or 2, got %d", ErrInvalidCommand, team)
	}
	s.Pinned = pinned
	return nil
}

// renameGroup updates name and, when given, the pair of an existing group.
func (s *State) renameGroup(cat *catalog.Catalog, cmd Command) error {
	for _, g := range s.Groups {
		if g.ID != cmd.GroupID {
			continue
		}
		primary, secondary := g.Primary, g.Secondary
		if cmd.Primary != "" {
			primary = cmd.Primary
		}
		if cmd.Secondary != "" {
			secondary = cmd.Secondary
		}
		groups, err := s.Groups.Update(cat, g.ID, cmd.Name, primary, secondary)
		if err != nil {
			return err
		}
		s.Groups = groups
		return nil
	}
	return fmt.Errorf("%w: %s", constraints.ErrGroupNotFound, cmd.GroupID)
}

func unpin(t engine.Teams, name string) engine.Teams {
	keep := func(p string) bool { return p != name }
	return engine.Teams{
		Team1: pie.Filter(t.Team1, keep),
		Team2: pie.Filter(t.Team2, keep),
	}
}

// appendHistory keeps the newest limit entries, oldest first.
func appendHistory(h []HistoryEntry, e HistoryEntry, limit int) []HistoryEntry {
	h = append(h, e)
	if limit > 0 && len(h) > limit {
		h = append([]HistoryEntry{}, h[len(h)-limit:]...)
	}
	return h
}

// Reason turns a command error into a short metric label.
func Reason(err error) string {
	switch {
	case errors.Is(err, engine.ErrNotEnoughParticipants):
		return "not_enough_participants"
	case errors.Is(err, engine.ErrNoEligibleOptions):
		return "no_eligible_options"
	case errors.Is(err, engine.ErrUnknownMode):
		return "unknown_mode"
	case errors.Is(err, constraints.ErrMalformedSettings):
		return "malformed_settings"
	case errors.Is(err, constraints.ErrUnknownKey):
		return "unknown_key"
	case errors.Is(err, constraints.ErrInvalidGroup), errors.Is(err, constraints.ErrGroupNotFound):
		return "invalid_group"
	case errors.Is(err, ErrInvalidParticipant), errors.Is(err, ErrDuplicateParticipant),
		errors.Is(err, ErrTooManyParticipants), errors.Is(err, ErrUnknownParticipant):
		return "participant"
	case errors.Is(err, ErrUnknownCommand), errors.Is(err, ErrInvalidCommand):
		return "invalid_command"
	default:
		return "other"
	}
}
