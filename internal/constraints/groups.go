package constraints

import (
	"errors"
	"fmt"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
)

var ErrInvalidGroup = errors.New("invalid pairing group")
var ErrGroupNotFound = errors.New("pairing group not found")

// GroupKind is the granularity a pairing group applies to.
type GroupKind string

const (
	KindCategory GroupKind = "category"
	KindWeapon   GroupKind = "weapon"
)

func ParseGroupKind(s string) (GroupKind, bool) {
	switch GroupKind(s) {
	case KindCategory, KindWeapon:
		return GroupKind(s), true
	default:
		return "", false
	}
}

// Group is a named, fixed (primary, secondary) pair.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Primary   string    `json:"primary"`
	Secondary string    `json:"secondary"`
	Kind      GroupKind `json:"type"`
}

// NewGroup validates the pair against the catalog and assigns an id.
func NewGroup(cat *catalog.Catalog, kind GroupKind, name, primary, secondary string) (Group, error) {
	g := Group{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Primary:   primary,
		Secondary: secondary,
		Kind:      kind,
	}
	if err := g.Validate(cat); err != nil {
		return Group{}, err
	}
	return g, nil
}

func (g Group) Validate(cat *catalog.Catalog) error {
	if g.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidGroup)
	}
	switch g.Kind {
	case KindCategory:
		if !pie.Contains(cat.PrimaryCategories(), g.Primary) {
			return fmt.Errorf("%w: %q is not a primary category", ErrInvalidGroup, g.Primary)
		}
		// Saved files pair a primary category with a concrete sidearm.
		if !cat.IsSidearmCategory(g.Secondary) && !pie.Contains(cat.Sidearms(), g.Secondary) {
			return fmt.Errorf("%w: %q is not a sidearm or sidearm category", ErrInvalidGroup, g.Secondary)
		}
	case KindWeapon:
		if !pie.Contains(cat.PrimaryWeapons(), g.Primary) {
			return fmt.Errorf("%w: %q is not a primary weapon", ErrInvalidGroup, g.Primary)
		}
		if !pie.Contains(cat.Sidearms(), g.Secondary) {
			return fmt.Errorf("%w: %q is not a sidearm", ErrInvalidGroup, g.Secondary)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidGroup, g.Kind)
	}
	return nil
}

// Groups is an ordered list of pairing groups.
type Groups []Group

func (gs Groups) ForKind(kind GroupKind) Groups {
	return pie.Filter(gs, func(g Group) bool { return g.Kind == kind })
}

func (gs Groups) Add(g Group) Groups {
	return append(append(Groups(nil), gs...), g)
}

func (gs Groups) Remove(id string) (Groups, error) {
	if !gs.has(id) {
		return gs, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	return pie.Filter(gs, func(g Group) bool { return g.ID != id }), nil
}

// Update replaces the name and pair of an existing group, keeping id and kind.
func (gs Groups) Update(cat *catalog.Catalog, id, name, primary, secondary string) (Groups, error) {
	out := append(Groups(nil), gs...)
	for i, g := range out {
		if g.ID != id {
			continue
		}
		g.Name = strings.TrimSpace(name)
		g.Primary = primary
		g.Secondary = secondary
		if err := g.Validate(cat); err != nil {
			return gs, err
		}
		out[i] = g
		return out, nil
	}
	return gs, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
}

func (gs Groups) has(id string) bool {
	return pie.Any(gs, func(g Group) bool { return g.ID == id })
}

// Toggles records, per granularity, whether pairing groups drive weapon draws.
type Toggles struct {
	UseCategoryGroups bool `json:"useCategoryGroups"`
	UseWeaponGroups   bool `json:"useWeaponGroups"`
}

func DefaultToggles() Toggles {
	return Toggles{UseCategoryGroups: true, UseWeaponGroups: true}
}

func (t Toggles) InUse(kind GroupKind) bool {
	if kind == KindCategory {
		return t.UseCategoryGroups
	}
	return t.UseWeaponGroups
}

func (t Toggles) With(kind GroupKind, on bool) Toggles {
	if kind == KindCategory {
		t.UseCategoryGroups = on
	} else {
		t.UseWeaponGroups = on
	}
	return t
}
