package constraints

import (
	"errors"
	"fmt"

	"github.com/elliotchance/pie/v2"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
)

var ErrUnknownKey = errors.New("unknown catalog key")

// Set holds every active exclusion. Mutators return a new Set and never touch
// the receiver, so a Set handed to the engine is a stable snapshot.
//
// Parent flags (roles, categories) are kept consistent with their children:
// a parent is excluded exactly when all of its children are.
type Set struct {
	Roles      KeySet `json:"roles"`
	Characters KeySet `json:"characters"`
	Categories KeySet `json:"categories"`
	Weapons    KeySet `json:"weapons"`
	Maps       KeySet `json:"maps"`
}

func NewSet() Set {
	return Set{
		Roles:      KeySet{},
		Characters: KeySet{},
		Categories: KeySet{},
		Weapons:    KeySet{},
		Maps:       KeySet{},
	}
}

func (s Set) Clone() Set {
	return Set{
		Roles:      s.Roles.Clone(),
		Characters: s.Characters.Clone(),
		Categories: s.Categories.Clone(),
		Weapons:    s.Weapons.Clone(),
		Maps:       s.Maps.Clone(),
	}
}

// ToggleRole excludes or restores a role together with all of its characters.
func (s Set) ToggleRole(cat *catalog.Catalog, role string) (Set, error) {
	chars := cat.CharactersOf(role)
	if chars == nil {
		return s, fmt.Errorf("%w: role %q", ErrUnknownKey, role)
	}
	out := s.Clone()
	if out.Roles.Has(role) {
		out.Roles.remove(role)
		out.Characters.remove(chars...)
	} else {
		out.Roles.add(role)
		out.Characters.add(chars...)
	}
	return out, nil
}

// ToggleCharacter flips one character and re-derives its role's flag.
func (s Set) ToggleCharacter(cat *catalog.Catalog, character string) (Set, error) {
	role, ok := cat.RoleOf(character)
	if !ok {
		return s, fmt.Errorf("%w: character %q", ErrUnknownKey, character)
	}
	out := s.Clone()
	if out.Characters.Has(character) {
		out.Characters.remove(character)
	} else {
		out.Characters.add(character)
	}
	syncParent(out.Roles, role, cat.CharactersOf(role), out.Characters)
	return out, nil
}

// ToggleCategory excludes or restores a weapon category with all its weapons.
func (s Set) ToggleCategory(cat *catalog.Catalog, category string) (Set, error) {
	weapons := cat.WeaponsOf(category)
	if weapons == nil {
		return s, fmt.Errorf("%w: category %q", ErrUnknownKey, category)
	}
	out := s.Clone()
	if out.Categories.Has(category) {
		out.Categories.remove(category)
		out.Weapons.remove(weapons...)
	} else {
		out.Categories.add(category)
		out.Weapons.add(weapons...)
	}
	return out, nil
}

// ToggleAllWeaponsInCategory is the weapon-granularity bulk toggle: if every
// weapon of the category is excluded they are all restored, else all excluded.
func (s Set) ToggleAllWeaponsInCategory(cat *catalog.Catalog, category string) (Set, error) {
	weapons := cat.WeaponsOf(category)
	if weapons == nil {
		return s, fmt.Errorf("%w: category %q", ErrUnknownKey, category)
	}
	out := s.Clone()
	if out.Weapons.hasAll(weapons) {
		out.Weapons.remove(weapons...)
		out.Categories.remove(category)
	} else {
		out.Weapons.add(weapons...)
		out.Categories.add(category)
	}
	return out, nil
}

// ToggleWeapon flips one weapon and re-derives its category's flag.
func (s Set) ToggleWeapon(cat *catalog.Catalog, weapon string) (Set, error) {
	category, ok := cat.CategoryOf(weapon)
	if !ok {
		return s, fmt.Errorf("%w: weapon %q", ErrUnknownKey, weapon)
	}
	out := s.Clone()
	if out.Weapons.Has(weapon) {
		out.Weapons.remove(weapon)
	} else {
		out.Weapons.add(weapon)
	}
	syncParent(out.Categories, category, cat.WeaponsOf(category), out.Weapons)
	return out, nil
}

func (s Set) ToggleMap(cat *catalog.Catalog, name string) (Set, error) {
	if !cat.HasMap(name) {
		return s, fmt.Errorf("%w: map %q", ErrUnknownKey, name)
	}
	out := s.Clone()
	if out.Maps.Has(name) {
		out.Maps.remove(name)
	} else {
		out.Maps.add(name)
	}
	return out, nil
}

func syncParent(parents KeySet, parent string, children []string, excluded KeySet) {
	if excluded.hasAll(children) {
		parents.add(parent)
	} else {
		parents.remove(parent)
	}
}

// Normalize drops keys the catalog does not know, cascades excluded parents to
// their children and re-derives every parent flag from its children.
func (s Set) Normalize(cat *catalog.Catalog) Set {
	out := NewSet()
	for _, r := range cat.Roles() {
		if s.Roles.Has(r.Name) {
			out.Characters.add(r.Characters...)
		}
		out.Characters.add(pie.Filter(r.Characters, s.Characters.Has)...)
		syncParent(out.Roles, r.Name, r.Characters, out.Characters)
	}
	for _, c := range cat.Categories() {
		if s.Categories.Has(c.Name) {
			out.Weapons.add(c.Weapons...)
		}
		out.Weapons.add(pie.Filter(c.Weapons, s.Weapons.Has)...)
		syncParent(out.Categories, c.Name, c.Weapons, out.Weapons)
	}
	out.Maps.add(pie.Filter(cat.Maps(), s.Maps.Has)...)
	return out
}
