package constraints

import (
	"github.com/elliotchance/pie/v2"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
)

// RolePool lists the roles that are not excluded, in catalog order.
func (s Set) RolePool(cat *catalog.Catalog) []string {
	return pie.Filter(cat.RoleNames(), func(r string) bool { return !s.Roles.Has(r) })
}

// RoleCharacters maps every non-excluded role to its non-excluded characters.
// A role may map to an empty slice when all its characters were excluded
// individually before the parent flag was re-derived.
func (s Set) RoleCharacters(cat *catalog.Catalog) map[string][]string {
	out := map[string][]string{}
	for _, role := range s.RolePool(cat) {
		out[role] = pie.Filter(cat.CharactersOf(role), func(c string) bool { return !s.Characters.Has(c) })
	}
	return out
}

// CharacterPool flattens RoleCharacters in catalog order.
func (s Set) CharacterPool(cat *catalog.Catalog) []string {
	byRole := s.RoleCharacters(cat)
	var out []string
	for _, role := range s.RolePool(cat) {
		out = append(out, byRole[role]...)
	}
	return out
}

func (s Set) PrimaryPool(cat *catalog.Catalog) []string {
	var out []string
	for _, category := range cat.PrimaryCategories() {
		out = append(out, s.weaponsIn(cat, category)...)
	}
	return out
}

func (s Set) SidearmPool(cat *catalog.Catalog) []string {
	return s.weaponsIn(cat, cat.SidearmCategory())
}

// WeaponPool lists every non-excluded weapon across all categories.
func (s Set) WeaponPool(cat *catalog.Catalog) []string {
	var out []string
	for _, c := range cat.Categories() {
		out = append(out, s.weaponsIn(cat, c.Name)...)
	}
	return out
}

func (s Set) MapPool(cat *catalog.Catalog) []string {
	return pie.Filter(cat.Maps(), func(m string) bool { return !s.Maps.Has(m) })
}

func (s Set) weaponsIn(cat *catalog.Catalog, category string) []string {
	if s.Categories.Has(category) {
		return nil
	}
	return pie.Filter(cat.WeaponsOf(category), func(w string) bool { return !s.Weapons.Has(w) })
}
