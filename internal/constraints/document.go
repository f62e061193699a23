package constraints

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/pkg/types"
)

var ErrMalformedSettings = errors.New("malformed settings document")

const defaultAssignmentMode = "role"

// Settings is everything a settings document carries.
type Settings struct {
	Exclusions     Set
	Groups         Groups
	Toggles        Toggles
	AssignmentMode string
}

// Export renders settings as the import/export document.
func Export(s Settings) types.SettingsDocument {
	useCat, useWeapon := s.Toggles.UseCategoryGroups, s.Toggles.UseWeaponGroups
	groups := make([]types.WeaponGroup, 0, len(s.Groups))
	for _, g := range s.Groups {
		groups = append(groups, types.WeaponGroup{
			ID:        g.ID,
			Name:      g.Name,
			Primary:   g.Primary,
			Secondary: g.Secondary,
			Type:      string(g.Kind),
		})
	}
	mode := s.AssignmentMode
	if mode == "" {
		mode = defaultAssignmentMode
	}
	return types.SettingsDocument{
		Weapons: &types.WeaponSettings{
			BlacklistedWeapons:    s.Exclusions.Weapons.Sorted(),
			BlacklistedCategories: s.Exclusions.Categories.Sorted(),
			WeaponGroups:          groups,
			UseCategoryGroups:     &useCat,
			UseWeaponGroups:       &useWeapon,
		},
		Roles: &types.RoleSettings{
			BlacklistedRoles:  s.Exclusions.Roles.Sorted(),
			BlacklistedAgents: s.Exclusions.Characters.Sorted(),
			AssignmentMode:    mode,
		},
		Maps: &types.MapSettings{
			BlacklistedMaps: s.Exclusions.Maps.Sorted(),
		},
	}
}

// Import parses a document on top of base. Sections absent from the document
// keep base's values. Nothing is returned unless the whole document is valid.
func Import(data []byte, cat *catalog.Catalog, base Settings, validMode func(string) bool) (Settings, error) {
	var doc types.SettingsDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return base, fmt.Errorf("%w: %v", ErrMalformedSettings, err)
	}
	out := Settings{
		Exclusions:     base.Exclusions.Clone(),
		Groups:         append(Groups(nil), base.Groups...),
		Toggles:        base.Toggles,
		AssignmentMode: base.AssignmentMode,
	}
	var errs error

	if w := doc.Weapons; w != nil {
		errs = multierr.Append(errs, checkKeys("weapon", w.BlacklistedWeapons, func(k string) bool {
			_, ok := cat.CategoryOf(k)
			return ok
		}))
		errs = multierr.Append(errs, checkKeys("category", w.BlacklistedCategories, func(k string) bool {
			return cat.WeaponsOf(k) != nil
		}))
		out.Exclusions.Weapons = NewKeySet(w.BlacklistedWeapons...)
		out.Exclusions.Categories = NewKeySet(w.BlacklistedCategories...)

		out.Groups = make(Groups, 0, len(w.WeaponGroups))
		for _, wg := range w.WeaponGroups {
			kind, ok := ParseGroupKind(wg.Type)
			if !ok {
				errs = multierr.Append(errs, fmt.Errorf("group %q: unknown type %q", wg.Name, wg.Type))
				continue
			}
			g := Group{ID: wg.ID, Name: wg.Name, Primary: wg.Primary, Secondary: wg.Secondary, Kind: kind}
			if g.ID == "" {
				g.ID = uuid.NewString()
			}
			if err := g.Validate(cat); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			out.Groups = append(out.Groups, g)
		}

		out.Toggles = DefaultToggles()
		if w.UseCategoryGroups != nil {
			out.Toggles.UseCategoryGroups = *w.UseCategoryGroups
		}
		if w.UseWeaponGroups != nil {
			out.Toggles.UseWeaponGroups = *w.UseWeaponGroups
		}
	}

	if r := doc.Roles; r != nil {
		errs = multierr.Append(errs, checkKeys("role", r.BlacklistedRoles, cat.HasRole))
		errs = multierr.Append(errs, checkKeys("agent", r.BlacklistedAgents, func(k string) bool {
			_, ok := cat.RoleOf(k)
			return ok
		}))
		out.Exclusions.Roles = NewKeySet(r.BlacklistedRoles...)
		out.Exclusions.Characters = NewKeySet(r.BlacklistedAgents...)

		out.AssignmentMode = r.AssignmentMode
		if out.AssignmentMode == "" {
			out.AssignmentMode = defaultAssignmentMode
		}
		if validMode != nil && !validMode(out.AssignmentMode) {
			errs = multierr.Append(errs, fmt.Errorf("unknown assignment mode %q", out.AssignmentMode))
		}
	}

	if m := doc.Maps; m != nil {
		errs = multierr.Append(errs, checkKeys("map", m.BlacklistedMaps, cat.HasMap))
		out.Exclusions.Maps = NewKeySet(m.BlacklistedMaps...)
	}

	if errs != nil {
		return base, fmt.Errorf("%w: %v", ErrMalformedSettings, errs)
	}
	out.Exclusions = out.Exclusions.Normalize(cat)
	return out, nil
}

func checkKeys(kind string, keys []string, known func(string) bool) error {
	var errs error
	for _, k := range keys {
		if !known(k) {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s %q", ErrUnknownKey, kind, k))
		}
	}
	return errs
}
