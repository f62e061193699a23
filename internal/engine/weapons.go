package engine

import (
	"fmt"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/constraints"
	"github.com/DoyleJ11/squad-randomizer/internal/sample"
)

// WeaponConfig selects how loadouts are drawn.
type WeaponConfig struct {
	Selection constraints.GroupKind `json:"selection"`
	Groups    constraints.Groups    `json:"groups"`
	Toggles   constraints.Toggles   `json:"toggles"`
}

// ActiveGroups returns the groups that drive the draw, or nil when the
// selection kind has no groups or they are switched off.
func (c WeaponConfig) ActiveGroups() constraints.Groups {
	if !c.Toggles.InUse(c.Selection) {
		return nil
	}
	gs := c.Groups.ForKind(c.Selection)
	if len(gs) == 0 {
		return nil
	}
	return gs
}

// Loadout is one participant's pair. For category groups the values are
// category names.
type Loadout struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// AssignWeapons gives every participant a loadout. With active groups the
// groups are shuffled and handed out cyclically in participant order, so the
// result is fixed once the shuffle is. Otherwise each participant draws a
// primary and a sidearm independently.
func AssignWeapons(participants []string, cfg WeaponConfig, ex constraints.Set, cat *catalog.Catalog, src sample.Source) (map[string]Loadout, error) {
	out := make(map[string]Loadout, len(participants))

	if groups := cfg.ActiveGroups(); groups != nil {
		shuffled := sample.Shuffle(src, groups)
		for i, p := range participants {
			g := shuffled[i%len(shuffled)]
			out[p] = Loadout{Primary: g.Primary, Secondary: g.Secondary}
		}
		return out, nil
	}

	primaries := ex.PrimaryPool(cat)
	if len(primaries) == 0 {
		return nil, fmt.Errorf("%w: every primary weapon is excluded", ErrNoEligibleOptions)
	}
	sidearms := ex.SidearmPool(cat)
	if len(sidearms) == 0 {
		return nil, fmt.Errorf("%w: every sidearm is excluded", ErrNoEligibleOptions)
	}
	for _, p := range participants {
		primary, _ := sample.Pick(src, primaries)
		secondary, _ := sample.Pick(src, sidearms)
		out[p] = Loadout{Primary: primary, Secondary: secondary}
	}
	return out, nil
}

// RandomWeapon is the standalone single draw used outside team play. Active
// groups yield one group rendered as "primary + secondary"; otherwise one
// weapon from every non-excluded weapon.
func RandomWeapon(cfg WeaponConfig, ex constraints.Set, cat *catalog.Catalog, src sample.Source) (string, error) {
	if groups := cfg.ActiveGroups(); groups != nil {
		g, _ := sample.Pick(src, groups)
		return g.Primary + " + " + g.Secondary, nil
	}
	w, ok := sample.Pick(src, ex.WeaponPool(cat))
	if !ok {
		return "", fmt.Errorf("%w: every weapon is excluded", ErrNoEligibleOptions)
	}
	return w, nil
}
