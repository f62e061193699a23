package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/constraints"
	"github.com/DoyleJ11/squad-randomizer/internal/sample"
)

func twoWeaponGroups(t *testing.T, cat *catalog.Catalog) constraints.Groups {
	t.Helper()
	a, err := constraints.NewGroup(cat, constraints.KindWeapon, "vandal ghost", "Vandal", "Ghost")
	require.NoError(t, err)
	b, err := constraints.NewGroup(cat, constraints.KindWeapon, "op sheriff", "Operator", "Sheriff")
	require.NoError(t, err)
	return constraints.Groups{a, b}
}

func TestAssignWeapons_GroupsAreCyclic(t *testing.T) {
	cat := catalog.Default()
	groups := twoWeaponGroups(t, cat)
	cfg := WeaponConfig{Selection: constraints.KindWeapon, Groups: groups, Toggles: constraints.DefaultToggles()}
	players := []string{"P0", "P1", "P2", "P3", "P4"}

	vandal := Loadout{Primary: "Vandal", Secondary: "Ghost"}
	op := Loadout{Primary: "Operator", Secondary: "Sheriff"}

	cases := []struct {
		name  string
		draw  float64
		first Loadout
		other Loadout
	}{
		{"shuffle keeps order", 0.999, vandal, op},
		{"shuffle swaps", 0, op, vandal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AssignWeapons(players, cfg, constraints.NewSet(), cat, &sample.Sequence{Values: []float64{tc.draw}})
			require.NoError(t, err)
			assert.Equal(t, map[string]Loadout{
				"P0": tc.first, "P1": tc.other, "P2": tc.first, "P3": tc.other, "P4": tc.first,
			}, got)
		})
	}
}

func TestAssignWeapons_CategoryGroupsKeepCategoryNames(t *testing.T) {
	cat := catalog.Default()
	g, err := constraints.NewGroup(cat, constraints.KindCategory, "rifle pistol", "rifles", "pistols")
	require.NoError(t, err)
	cfg := WeaponConfig{Selection: constraints.KindCategory, Groups: constraints.Groups{g}, Toggles: constraints.DefaultToggles()}

	got, err := AssignWeapons([]string{"A", "B"}, cfg, constraints.NewSet(), cat, sample.NewSource(3))
	require.NoError(t, err)
	assert.Equal(t, Loadout{Primary: "rifles", Secondary: "pistols"}, got["A"])
	assert.Equal(t, got["A"], got["B"])
}

func TestAssignWeapons_IndependentDrawsHonorExclusions(t *testing.T) {
	cat := catalog.Default()
	groups := twoWeaponGroups(t, cat)
	ex, err := constraints.NewSet().ToggleCategory(cat, "rifles")
	require.NoError(t, err)
	ex, err = ex.ToggleWeapon(cat, "Classic")
	require.NoError(t, err)

	configs := map[string]WeaponConfig{
		"no groups":            {Selection: constraints.KindWeapon, Toggles: constraints.DefaultToggles()},
		"groups switched off":  {Selection: constraints.KindWeapon, Groups: groups, Toggles: constraints.DefaultToggles().With(constraints.KindWeapon, false)},
		"groups of other kind": {Selection: constraints.KindCategory, Groups: groups, Toggles: constraints.DefaultToggles()},
	}
	primaries := ex.PrimaryPool(cat)
	sidearms := ex.SidearmPool(cat)
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			for seed := uint64(0); seed < 50; seed++ {
				got, err := AssignWeapons([]string{"A", "B", "C"}, cfg, ex, cat, sample.NewSource(seed))
				require.NoError(t, err)
				require.Len(t, got, 3)
				for _, l := range got {
					require.Contains(t, primaries, l.Primary)
					require.Contains(t, sidearms, l.Secondary)
				}
			}
		})
	}
}

func TestAssignWeapons_EmptyPools(t *testing.T) {
	cat := catalog.Default()
	cfg := WeaponConfig{Selection: constraints.KindWeapon, Toggles: constraints.DefaultToggles()}

	noSidearms, err := constraints.NewSet().ToggleCategory(cat, "pistols")
	require.NoError(t, err)
	_, err = AssignWeapons([]string{"A"}, cfg, noSidearms, cat, sample.NewSource(0))
	assert.ErrorIs(t, err, ErrNoEligibleOptions)

	noPrimaries := constraints.NewSet()
	for _, c := range cat.PrimaryCategories() {
		noPrimaries, err = noPrimaries.ToggleCategory(cat, c)
		require.NoError(t, err)
	}
	_, err = AssignWeapons([]string{"A"}, cfg, noPrimaries, cat, sample.NewSource(0))
	assert.ErrorIs(t, err, ErrNoEligibleOptions)
}

func TestRandomWeapon(t *testing.T) {
	cat := catalog.Default()
	groups := twoWeaponGroups(t, cat)

	got, err := RandomWeapon(WeaponConfig{Selection: constraints.KindWeapon, Groups: groups, Toggles: constraints.DefaultToggles()},
		constraints.NewSet(), cat, &sample.Sequence{Values: []float64{0}})
	require.NoError(t, err)
	assert.Equal(t, "Vandal + Ghost", got)

	ex := constraints.NewSet()
	for _, c := range cat.Categories() {
		if c.Name == "shotguns" {
			continue
		}
		ex, err = ex.ToggleCategory(cat, c.Name)
		require.NoError(t, err)
	}
	ex, err = ex.ToggleWeapon(cat, "Judge")
	require.NoError(t, err)

	got, err = RandomWeapon(WeaponConfig{Selection: constraints.KindWeapon}, ex, cat, sample.NewSource(9))
	require.NoError(t, err)
	assert.Equal(t, "Bucky", got)

	ex, err = ex.ToggleWeapon(cat, "Bucky")
	require.NoError(t, err)
	_, err = RandomWeapon(WeaponConfig{Selection: constraints.KindWeapon}, ex, cat, sample.NewSource(9))
	assert.ErrorIs(t, err, ErrNoEligibleOptions)
}
