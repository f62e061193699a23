package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/constraints"
	"github.com/DoyleJ11/squad-randomizer/internal/sample"
)

func baseRequest(participants ...string) Request {
	return Request{
		Participants:   participants,
		TeamMode:       TeamRandom,
		AssignmentMode: AssignRole,
		Exclusions:     constraints.NewSet(),
		Weapons:        WeaponConfig{Selection: constraints.KindWeapon, Toggles: constraints.DefaultToggles()},
	}
}

func TestSelectMap(t *testing.T) {
	cat := catalog.Default()
	onlyBind := constraints.NewSet()
	for _, m := range cat.Maps() {
		if m == "Bind" {
			continue
		}
		var err error
		onlyBind, err = onlyBind.ToggleMap(cat, m)
		require.NoError(t, err)
	}
	none, err := onlyBind.ToggleMap(cat, "Bind")
	require.NoError(t, err)

	cases := []struct {
		name    string
		ex      constraints.Set
		pin     MapPin
		want    string
		wantErr error
	}{
		{name: "active pin wins", ex: none, pin: MapPin{Name: "Pearl", Active: true}, want: "Pearl"},
		{name: "inactive pin ignored", ex: onlyBind, pin: MapPin{Name: "Pearl"}, want: "Bind"},
		{name: "first map on zero draw", ex: constraints.NewSet(), want: "Bind"},
		{name: "every map excluded", ex: none, wantErr: ErrNoEligibleOptions},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SelectMap(tc.ex, cat, tc.pin, &sample.Sequence{Values: []float64{0}})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRandomizeAll_RefusesBelowMinimum(t *testing.T) {
	cat := catalog.Default()
	for _, ps := range [][]string{nil, {"A"}} {
		seq := &sample.Sequence{Values: []float64{0.5}}
		_, err := RandomizeAll(baseRequest(ps...), cat, seq)
		assert.ErrorIs(t, err, ErrNotEnoughParticipants)
		assert.Zero(t, seq.Draws(), "no draw happens before the check")
	}
}

func TestRandomizeAll_FourPlayersRoleMode(t *testing.T) {
	cat := catalog.Default()

	rec, err := RandomizeAll(baseRequest("A", "B", "C", "D"), cat, &sample.Sequence{Values: []float64{0.999}})
	require.NoError(t, err)

	assert.Equal(t, Teams{Team1: []string{"A", "B"}, Team2: []string{"C", "D"}}, rec.Teams)
	assert.NotEqual(t, rec.Roles["A"], rec.Roles["B"])
	assert.NotEqual(t, rec.Roles["C"], rec.Roles["D"])
	for _, p := range []string{"A", "B", "C", "D"} {
		assert.True(t, cat.HasRole(rec.Roles[p]))
		assert.Contains(t, cat.PrimaryWeapons(), rec.Weapons[p].Primary)
		assert.Contains(t, cat.Sidearms(), rec.Weapons[p].Secondary)
	}
	assert.True(t, cat.HasMap(rec.Map))
	assert.Equal(t, Settings{
		WeaponSelectionMode: constraints.KindWeapon,
		AssignmentMode:      AssignRole,
		TeamMode:            TeamRandom,
	}, rec.Settings)
}

func TestRandomizeAll_PinnedReplicationWithoutDuelists(t *testing.T) {
	cat := catalog.Default()
	noDuelists, err := constraints.NewSet().ToggleRole(cat, "Duelist")
	require.NoError(t, err)

	req := baseRequest("A", "B")
	req.TeamMode = TeamManual
	req.Pinned = Teams{Team1: []string{"A"}, Team2: []string{"B"}}
	req.AssignmentMode = AssignReplication
	req.Exclusions = noDuelists

	for seed := uint64(0); seed < 100; seed++ {
		rec, err := RandomizeAll(req, cat, sample.NewSource(seed))
		require.NoError(t, err)
		assert.Equal(t, req.Pinned, rec.Teams)
		for _, p := range []string{"A", "B"} {
			role, ok := cat.RoleOf(rec.Roles[p])
			require.True(t, ok)
			assert.NotEqual(t, "Duelist", role)
		}
	}
}

func TestRandomizeAll_GroupsUsedFlag(t *testing.T) {
	cat := catalog.Default()
	req := baseRequest("A", "B", "C", "D", "E")
	req.Weapons.Groups = twoWeaponGroups(t, cat)

	rec, err := RandomizeAll(req, cat, sample.NewSource(4))
	require.NoError(t, err)
	assert.True(t, rec.Settings.WeaponGroupsUsed)

	req.Weapons.Toggles = req.Weapons.Toggles.With(constraints.KindWeapon, false)
	rec, err = RandomizeAll(req, cat, sample.NewSource(4))
	require.NoError(t, err)
	assert.False(t, rec.Settings.WeaponGroupsUsed)
}

func TestRandomizeAll_PropagatesBoundaryErrors(t *testing.T) {
	cat := catalog.Default()
	allMaps := constraints.NewSet()
	for _, m := range cat.Maps() {
		var err error
		allMaps, err = allMaps.ToggleMap(cat, m)
		require.NoError(t, err)
	}

	req := baseRequest("A", "B")
	req.Exclusions = allMaps
	_, err := RandomizeAll(req, cat, sample.NewSource(1))
	assert.ErrorIs(t, err, ErrNoEligibleOptions)

	req = baseRequest("A", "B")
	req.AssignmentMode = "chaos"
	_, err = RandomizeAll(req, cat, sample.NewSource(1))
	assert.ErrorIs(t, err, ErrUnknownMode)

	req = baseRequest("A", "B")
	req.Weapons.Selection = "manual"
	_, err = RandomizeAll(req, cat, sample.NewSource(1))
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestBuild_SnapshotIsIsolated(t *testing.T) {
	teams := Teams{Team1: []string{"A"}, Team2: []string{"B"}}
	weapons := map[string]Loadout{"A": {Primary: "Vandal", Secondary: "Ghost"}}
	roles := map[string]string{"A": "Duelist", "B": "Sentinel"}
	settings := Settings{WeaponSelectionMode: constraints.KindWeapon, AssignmentMode: AssignRole, TeamMode: TeamManual}

	rec := Build(teams, weapons, roles, "Bind", settings)

	teams.Team1[0] = "Z"
	weapons["A"] = Loadout{Primary: "Odin"}
	roles["B"] = "Controller"
	settings.AssignmentMode = AssignAgent

	assert.Equal(t, []string{"A"}, rec.Teams.Team1)
	assert.Equal(t, "Vandal", rec.Weapons["A"].Primary)
	assert.Equal(t, "Sentinel", rec.Roles["B"])
	assert.Equal(t, AssignRole, rec.Settings.AssignmentMode)

	cp := rec.Copy()
	cp.Roles["A"] = "Initiator"
	cp.Teams.Team2[0] = "Y"
	assert.Equal(t, "Duelist", rec.Roles["A"])
	assert.Equal(t, []string{"B"}, rec.Teams.Team2)
	assert.Equal(t, []string{"A", "B"}, rec.Participants())
}

func TestCompose(t *testing.T) {
	cat := catalog.Default()
	rec := Record{
		Teams: Teams{Team1: []string{"A", "B"}, Team2: []string{"C"}},
		Roles: map[string]string{"A": "Omen", "B": "Sova", "C": "Duelist"},
	}

	got := Compose(rec, cat)
	assert.Equal(t, Composition{Flash: 1, Info: 1, Deny: 1, Hold: 1}, got.Team1)
	assert.Equal(t, Composition{}, got.Team2, "role names carry no utility")
}
