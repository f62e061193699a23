package constraints

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
)

func validMode(m string) bool {
	return m == "role" || m == "agent" || m == "replication"
}

func TestExportImport_RoundTrip(t *testing.T) {
	cat := catalog.Default()
	ex, err := NewSet().ToggleRole(cat, "Duelist")
	require.NoError(t, err)
	ex, err = ex.ToggleMap(cat, "Pearl")
	require.NoError(t, err)
	g, err := NewGroup(cat, KindWeapon, "eco", "Stinger", "Sheriff")
	require.NoError(t, err)

	in := Settings{
		Exclusions:     ex,
		Groups:         Groups{g},
		Toggles:        Toggles{UseCategoryGroups: true, UseWeaponGroups: false},
		AssignmentMode: "agent",
	}
	data, err := json.Marshal(Export(in))
	require.NoError(t, err)

	out, err := Import(data, cat, Settings{Exclusions: NewSet(), Toggles: DefaultToggles()}, validMode)
	require.NoError(t, err)
	assert.Equal(t, in.Exclusions.Roles.Sorted(), out.Exclusions.Roles.Sorted())
	assert.Equal(t, in.Exclusions.Characters.Sorted(), out.Exclusions.Characters.Sorted())
	assert.Equal(t, []string{"Pearl"}, out.Exclusions.Maps.Sorted())
	assert.Equal(t, in.Groups, out.Groups)
	assert.Equal(t, in.Toggles, out.Toggles)
	assert.Equal(t, "agent", out.AssignmentMode)
}

func TestExport_KeyNames(t *testing.T) {
	data, err := json.Marshal(Export(Settings{Exclusions: NewSet(), Toggles: DefaultToggles()}))
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw["weapons"], "blacklistedWeapons")
	assert.Contains(t, raw["weapons"], "blacklistedCategories")
	assert.Contains(t, raw["weapons"], "weaponGroups")
	assert.Equal(t, true, raw["weapons"]["useCategoryGroups"])
	assert.Contains(t, raw["roles"], "blacklistedAgents")
	assert.Equal(t, "role", raw["roles"]["assignmentMode"])
	assert.Contains(t, raw["maps"], "blacklistedMaps")
}

func TestImport_DefaultsAndPartialSections(t *testing.T) {
	cat := catalog.Default()
	base := Settings{Exclusions: NewSet(), Toggles: Toggles{}, AssignmentMode: "replication"}
	base.Exclusions.Maps = NewKeySet("Bind")

	out, err := Import([]byte(`{"weapons":{"blacklistedWeapons":["Ghost"]}}`), cat, base, validMode)
	require.NoError(t, err)

	assert.Equal(t, DefaultToggles(), out.Toggles, "missing toggles default to true")
	assert.Equal(t, "replication", out.AssignmentMode, "roles section absent keeps base mode")
	assert.Equal(t, []string{"Bind"}, out.Exclusions.Maps.Sorted(), "maps section absent keeps base maps")
	assert.True(t, out.Exclusions.Weapons.Has("Ghost"))
}

func TestImport_ParentExclusionCascades(t *testing.T) {
	cat := catalog.Default()
	doc := `{"roles":{"blacklistedRoles":["Controller"],"blacklistedAgents":[]}}`

	out, err := Import([]byte(doc), cat, Settings{Exclusions: NewSet()}, validMode)
	require.NoError(t, err)
	assert.True(t, out.Exclusions.Characters.Has("Omen"))
	assert.Equal(t, "role", out.AssignmentMode)
	assert.True(t, consistent(cat, out.Exclusions))
}

func TestImport_EmptyDocumentKeepsBase(t *testing.T) {
	cat := catalog.Default()
	base := Settings{Exclusions: NewSet(), Groups: Groups{}, Toggles: Toggles{UseWeaponGroups: true}, AssignmentMode: "agent"}
	base.Exclusions.Maps = NewKeySet("Lotus")

	out, err := Import([]byte(`{}`), cat, base, validMode)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lotus"}, out.Exclusions.Maps.Sorted())
	assert.Empty(t, out.Groups)
	assert.Equal(t, base.Toggles, out.Toggles)
	assert.Equal(t, "agent", out.AssignmentMode)
}

func TestImport_CategoryGroupWithConcreteSidearm(t *testing.T) {
	cat := catalog.Default()
	doc := `{
		"weapons": {
			"blacklistedWeapons": [],
			"blacklistedCategories": [],
			"weaponGroups": [
				{"id": "1719999999999", "name": "Rifle+Sheriff", "primary": "rifles", "secondary": "Sheriff", "type": "category"},
				{"id": "1720000000000", "name": "Smg+Pistols", "primary": "smgs", "secondary": "pistols", "type": "category"}
			],
			"useCategoryGroups": true,
			"useWeaponGroups": false
		},
		"roles": {"blacklistedRoles": [], "blacklistedAgents": [], "assignmentMode": "role"},
		"maps": {"blacklistedMaps": []}
	}`

	out, err := Import([]byte(doc), cat, Settings{Exclusions: NewSet()}, validMode)
	require.NoError(t, err)
	require.Len(t, out.Groups, 2)
	assert.Equal(t, Group{ID: "1719999999999", Name: "Rifle+Sheriff", Primary: "rifles", Secondary: "Sheriff", Kind: KindCategory}, out.Groups[0])
	assert.Equal(t, "pistols", out.Groups[1].Secondary)
}

func TestImport_RejectsAndLeavesBase(t *testing.T) {
	cat := catalog.Default()
	base := Settings{Exclusions: NewSet(), AssignmentMode: "agent"}
	base.Exclusions.Maps = NewKeySet("Lotus")

	cases := []struct {
		name string
		doc  string
	}{
		{"not json", `{"weapons":`},
		{"wrong type", `{"weapons":{"blacklistedWeapons":"Vandal"}}`},
		{"unknown map", `{"maps":{"blacklistedMaps":["Dust2"]}}`},
		{"unknown mode", `{"roles":{"assignmentMode":"chaos"}}`},
		{"bad group", `{"weapons":{"weaponGroups":[{"name":"x","primary":"Ghost","secondary":"Vandal","type":"weapon"}]}}`},
		{"bad group type", `{"weapons":{"weaponGroups":[{"name":"x","primary":"Vandal","secondary":"Ghost","type":"manual"}]}}`},
		{"valid section then bad section", `{"maps":{"blacklistedMaps":["Bind"]},"roles":{"blacklistedRoles":["Support"]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Import([]byte(tc.doc), cat, base, validMode)
			require.ErrorIs(t, err, ErrMalformedSettings)
			assert.Equal(t, []string{"Lotus"}, out.Exclusions.Maps.Sorted())
			assert.Equal(t, "agent", out.AssignmentMode)
		})
	}
}

func TestGroups(t *testing.T) {
	cat := catalog.Default()
	a, err := NewGroup(cat, KindCategory, "rifle pistol", "rifles", "pistols")
	require.NoError(t, err)
	b, err := NewGroup(cat, KindWeapon, "op sheriff", "Operator", "Sheriff")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	_, err = NewGroup(cat, KindCategory, "bad", "pistols", "rifles")
	assert.ErrorIs(t, err, ErrInvalidGroup)
	_, err = NewGroup(cat, KindCategory, "bad", "rifles", "Vandal")
	assert.ErrorIs(t, err, ErrInvalidGroup)
	c, err := NewGroup(cat, KindCategory, "rifle sheriff", "rifles", "Sheriff")
	require.NoError(t, err)
	assert.Equal(t, "Sheriff", c.Secondary)
	_, err = NewGroup(cat, KindWeapon, " ", "Vandal", "Ghost")
	assert.ErrorIs(t, err, ErrInvalidGroup)

	gs := Groups{}.Add(a).Add(b)
	assert.Equal(t, Groups{a}, gs.ForKind(KindCategory))

	gs, err = gs.Update(cat, b.ID, "marshal classic", "Marshal", "Classic")
	require.NoError(t, err)
	assert.Equal(t, "Marshal", gs[1].Primary)
	assert.Equal(t, KindWeapon, gs[1].Kind)

	_, err = gs.Update(cat, b.ID, "bad", "Classic", "Marshal")
	assert.ErrorIs(t, err, ErrInvalidGroup)

	gs, err = gs.Remove(a.ID)
	require.NoError(t, err)
	assert.Len(t, gs, 1)
	_, err = gs.Remove(a.ID)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestToggles(t *testing.T) {
	tg := DefaultToggles().With(KindWeapon, false)
	assert.True(t, tg.InUse(KindCategory))
	assert.False(t, tg.InUse(KindWeapon))
}
