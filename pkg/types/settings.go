package types

// SettingsDocument is the import/export file format. Key names match files
// written by earlier versions of the randomizer, so they must not change.
type SettingsDocument struct {
	Weapons *WeaponSettings `json:"weapons,omitempty"`
	Roles   *RoleSettings   `json:"roles,omitempty"`
	Maps    *MapSettings    `json:"maps,omitempty"`
}

type WeaponSettings struct {
	BlacklistedWeapons    []string      `json:"blacklistedWeapons"`
	BlacklistedCategories []string      `json:"blacklistedCategories"`
	WeaponGroups          []WeaponGroup `json:"weaponGroups"`
	UseCategoryGroups     *bool         `json:"useCategoryGroups,omitempty"`
	UseWeaponGroups       *bool         `json:"useWeaponGroups,omitempty"`
}

type WeaponGroup struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Type      string `json:"type"`
}

type RoleSettings struct {
	BlacklistedRoles  []string `json:"blacklistedRoles"`
	BlacklistedAgents []string `json:"blacklistedAgents"`
	AssignmentMode    string   `json:"assignmentMode"`
}

type MapSettings struct {
	BlacklistedMaps []string `json:"blacklistedMaps"`
}
