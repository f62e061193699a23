// Package types holds the wire formats shared with clients.
//
// Client -> Server (websocket text frames, or POST /lobbies/{code}/commands)
//
//	AddParticipant:                  name
//	RemoveParticipant:               name
//	PinParticipant:                  name, team: 1 | 2
//	UnpinParticipant:                name
//	SetTeamMode:                     mode: "random" | "manual"
//	ToggleRole:                      key: role
//	ToggleCharacter:                 key: agent
//	ToggleCategory:                  key: weapon category
//	ToggleCategoryWeapons:           key: weapon category
//	ToggleWeapon:                    key: weapon
//	ToggleMap:                       key: map
//	AddGroup:                        kind: "category" | "weapon", name, primary, secondary
//	RemoveGroup:                     groupId
//	RenameGroup:                     groupId, name, primary?, secondary?
//	SetGroupsInUse:                  kind, on
//	SetSelectionMode:                mode: "category" | "weapon"
//	SetAssignmentMode:               mode: "role" | "agent" | "replication" | "legacy"
//	PinMap:                          name
//	ClearMap:                        {}
//	ToggleDeathmatchWeapon:          key: weapon
//	ToggleDeathmatchCategory:        key: weapon category
//	ToggleDeathmatchCategoryWeapons: key: weapon category
//	SetDeathmatchSelection:          mode: "category" | "weapon"
//	ImportSettings:                  document: SettingsDocument
//	Randomize:                       {}
//	RandomizeWeapon:                 {}
//
// Server -> Client
//
//	StateSnapshot: version, state (sent to every client after an accepted command)
//	Error:         error, reason (sent to the sender of a rejected command only)
package types
