package catalog

var defaultMaps = []string{
	"Bind", "Haven", "Split", "Ascent", "Icebox", "Breeze",
	"Fracture", "Pearl", "Lotus", "Sunset", "Abyss", "Corrode",
}

var defaultCategories = []Category{
	{Name: "rifles", Weapons: []string{"Vandal", "Phantom", "Bulldog", "Guardian"}},
	{Name: "smgs", Weapons: []string{"Spectre", "Stinger"}},
	{Name: "shotguns", Weapons: []string{"Judge", "Bucky"}},
	{Name: "snipers", Weapons: []string{"Operator", "Marshal", "Outlaw"}},
	{Name: "lmg", Weapons: []string{"Odin", "Ares"}},
	{Name: "pistols", Sidearm: true, Weapons: []string{"Ghost", "Sheriff", "Frenzy", "Classic", "Shorty"}},
}

var defaultRoles = []Role{
	{Name: "Duelist", Characters: []string{"Jett", "Phoenix", "Reyna", "Raze", "Yoru", "Neon", "Iso", "Waylay"}},
	{Name: "Initiator", Characters: []string{"Sova", "Breach", "Skye", "KAY/O", "Fade", "Gekko", "Tejo"}},
	{Name: "Controller", Characters: []string{"Brimstone", "Omen", "Viper", "Astra", "Harbor", "Clove"}},
	{Name: "Sentinel", Characters: []string{"Sage", "Cypher", "Killjoy", "Chamber", "Deadlock", "Vyse"}},
}

var defaultUtilities = map[string]Utility{
	// Duelists
	"Jett":    {Entry: true},
	"Phoenix": {Flash: true, Entry: true},
	"Reyna":   {Flash: true, Entry: true},
	"Raze":    {Deny: true, Entry: true},
	"Yoru":    {Flash: true, Entry: true},
	"Neon":    {Entry: true},
	"Iso":     {Entry: true},
	"Waylay":  {Entry: true},
	// Initiators
	"Sova":   {Info: true},
	"Breach": {Flash: true, Deny: true, Entry: true},
	"Skye":   {Flash: true, Info: true},
	"KAY/O":  {Flash: true, Deny: true},
	"Fade":   {Info: true},
	"Gekko":  {Flash: true, Info: true},
	"Tejo":   {Info: true},
	// Controllers
	"Brimstone": {Deny: true, Hold: true},
	"Omen":      {Flash: true, Deny: true, Hold: true},
	"Viper":     {Deny: true, Hold: true},
	"Astra":     {Deny: true, Hold: true},
	"Harbor":    {Deny: true, Hold: true},
	"Clove":     {Deny: true, Hold: true},
	// Sentinels
	"Sage":     {Deny: true, Hold: true},
	"Cypher":   {Info: true, Hold: true},
	"Killjoy":  {Info: true, Hold: true},
	"Chamber":  {Hold: true},
	"Deadlock": {Hold: true},
	"Vyse":     {Hold: true},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultMaps, defaultCategories, defaultRoles, defaultUtilities)
	if err != nil {
		panic(err) // built-in tables are fixed
	}
	return c
}
