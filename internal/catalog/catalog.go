package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

type Role struct {
	Name       string   `yaml:"name" json:"name"`
	Characters []string `yaml:"characters" json:"characters"`
}

type Category struct {
	Name    string   `yaml:"name" json:"name"`
	Sidearm bool     `yaml:"sidearm" json:"sidearm"`
	Weapons []string `yaml:"weapons" json:"weapons"`
}

// Utility flags describe what a character brings to a team composition.
type Utility struct {
	Flash bool `yaml:"flash" json:"flash"`
	Info  bool `yaml:"info" json:"info"`
	Deny  bool `yaml:"deny" json:"deny"`
	Entry bool `yaml:"entry" json:"entry"`
	Hold  bool `yaml:"hold" json:"hold"`
}

type file struct {
	Maps       []string           `yaml:"maps"`
	Categories []Category         `yaml:"categories"`
	Roles      []Role             `yaml:"roles"`
	Utilities  map[string]Utility `yaml:"utilities"`
}

// Catalog is the static reference data. It is never mutated after New.
type Catalog struct {
	maps       []string
	categories []Category
	roles      []Role
	utilities  map[string]Utility

	roleOf     map[string]string
	categoryOf map[string]string
	roleIndex  map[string]int
	catIndex   map[string]int
	mapSet     map[string]bool
}

func New(maps []string, categories []Category, roles []Role, utilities map[string]Utility) (*Catalog, error) {
	c := &Catalog{
		maps:       append([]string(nil), maps...),
		categories: make([]Category, 0, len(categories)),
		roles:      make([]Role, 0, len(roles)),
		utilities:  make(map[string]Utility, len(utilities)),
		roleOf:     map[string]string{},
		categoryOf: map[string]string{},
		roleIndex:  map[string]int{},
		catIndex:   map[string]int{},
		mapSet:     map[string]bool{},
	}
	for _, cat := range categories {
		c.categories = append(c.categories, Category{
			Name:    cat.Name,
			Sidearm: cat.Sidearm,
			Weapons: append([]string(nil), cat.Weapons...),
		})
	}
	for _, r := range roles {
		c.roles = append(c.roles, Role{Name: r.Name, Characters: append([]string(nil), r.Characters...)})
	}
	for k, v := range utilities {
		c.utilities[k] = v
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index() error {
	if len(c.maps) == 0 {
		return fmt.Errorf("%w: no maps", ErrInvalidCatalog)
	}
	for _, m := range c.maps {
		if m == "" || c.mapSet[m] {
			return fmt.Errorf("%w: bad or duplicate map %q", ErrInvalidCatalog, m)
		}
		c.mapSet[m] = true
	}

	sidearms := 0
	for i, cat := range c.categories {
		if cat.Name == "" || len(cat.Weapons) == 0 {
			return fmt.Errorf("%w: category %q has no weapons", ErrInvalidCatalog, cat.Name)
		}
		if _, dup := c.catIndex[cat.Name]; dup {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidCatalog, cat.Name)
		}
		c.catIndex[cat.Name] = i
		if cat.Sidearm {
			sidearms++
		}
		for _, w := range cat.Weapons {
			if _, dup := c.categoryOf[w]; dup {
				return fmt.Errorf("%w: weapon %q listed twice", ErrInvalidCatalog, w)
			}
			c.categoryOf[w] = cat.Name
		}
	}
	if sidearms != 1 {
		return fmt.Errorf("%w: want exactly one sidearm category, got %d", ErrInvalidCatalog, sidearms)
	}
	if len(c.categories) == sidearms {
		return fmt.Errorf("%w: no primary categories", ErrInvalidCatalog)
	}

	if len(c.roles) == 0 {
		return fmt.Errorf("%w: no roles", ErrInvalidCatalog)
	}
	for i, r := range c.roles {
		if r.Name == "" || len(r.Characters) == 0 {
			return fmt.Errorf("%w: role %q has no characters", ErrInvalidCatalog, r.Name)
		}
		if _, dup := c.roleIndex[r.Name]; dup {
			return fmt.Errorf("%w: duplicate role %q", ErrInvalidCatalog, r.Name)
		}
		c.roleIndex[r.Name] = i
		for _, ch := range r.Characters {
			if _, dup := c.roleOf[ch]; dup {
				return fmt.Errorf("%w: character %q listed twice", ErrInvalidCatalog, ch)
			}
			c.roleOf[ch] = r.Name
		}
	}
	return nil
}

// Load reads a YAML catalog file. Sections left empty fall back to Default.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	def := Default()
	if len(f.Maps) == 0 {
		f.Maps = def.Maps()
	}
	if len(f.Categories) == 0 {
		f.Categories = def.Categories()
	}
	if len(f.Roles) == 0 {
		f.Roles = def.Roles()
	}
	if f.Utilities == nil {
		f.Utilities = def.utilities
	}
	return New(f.Maps, f.Categories, f.Roles, f.Utilities)
}

func (c *Catalog) Maps() []string { return append([]string(nil), c.maps...) }

func (c *Catalog) HasMap(name string) bool { return c.mapSet[name] }

func (c *Catalog) Roles() []Role {
	out := make([]Role, len(c.roles))
	for i, r := range c.roles {
		out[i] = Role{Name: r.Name, Characters: append([]string(nil), r.Characters...)}
	}
	return out
}

func (c *Catalog) RoleNames() []string {
	out := make([]string, len(c.roles))
	for i, r := range c.roles {
		out[i] = r.Name
	}
	return out
}

// CharactersOf returns the characters of a role, or nil for an unknown role.
func (c *Catalog) CharactersOf(role string) []string {
	i, ok := c.roleIndex[role]
	if !ok {
		return nil
	}
	return append([]string(nil), c.roles[i].Characters...)
}

// Characters returns every character in role order.
func (c *Catalog) Characters() []string {
	var out []string
	for _, r := range c.roles {
		out = append(out, r.Characters...)
	}
	return out
}

func (c *Catalog) RoleOf(character string) (string, bool) {
	r, ok := c.roleOf[character]
	return r, ok
}

func (c *Catalog) HasRole(name string) bool {
	_, ok := c.roleIndex[name]
	return ok
}

func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{Name: cat.Name, Sidearm: cat.Sidearm, Weapons: append([]string(nil), cat.Weapons...)}
	}
	return out
}

func (c *Catalog) Category(name string) (Category, bool) {
	i, ok := c.catIndex[name]
	if !ok {
		return Category{}, false
	}
	cat := c.categories[i]
	return Category{Name: cat.Name, Sidearm: cat.Sidearm, Weapons: append([]string(nil), cat.Weapons...)}, true
}

func (c *Catalog) WeaponsOf(category string) []string {
	i, ok := c.catIndex[category]
	if !ok {
		return nil
	}
	return append([]string(nil), c.categories[i].Weapons...)
}

func (c *Catalog) CategoryOf(weapon string) (string, bool) {
	cat, ok := c.categoryOf[weapon]
	return cat, ok
}

// IsSidearmCategory reports whether a category is secondary-only.
func (c *Catalog) IsSidearmCategory(name string) bool {
	i, ok := c.catIndex[name]
	return ok && c.categories[i].Sidearm
}

func (c *Catalog) PrimaryCategories() []string {
	var out []string
	for _, cat := range c.categories {
		if !cat.Sidearm {
			out = append(out, cat.Name)
		}
	}
	return out
}

func (c *Catalog) SidearmCategory() string {
	for _, cat := range c.categories {
		if cat.Sidearm {
			return cat.Name
		}
	}
	return ""
}

func (c *Catalog) PrimaryWeapons() []string {
	var out []string
	for _, cat := range c.categories {
		if !cat.Sidearm {
			out = append(out, cat.Weapons...)
		}
	}
	return out
}

func (c *Catalog) Sidearms() []string {
	return c.WeaponsOf(c.SidearmCategory())
}

func (c *Catalog) AllWeapons() []string {
	var out []string
	for _, cat := range c.categories {
		out = append(out, cat.Weapons...)
	}
	return out
}

func (c *Catalog) UtilityOf(character string) Utility {
	return c.utilities[character]
}

// View is the JSON shape served to clients.
type View struct {
	Maps       []string           `json:"maps"`
	Categories []Category         `json:"categories"`
	Roles      []Role             `json:"roles"`
	Utilities  map[string]Utility `json:"utilities"`
}

func (c *Catalog) View() View {
	u := make(map[string]Utility, len(c.utilities))
	for k, v := range c.utilities {
		u[k] = v
	}
	return View{Maps: c.Maps(), Categories: c.Categories(), Roles: c.Roles(), Utilities: u}
}
