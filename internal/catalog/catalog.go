package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FirstGroupID is the lowest id handed out to groups. Group ids live
// in their own range so they can never collide with platform mod ids
// below it.
const FirstGroupID = 100_000_000

// Catalog owns every entity for the lifetime of one session. All
// lookups and mutations go through its accessors; callers never hold
// their own copies beyond a single operation.
type Catalog struct {
	// Catalog-wide fields.
	GameVersion string
	Note        string
	HeaderText  string
	FooterText  string

	SuppressedWarnings map[uint64]bool

	mods         map[uint64]*Mod
	authors      map[uint64]*Author
	authorsByURL map[string]*Author
	groups       map[uint64]*Group
	compats      []*Compatibility

	nextGroupID uint64
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		SuppressedWarnings: make(map[uint64]bool),
		mods:               make(map[uint64]*Mod),
		authors:            make(map[uint64]*Author),
		authorsByURL:       make(map[string]*Author),
		groups:             make(map[uint64]*Group),
		nextGroupID:        FirstGroupID,
	}
}

// NormalizeKey canonicalizes a custom-URL key: NFC normalization plus
// lower-casing and trimming. All custom-URL lookups and stores use the
// normalized form so visually identical keys cannot diverge.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(key)))
}

// Mod returns the mod with the given id, or nil.
func (c *Catalog) Mod(id uint64) *Mod {
	return c.mods[id]
}

// AddMod inserts a mod. The id must not already exist.
func (c *Catalog) AddMod(m *Mod) error {
	if _, exists := c.mods[m.ID]; exists {
		return fmt.Errorf("mod %d already exists in the catalog", m.ID)
	}
	c.mods[m.ID] = m
	return nil
}

// RemoveMod deletes a mod by id. Callers must have verified that no
// other entity references it; see ReferencedBy.
func (c *Catalog) RemoveMod(id uint64) {
	delete(c.mods, id)
}

// Mods returns all mods sorted by id. The slice is freshly allocated;
// the mods themselves are the live catalog entries.
func (c *Catalog) Mods() []*Mod {
	out := make([]*Mod, 0, len(c.mods))
	for _, m := range c.mods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ModCount returns the number of mods.
func (c *Catalog) ModCount() int {
	return len(c.mods)
}

// ReferencedBy describes the first reference to a mod found among
// other entities, for removal validation error messages. Returns ""
// when nothing references the mod.
func (c *Catalog) ReferencedBy(id uint64) string {
	for _, m := range c.Mods() {
		if m.ID == id {
			continue
		}
		if kind := m.LinkKindOf(id); kind != 0 {
			return fmt.Sprintf("mod %d lists it as %s", m.ID, kind)
		}
	}
	if g := c.GroupOf(id); g != nil {
		return fmt.Sprintf("group %d has it as a member", g.ID)
	}
	for _, comp := range c.compats {
		if comp.FirstID == id || comp.SecondID == id {
			return fmt.Sprintf("a compatibility with mod %d references it", otherOf(comp, id))
		}
	}
	return ""
}

func otherOf(comp *Compatibility, id uint64) uint64 {
	if comp.FirstID == id {
		return comp.SecondID
	}
	return comp.FirstID
}

// Author returns an author by numeric id, or nil.
func (c *Catalog) Author(id uint64) *Author {
	return c.authors[id]
}

// AuthorByURL returns an author by custom URL, or nil.
// The key is normalized before lookup.
func (c *Catalog) AuthorByURL(url string) *Author {
	return c.authorsByURL[NormalizeKey(url)]
}

// FindAuthor resolves an author by numeric id first, then custom URL.
func (c *Catalog) FindAuthor(id uint64, url string) *Author {
	if id != 0 {
		if a := c.authors[id]; a != nil {
			return a
		}
	}
	if url != "" {
		return c.AuthorByURL(url)
	}
	return nil
}

// AddAuthor inserts an author and indexes its identifiers.
func (c *Catalog) AddAuthor(a *Author) error {
	if a.ID == 0 && a.CustomURL == "" {
		return fmt.Errorf("author has neither an ID nor a custom URL")
	}
	if a.ID != 0 {
		if _, exists := c.authors[a.ID]; exists {
			return fmt.Errorf("author %d already exists in the catalog", a.ID)
		}
	}
	if a.CustomURL != "" {
		if _, exists := c.authorsByURL[a.CustomURL]; exists {
			return fmt.Errorf("author %s already exists in the catalog", a.CustomURL)
		}
	}
	if a.ID != 0 {
		c.authors[a.ID] = a
	}
	if a.CustomURL != "" {
		c.authorsByURL[a.CustomURL] = a
	}
	return nil
}

// RemoveAuthor deletes an author from both indexes. Used by the merge
// operation to drop the URL-only record after relinking mods.
func (c *Catalog) RemoveAuthor(a *Author) {
	if a.ID != 0 {
		delete(c.authors, a.ID)
	}
	if a.CustomURL != "" {
		delete(c.authorsByURL, a.CustomURL)
	}
}

// IndexAuthorID registers a numeric id for an existing author.
// Used when set_authorid assigns an id to a URL-only record.
func (c *Catalog) IndexAuthorID(a *Author) {
	if a.ID != 0 {
		c.authors[a.ID] = a
	}
}

// IndexAuthorURL registers a custom URL for an existing author.
func (c *Catalog) IndexAuthorURL(a *Author) {
	if a.CustomURL != "" {
		c.authorsByURL[a.CustomURL] = a
	}
}

// Authors returns all authors sorted by ledger key. Records indexed
// under both identifiers appear once.
func (c *Catalog) Authors() []*Author {
	seen := make(map[*Author]bool, len(c.authors)+len(c.authorsByURL))
	out := make([]*Author, 0, len(c.authors)+len(c.authorsByURL))
	for _, a := range c.authors {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	for _, a := range c.authorsByURL {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Group returns a group by id, or nil.
func (c *Catalog) Group(id uint64) *Group {
	return c.groups[id]
}

// GroupOf returns the group a mod belongs to, or nil. A mod belongs to
// at most one group.
func (c *Catalog) GroupOf(modID uint64) *Group {
	for _, g := range c.Groups() {
		if g.Has(modID) {
			return g
		}
	}
	return nil
}

// AddGroup creates a group with a freshly assigned id.
// Membership uniqueness is the engine's responsibility; the catalog
// only assigns the id and stores the group.
func (c *Catalog) AddGroup(name string, members []uint64) *Group {
	g := NewGroup(c.nextGroupID, name, members)
	c.nextGroupID++
	c.groups[g.ID] = g
	return g
}

// RestoreGroup inserts a group with a known id, advancing the id
// counter past it. Used by the persistence layer on load.
func (c *Catalog) RestoreGroup(g *Group) {
	c.groups[g.ID] = g
	if g.ID >= c.nextGroupID {
		c.nextGroupID = g.ID + 1
	}
}

// RemoveGroup deletes a group by id.
func (c *Catalog) RemoveGroup(id uint64) {
	delete(c.groups, id)
}

// Groups returns all groups sorted by id.
func (c *Catalog) Groups() []*Group {
	out := make([]*Group, 0, len(c.groups))
	for _, g := range c.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Compatibilities returns the live compatibility records in insertion
// order.
func (c *Catalog) Compatibilities() []*Compatibility {
	return c.compats
}

// CompatibilitiesBetween returns every record covering the pair in
// either order.
func (c *Catalog) CompatibilitiesBetween(first, second uint64) []*Compatibility {
	var out []*Compatibility
	for _, comp := range c.compats {
		if comp.SamePair(first, second) {
			out = append(out, comp)
		}
	}
	return out
}

// AddCompatibility appends a record. Duplicate and conflict validation
// is the engine's responsibility.
func (c *Catalog) AddCompatibility(comp *Compatibility) {
	c.compats = append(c.compats, comp)
}

// RemoveCompatibility deletes the record with the exact
// (first, second, status) triple. Returns false if no such record.
func (c *Catalog) RemoveCompatibility(first, second uint64, status CompatibilityStatus) bool {
	for i, comp := range c.compats {
		if comp.Matches(first, second, status) {
			c.compats = append(c.compats[:i], c.compats[i+1:]...)
			return true
		}
	}
	return false
}

// ModsByAuthor returns the mods attributed to the author, sorted by id.
func (c *Catalog) ModsByAuthor(a *Author) []*Mod {
	var out []*Mod
	for _, m := range c.Mods() {
		if (a.ID != 0 && m.AuthorID == a.ID) || (a.CustomURL != "" && m.AuthorURL == a.CustomURL) {
			out = append(out, m)
		}
	}
	return out
}
