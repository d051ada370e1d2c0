package catalog

// MinGroupMembers is the smallest group the catalog keeps. A removal
// that would leave a group below this cardinality cascades into
// removing the group itself.
const MinGroupMembers = 2

// Group is a named bucket of interchangeable mods, used where a
// required-mod relationship is satisfied by any one of several mods.
type Group struct {
	ID      uint64
	Name    string
	Members map[uint64]bool
}

// NewGroup creates a group with the given members.
func NewGroup(id uint64, name string, members []uint64) *Group {
	g := &Group{
		ID:      id,
		Name:    name,
		Members: make(map[uint64]bool, len(members)),
	}
	for _, m := range members {
		g.Members[m] = true
	}
	return g
}

// Has reports whether the mod id is a member.
func (g *Group) Has(modID uint64) bool {
	return g.Members[modID]
}

// Size returns the member count.
func (g *Group) Size() int {
	return len(g.Members)
}
