package engine

import (
	"fmt"

	"github.com/roach88/modcat/internal/catalog"
)

func groupLabel(g *catalog.Group) string {
	if g.Name == "" {
		return fmt.Sprintf("[Group %d]", g.ID)
	}
	return fmt.Sprintf("[Group %d] %s", g.ID, g.Name)
}

// AddGroup creates a group of interchangeable mods. All members must
// exist and be free of other group memberships before anything is
// created (validate-then-apply).
func (e *Engine) AddGroup(name string, members []uint64) error {
	if name == "" {
		return fmt.Errorf("Missing group name.")
	}
	unique := make(map[uint64]bool, len(members))
	for _, id := range members {
		unique[id] = true
	}
	if len(unique) < catalog.MinGroupMembers {
		return fmt.Errorf("A group needs at least %d distinct members.", catalog.MinGroupMembers)
	}
	for id := range unique {
		if e.cat.Mod(id) == nil {
			return errModNotFound(id)
		}
		if g := e.cat.GroupOf(id); g != nil {
			return fmt.Errorf("Mod %d is already a member of group %d.", id, g.ID)
		}
	}

	g := e.cat.AddGroup(name, members)
	e.led.AddedGroup(g.ID, groupLabel(g))
	return nil
}

// RemoveGroup deletes a group and records an update note for every
// former member, since their "any of these" requirement semantics
// change with the group gone. Links held by other mods that point at
// the group id are dropped with it.
func (e *Engine) RemoveGroup(id uint64) error {
	g := e.cat.Group(id)
	if g == nil {
		return errGroupNotFound(id)
	}

	e.cat.RemoveGroup(id)
	e.led.RemovedGroup(id, groupLabel(g))
	for member := range g.Members {
		if m := e.cat.Mod(member); m != nil {
			e.led.UpdatedMod(member, modLabel(m), fmt.Sprintf("group %d membership removed", id))
		}
	}
	e.dropGroupLinks(id)
	return nil
}

// dropGroupLinks removes every relationship reference to a group that
// no longer exists, so no mod keeps a link to an unresolvable id. The
// per-target exclusion goes with it: there is no group left for the
// crawler to re-add.
func (e *Engine) dropGroupLinks(groupID uint64) {
	for _, m := range e.cat.Mods() {
		kind := m.LinkKindOf(groupID)
		if kind == 0 {
			continue
		}
		m.RemoveLink(kind, groupID)
		delete(m.ExclusionMods, groupID)
		e.led.UpdatedMod(m.ID, modLabel(m), fmt.Sprintf("%s %d removed", kind, groupID))
	}
}

// AddGroupMember adds a mod to an existing group. A mod belongs to at
// most one group.
func (e *Engine) AddGroupMember(groupID, modID uint64) error {
	g := e.cat.Group(groupID)
	if g == nil {
		return errGroupNotFound(groupID)
	}
	m, err := e.modForEdit(modID)
	if err != nil {
		return err
	}
	if other := e.cat.GroupOf(modID); other != nil {
		if other.ID == groupID {
			return fmt.Errorf("Mod %d is already a member of group %d.", modID, groupID)
		}
		return fmt.Errorf("Mod %d is already a member of group %d.", modID, other.ID)
	}

	g.Members[modID] = true
	e.led.UpdatedGroup(groupID, groupLabel(g), fmt.Sprintf("member %d added", modID))
	e.led.UpdatedMod(modID, modLabel(m), fmt.Sprintf("group %d membership added", groupID))
	return nil
}

// RemoveGroupMember removes a mod from a group. A removal that would
// leave fewer than two members cascades into removing the whole group,
// with a removed-group note and an update note for the survivor.
func (e *Engine) RemoveGroupMember(groupID, modID uint64) error {
	g := e.cat.Group(groupID)
	if g == nil {
		return errGroupNotFound(groupID)
	}
	if !g.Has(modID) {
		return fmt.Errorf("Mod %d is not a member of group %d.", modID, groupID)
	}

	if g.Size()-1 < catalog.MinGroupMembers {
		delete(g.Members, modID)
		e.cat.RemoveGroup(groupID)
		e.led.RemovedGroup(groupID, groupLabel(g))
		for member := range g.Members {
			if m := e.cat.Mod(member); m != nil {
				e.led.UpdatedMod(member, modLabel(m), fmt.Sprintf("group %d membership removed", groupID))
			}
		}
		if m := e.cat.Mod(modID); m != nil {
			e.led.UpdatedMod(modID, modLabel(m), fmt.Sprintf("group %d membership removed", groupID))
		}
		e.dropGroupLinks(groupID)
		return nil
	}

	delete(g.Members, modID)
	e.led.UpdatedGroup(groupID, groupLabel(g), fmt.Sprintf("member %d removed", modID))
	if m := e.cat.Mod(modID); m != nil {
		e.led.UpdatedMod(modID, modLabel(m), fmt.Sprintf("group %d membership removed", groupID))
	}
	return nil
}
