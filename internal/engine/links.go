package engine

import (
	"fmt"
	"strings"

	"github.com/roach88/modcat/internal/catalog"
)

// AddLink adds a target to one of a mod's four relationship sets.
// The target is silently dropped from the other three sets; each drop
// is recorded in the ledger so the transition is auditable.
//
// A manual required-mod addition pins the target with a per-id
// exclusion. The crawler may not add a required mod whose id carries
// an exclusion (the curator rejected it earlier).
func (e *Engine) AddLink(origin Origin, id, target uint64, kind catalog.LinkKind) error {
	m, err := e.modForEdit(id)
	if err != nil {
		return err
	}
	if target == 0 {
		return errMissingModID
	}
	if target == id {
		return fmt.Errorf("Mod %d cannot link to itself.", id)
	}
	if e.cat.Mod(target) == nil && e.cat.Group(target) == nil {
		return errModNotFound(target)
	}
	if kind == catalog.LinkRequired && origin == OriginCrawler && m.ExclusionMods[target] {
		return nil
	}
	if m.HasLink(kind, target) {
		if origin == OriginCrawler {
			return nil
		}
		return fmt.Errorf("Mod %d already has this %s.", id, kind)
	}

	cleared := m.SetLink(kind, target)
	for _, old := range cleared {
		e.led.UpdatedMod(id, modLabel(m), fmt.Sprintf("%s %d removed", old, target))
	}
	e.led.UpdatedMod(id, modLabel(m), fmt.Sprintf("%s %d added", kind, target))

	if kind == catalog.LinkRequired && origin == OriginImporter {
		m.ExclusionMods[target] = true
	}
	return nil
}

// RemoveLink removes a target from one of the relationship sets.
//
// For required mods the exclusion moves the opposite way of the edit:
// removing a target that carries an exclusion clears it (a manual
// addition undone cleanly); removing one without an exclusion pins the
// absence, so the crawler cannot silently re-add the dependency the
// curator just rejected.
func (e *Engine) RemoveLink(origin Origin, id, target uint64, kind catalog.LinkKind) error {
	m, err := e.modForEdit(id)
	if err != nil {
		return err
	}
	if target == 0 {
		return errMissingModID
	}
	if kind == catalog.LinkRequired && origin == OriginCrawler && m.ExclusionMods[target] {
		return nil
	}
	if !m.RemoveLink(kind, target) {
		if origin == OriginCrawler {
			return nil
		}
		return fmt.Errorf("Mod %d does not have this %s.", id, kind)
	}

	e.led.UpdatedMod(id, modLabel(m), fmt.Sprintf("%s %d removed", kind, target))

	if kind == catalog.LinkRequired && origin == OriginImporter {
		if m.ExclusionMods[target] {
			delete(m.ExclusionMods, target)
		} else {
			m.ExclusionMods[target] = true
		}
	}
	return nil
}

// AddRequiredDLC marks a DLC as required. Manual additions pin the
// DLC with a per-token exclusion.
func (e *Engine) AddRequiredDLC(origin Origin, id uint64, dlc string) error {
	m, err := e.modForEdit(id)
	if err != nil {
		return err
	}
	dlc = strings.ToLower(strings.TrimSpace(dlc))
	if dlc == "" {
		return fmt.Errorf("Missing DLC name.")
	}
	if origin == OriginCrawler && m.ExclusionDLC[dlc] {
		return nil
	}
	if m.RequiredDLC[dlc] {
		if origin == OriginCrawler {
			return nil
		}
		return fmt.Errorf("Mod %d already has this required DLC.", id)
	}

	m.RequiredDLC[dlc] = true
	e.led.UpdatedMod(id, modLabel(m), fmt.Sprintf("required DLC %s added", dlc))
	if origin == OriginImporter {
		m.ExclusionDLC[dlc] = true
	}
	return nil
}

// RemoveRequiredDLC unmarks a required DLC, with the same exclusion
// hand-off as required-mod removal.
func (e *Engine) RemoveRequiredDLC(origin Origin, id uint64, dlc string) error {
	m, err := e.modForEdit(id)
	if err != nil {
		return err
	}
	dlc = strings.ToLower(strings.TrimSpace(dlc))
	if origin == OriginCrawler && m.ExclusionDLC[dlc] {
		return nil
	}
	if !m.RequiredDLC[dlc] {
		if origin == OriginCrawler {
			return nil
		}
		return fmt.Errorf("Mod %d does not have this required DLC.", id)
	}

	delete(m.RequiredDLC, dlc)
	e.led.UpdatedMod(id, modLabel(m), fmt.Sprintf("required DLC %s removed", dlc))
	if origin == OriginImporter {
		if m.ExclusionDLC[dlc] {
			delete(m.ExclusionDLC, dlc)
		} else {
			m.ExclusionDLC[dlc] = true
		}
	}
	return nil
}

// RemoveExclusion clears a manual-override flag without touching the
// guarded value, re-opening the field for automated updates.
func (e *Engine) RemoveExclusion(id uint64, category, target string) error {
	m, err := e.modForEdit(id)
	if err != nil {
		return err
	}

	switch category {
	case "sourceurl":
		if !m.ExclusionSourceURL {
			return errNoExclusion(id)
		}
		m.ExclusionSourceURL = false
	case "gameversion":
		if !m.ExclusionGameVersion {
			return errNoExclusion(id)
		}
		m.ExclusionGameVersion = false
	case "nodescription":
		if !m.ExclusionNoDescription {
			return errNoExclusion(id)
		}
		m.ExclusionNoDescription = false
	case "requireddlc":
		if target == "" {
			return fmt.Errorf("An exclusion target is required for this category.")
		}
		if !m.ExclusionDLC[target] {
			return errNoExclusion(id)
		}
		delete(m.ExclusionDLC, target)
	case "requiredmod":
		if target == "" {
			return fmt.Errorf("An exclusion target is required for this category.")
		}
		targetID := parseTargetID(target)
		if !m.ExclusionMods[targetID] {
			return errNoExclusion(id)
		}
		delete(m.ExclusionMods, targetID)
	default:
		return fmt.Errorf("Invalid exclusion category %q.", category)
	}
	return nil
}

func errNoExclusion(id uint64) error {
	return fmt.Errorf("Mod %d does not have this exclusion.", id)
}

func parseTargetID(s string) uint64 {
	var id uint64
	_, _ = fmt.Sscanf(s, "%d", &id)
	return id
}
