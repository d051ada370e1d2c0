package catalog

import "time"

// Mod is one catalog item.
//
// The four link sets (RequiredMods, Successors, Alternatives,
// Recommendations) are mutually exclusive per target id. All writes to
// them must go through SetLink / RemoveLink so the exclusivity is
// enforced in one place.
type Mod struct {
	ID        uint64
	Name      string
	AuthorID  uint64
	AuthorURL string

	Published time.Time
	Updated   time.Time

	Stability     Stability
	StabilityNote string
	Note          string

	Statuses map[Status]bool

	GameVersion string
	SourceURL   string

	RequiredDLC     map[string]bool
	RequiredMods    map[uint64]bool
	Successors      map[uint64]bool
	Alternatives    map[uint64]bool
	Recommendations map[uint64]bool

	// Exclusions mark fields as manually curated: the automated fact
	// source may not overwrite them unless the new value is a strict
	// improvement. The boolean fields cover scalar properties; the map
	// fields track per-target exclusions.
	ExclusionSourceURL     bool
	ExclusionGameVersion   bool
	ExclusionNoDescription bool
	ExclusionDLC           map[string]bool
	ExclusionMods          map[uint64]bool
}

// NewMod creates an empty mod with all sets initialized.
func NewMod(id uint64) *Mod {
	return &Mod{
		ID:              id,
		Stability:       StabilityNotReviewed,
		Statuses:        make(map[Status]bool),
		RequiredDLC:     make(map[string]bool),
		RequiredMods:    make(map[uint64]bool),
		Successors:      make(map[uint64]bool),
		Alternatives:    make(map[uint64]bool),
		Recommendations: make(map[uint64]bool),
		ExclusionDLC:    make(map[string]bool),
		ExclusionMods:   make(map[uint64]bool),
	}
}

// HasStatus reports whether the status flag is set.
func (m *Mod) HasStatus(s Status) bool {
	return m.Statuses[s]
}

// AddStatus sets a status flag, clearing the other members of its
// mutually exclusive family. Returns the statuses that were cleared,
// in family declaration order, so the caller can record them.
//
// Adding StatusRemoved additionally clears StatusNoDescription,
// StatusNoCommentSection, and the no-description exclusion: a removed
// item cannot meaningfully lack a description.
func (m *Mod) AddStatus(s Status) []Status {
	var cleared []Status
	for _, other := range s.Family() {
		if m.Statuses[other] {
			delete(m.Statuses, other)
			cleared = append(cleared, other)
		}
	}
	if s == StatusRemoved {
		for _, other := range []Status{StatusNoDescription, StatusNoCommentSection} {
			if m.Statuses[other] {
				delete(m.Statuses, other)
				cleared = append(cleared, other)
			}
		}
		m.ExclusionNoDescription = false
	}
	m.Statuses[s] = true
	return cleared
}

// RemoveStatus clears a status flag. Returns false if it was not set.
func (m *Mod) RemoveStatus(s Status) bool {
	if !m.Statuses[s] {
		return false
	}
	delete(m.Statuses, s)
	return true
}

// linkSet returns the backing set for a link kind.
func (m *Mod) linkSet(kind LinkKind) map[uint64]bool {
	switch kind {
	case LinkRequired:
		return m.RequiredMods
	case LinkSuccessor:
		return m.Successors
	case LinkAlternative:
		return m.Alternatives
	case LinkRecommendation:
		return m.Recommendations
	default:
		return nil
	}
}

// HasLink reports whether target is in the given link set.
func (m *Mod) HasLink(kind LinkKind, target uint64) bool {
	return m.linkSet(kind)[target]
}

// LinkKindOf returns the link kind currently holding target, or 0.
func (m *Mod) LinkKindOf(target uint64) LinkKind {
	for _, kind := range linkKinds {
		if m.linkSet(kind)[target] {
			return kind
		}
	}
	return 0
}

// SetLink adds target to the given link set and removes it from the
// other three. This is the single enforcement point for the
// relationship exclusivity invariant. Returns the kinds the target was
// removed from (at most one in practice).
func (m *Mod) SetLink(kind LinkKind, target uint64) []LinkKind {
	var cleared []LinkKind
	for _, other := range linkKinds {
		if other == kind {
			continue
		}
		if set := m.linkSet(other); set[target] {
			delete(set, target)
			cleared = append(cleared, other)
		}
	}
	m.linkSet(kind)[target] = true
	return cleared
}

// RemoveLink removes target from the given link set.
// Returns false if it was not present.
func (m *Mod) RemoveLink(kind LinkKind, target uint64) bool {
	set := m.linkSet(kind)
	if !set[target] {
		return false
	}
	delete(set, target)
	return true
}
