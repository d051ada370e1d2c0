// Package ledger accumulates the per-session change notes.
//
// Fragments are keyed by entity, deduplicated within one session, and
// rendered once at session end into a grouped, human-readable report.
// The ledger never talks to the catalog: callers pass a display label
// together with every fragment.
package ledger

import (
	"fmt"
	"strings"
)

// entry accumulates the comma-joined fragments for one entity.
type entry struct {
	label     string
	fragments string
}

// section keeps entries in first-touch order for deterministic output.
type section struct {
	order   []string
	entries map[string]*entry
}

func newSection() *section {
	return &section{entries: make(map[string]*entry)}
}

// add appends a fragment to an entity's entry, suppressing fragments
// already contained in the accumulated string. An empty fragment
// registers the entity without a note (used for the added/removed
// sections, where the label is the whole story).
func (s *section) add(key, label, fragment string) {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{label: label}
		s.entries[key] = e
		s.order = append(s.order, key)
	}
	if label != "" {
		e.label = label
	}
	if fragment == "" || strings.Contains(e.fragments, fragment) {
		return
	}
	if e.fragments != "" {
		e.fragments += ", "
	}
	e.fragments += fragment
}

func (s *section) empty() bool {
	return len(s.order) == 0
}

// Ledger is the session change log. The zero value is not usable;
// create one with New.
type Ledger struct {
	catalogNotes []string

	addedMods   *section
	updatedMods *section
	removedMods *section

	addedAuthors   *section
	updatedAuthors *section
	removedAuthors *section

	addedGroups   *section
	updatedGroups *section
	removedGroups *section

	addedCompats   *section
	removedCompats *section
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		addedMods:      newSection(),
		updatedMods:    newSection(),
		removedMods:    newSection(),
		addedAuthors:   newSection(),
		updatedAuthors: newSection(),
		removedAuthors: newSection(),
		addedGroups:    newSection(),
		updatedGroups:  newSection(),
		removedGroups:  newSection(),
		addedCompats:   newSection(),
		removedCompats: newSection(),
	}
}

// Change classifies a scalar property transition into a ledger
// fragment: empty→value is "added", value→empty is "removed",
// value→value is "changed".
func Change(field, old, new string) string {
	switch {
	case old == "" && new != "":
		return field + " added"
	case old != "" && new == "":
		return field + " removed"
	default:
		return field + " changed"
	}
}

// Catalog records a catalog-level change note.
func (l *Ledger) Catalog(fragment string) {
	for _, existing := range l.catalogNotes {
		if existing == fragment {
			return
		}
	}
	l.catalogNotes = append(l.catalogNotes, fragment)
}

func modKey(id uint64) string { return fmt.Sprintf("%d", id) }

// AddedMod registers a newly created mod.
func (l *Ledger) AddedMod(id uint64, label string) {
	l.addedMods.add(modKey(id), label, "")
}

// UpdatedMod appends a change fragment for a mod. Fragments for a mod
// created earlier in the same session land on its added entry instead,
// so a brand-new mod renders as one line.
func (l *Ledger) UpdatedMod(id uint64, label, fragment string) {
	if _, isNew := l.addedMods.entries[modKey(id)]; isNew {
		l.addedMods.add(modKey(id), label, fragment)
		return
	}
	l.updatedMods.add(modKey(id), label, fragment)
}

// RemovedMod registers a deleted mod.
func (l *Ledger) RemovedMod(id uint64, label string) {
	l.removedMods.add(modKey(id), label, "")
}

// AddedAuthor registers a newly created author, keyed by its stable
// ledger key (numeric id or custom URL).
func (l *Ledger) AddedAuthor(key, label string) {
	l.addedAuthors.add(key, label, "")
}

// UpdatedAuthor appends a change fragment for an author.
func (l *Ledger) UpdatedAuthor(key, label, fragment string) {
	if _, isNew := l.addedAuthors.entries[key]; isNew {
		l.addedAuthors.add(key, label, fragment)
		return
	}
	l.updatedAuthors.add(key, label, fragment)
}

// RemovedAuthor registers a deleted author (merge leftovers).
func (l *Ledger) RemovedAuthor(key, label string) {
	l.removedAuthors.add(key, label, "")
}

// AddedGroup registers a newly created group.
func (l *Ledger) AddedGroup(id uint64, label string) {
	l.addedGroups.add(modKey(id), label, "")
}

// UpdatedGroup appends a change fragment for a group.
func (l *Ledger) UpdatedGroup(id uint64, label, fragment string) {
	if _, isNew := l.addedGroups.entries[modKey(id)]; isNew {
		l.addedGroups.add(modKey(id), label, fragment)
		return
	}
	l.updatedGroups.add(modKey(id), label, fragment)
}

// RemovedGroup registers a deleted group.
func (l *Ledger) RemovedGroup(id uint64, label string) {
	l.removedGroups.add(modKey(id), label, "")
}

// AddedCompatibility registers a new compatibility record.
func (l *Ledger) AddedCompatibility(label string) {
	l.addedCompats.add(label, label, "")
}

// RemovedCompatibility registers a deleted compatibility record.
func (l *Ledger) RemovedCompatibility(label string) {
	l.removedCompats.add(label, label, "")
}

// Empty reports whether the session recorded no changes at all.
func (l *Ledger) Empty() bool {
	return len(l.catalogNotes) == 0 &&
		l.addedMods.empty() && l.updatedMods.empty() && l.removedMods.empty() &&
		l.addedAuthors.empty() && l.updatedAuthors.empty() && l.removedAuthors.empty() &&
		l.addedGroups.empty() && l.updatedGroups.empty() && l.removedGroups.empty() &&
		l.addedCompats.empty() && l.removedCompats.empty()
}

// Report renders the grouped change notes. Empty sections are omitted.
func (l *Ledger) Report() string {
	var b strings.Builder

	if len(l.catalogNotes) > 0 {
		b.WriteString("Catalog changes:\n")
		for _, note := range l.catalogNotes {
			fmt.Fprintf(&b, "  - %s\n", note)
		}
		b.WriteString("\n")
	}

	writeSection(&b, "Added mods:", l.addedMods)
	writeSection(&b, "Updated mods:", l.updatedMods)
	writeSection(&b, "Removed mods:", l.removedMods)
	writeSection(&b, "Added authors:", l.addedAuthors)
	writeSection(&b, "Updated authors:", l.updatedAuthors)
	writeSection(&b, "Removed authors:", l.removedAuthors)
	writeSection(&b, "Added groups:", l.addedGroups)
	writeSection(&b, "Updated groups:", l.updatedGroups)
	writeSection(&b, "Removed groups:", l.removedGroups)
	writeSection(&b, "Added compatibilities:", l.addedCompats)
	writeSection(&b, "Removed compatibilities:", l.removedCompats)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeSection(b *strings.Builder, header string, s *section) {
	if s.empty() {
		return
	}
	b.WriteString(header)
	b.WriteString("\n")
	for _, key := range s.order {
		e := s.entries[key]
		line := e.label
		if line == "" {
			line = key
		}
		if e.fragments != "" {
			line += ": " + e.fragments
		}
		fmt.Fprintf(b, "  - %s\n", line)
	}
	b.WriteString("\n")
}
