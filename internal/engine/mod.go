package engine

import (
	"fmt"

	"github.com/roach88/modcat/internal/catalog"
	"github.com/roach88/modcat/internal/ledger"
)

// modLabel is the display string used for a mod in change notes.
func modLabel(m *catalog.Mod) string {
	if m.Name == "" {
		return fmt.Sprintf("[%d]", m.ID)
	}
	return fmt.Sprintf("[%d] %s", m.ID, m.Name)
}

// AddMod creates a new catalog item. The optional status is limited to
// the platform lifecycle flags. A reference to an unknown author
// creates a placeholder author record: the item is often that author's
// first appearance, whether it arrives from the crawler or from a
// curator backfilling a removed mod.
func (e *Engine) AddMod(origin Origin, id uint64, status *catalog.Status, authorID uint64, authorURL string, name string) error {
	if id == 0 {
		return errMissingModID
	}
	if e.cat.Mod(id) != nil {
		return fmt.Errorf("Mod %d is already in the catalog.", id)
	}

	authorURL = catalog.NormalizeKey(authorURL)
	if authorID != 0 || authorURL != "" {
		if e.cat.FindAuthor(authorID, authorURL) == nil {
			if err := e.cat.AddAuthor(catalog.NewAuthor(authorID, authorURL, "")); err != nil {
				return err
			}
			e.led.AddedAuthor(authorKeyOf(authorID, authorURL), authorKeyOf(authorID, authorURL))
		}
	}

	m := catalog.NewMod(id)
	m.Name = name
	m.AuthorID = authorID
	m.AuthorURL = authorURL
	if status != nil {
		m.AddStatus(*status)
	}
	if err := e.cat.AddMod(m); err != nil {
		return err
	}

	e.led.AddedMod(id, modLabel(m))
	return nil
}

// RemoveMod deletes an item after verifying nothing else references
// it. A suppressed-warning entry for the id is dropped silently.
func (e *Engine) RemoveMod(id uint64) error {
	m, err := e.modForEdit(id)
	if err != nil {
		return err
	}
	if ref := e.cat.ReferencedBy(id); ref != "" {
		return fmt.Errorf("Mod %d cannot be removed: %s.", id, ref)
	}

	e.cat.RemoveMod(id)
	delete(e.cat.SuppressedWarnings, id)
	e.led.RemovedMod(id, modLabel(m))
	return nil
}

// SetStability classifies a mod's stability, with an optional note.
// Setting the identical stability and note is a no-op error.
func (e *Engine) SetStability(id uint64, stability catalog.Stability, note string) error {
	m, err := e.modForEdit(id)
	if err != nil {
		return err
	}
	if m.Stability == stability && m.StabilityNote == note {
		return fmt.Errorf("Mod %d already has this stability.", id)
	}

	if m.Stability != stability {
		m.Stability = stability
		e.led.UpdatedMod(id, modLabel(m), "stability changed")
	}
	if m.StabilityNote != note {
		e.led.UpdatedMod(id, modLabel(m), ledger.Change("stability note", m.StabilityNote, note))
		m.StabilityNote = note
	}
	return nil
}

// SetSourceURL sets or clears the source-repository URL.
//
// Manual set pins the value with an exclusion. Manual clear either
// undoes a manual set (clearing the exclusion) or rejects an automated
// value (setting one). Automated updates are silently ignored while an
// exclusion is present.
func (e *Engine) SetSourceURL(origin Origin, id uint64, url *string) error {
	if url == nil {
		return nil
	}
	m, err := e.modForEdit(id)
	if err != nil {
		return err
	}
	next := *url

	if origin == OriginCrawler {
		if m.ExclusionSourceURL || m.SourceURL == next {
			return nil
		}
		e.led.UpdatedMod(id, modLabel(m), ledger.Change("source URL", m.SourceURL, next))
		m.SourceURL = next
		return nil
	}

	if m.SourceURL == next {
		if next == "" {
			return fmt.Errorf("Mod %d does not have a source URL.", id)
		}
		return fmt.Errorf("Mod %d already has this source URL.", id)
	}

	e.led.UpdatedMod(id, modLabel(m), ledger.Change("source URL", m.SourceURL, next))
	m.SourceURL = next
	if next == "" {
		// Undoing a manual value clears the exclusion; rejecting an
		// automated one pins the absence.
		m.ExclusionSourceURL = !m.ExclusionSourceURL
	} else {
		m.ExclusionSourceURL = true
	}
	return nil
}

// SetGameVersion sets or clears the compatible-game-version string.
// An automated update may override an exclusion only when the new
// version is numerically greater than the excluded one; the exclusion
// survives the improvement.
func (e *Engine) SetGameVersion(origin Origin, id uint64, version *string) error {
	if version == nil {
		return nil
	}
	m, err := e.modForEdit(id)
	if err != nil {
		return err
	}
	next := *version

	if origin == OriginCrawler {
		if m.GameVersion == next {
			return nil
		}
		if m.ExclusionGameVersion && CompareVersions(next, m.GameVersion) <= 0 {
			return nil
		}
		e.led.UpdatedMod(id, modLabel(m), ledger.Change("game version", m.GameVersion, next))
		m.GameVersion = next
		return nil
	}

	if m.GameVersion == next {
		if next == "" {
			return fmt.Errorf("Mod %d does not have a game version.", id)
		}
		return fmt.Errorf("Mod %d already has this game version.", id)
	}

	e.led.UpdatedMod(id, modLabel(m), ledger.Change("game version", m.GameVersion, next))
	m.GameVersion = next
	if next == "" {
		m.ExclusionGameVersion = !m.ExclusionGameVersion
	} else {
		m.ExclusionGameVersion = true
	}
	return nil
}

// SetModNote sets or clears the free-text general note. Notes are not
// scraped, so there is no exclusion to maintain.
func (e *Engine) SetModNote(id uint64, note *string) error {
	if note == nil {
		return nil
	}
	m, err := e.modForEdit(id)
	if err != nil {
		return err
	}
	next := *note
	if m.Note == next {
		if next == "" {
			return fmt.Errorf("Mod %d does not have a note.", id)
		}
		return fmt.Errorf("Mod %d already has this note.", id)
	}

	e.led.UpdatedMod(id, modLabel(m), ledger.Change("note", m.Note, next))
	m.Note = next
	return nil
}

// AddStatus sets a status flag, clearing the other members of its
// family. A manual edit to the no-description flag pins it with the
// exclusion; the crawler skips the flag while the exclusion holds.
func (e *Engine) AddStatus(origin Origin, id uint64, status catalog.Status) error {
	m, err := e.modForEdit(id)
	if err != nil {
		return err
	}
	if origin == OriginCrawler && status == catalog.StatusNoDescription && m.ExclusionNoDescription {
		return nil
	}
	if m.HasStatus(status) {
		if origin == OriginCrawler {
			return nil
		}
		return fmt.Errorf("Mod %d already has this status.", id)
	}

	cleared := m.AddStatus(status)
	for _, old := range cleared {
		e.led.UpdatedMod(id, modLabel(m), fmt.Sprintf("status %s removed", old))
	}
	e.led.UpdatedMod(id, modLabel(m), fmt.Sprintf("status %s added", status))
	if origin == OriginImporter && status == catalog.StatusNoDescription {
		m.ExclusionNoDescription = true
	}
	return nil
}

// RemoveStatus clears a status flag. Manually clearing no-description
// toggles its exclusion the same way required-mod removal does.
func (e *Engine) RemoveStatus(origin Origin, id uint64, status catalog.Status) error {
	m, err := e.modForEdit(id)
	if err != nil {
		return err
	}
	if origin == OriginCrawler && status == catalog.StatusNoDescription && m.ExclusionNoDescription {
		return nil
	}
	if !m.RemoveStatus(status) {
		if origin == OriginCrawler {
			return nil
		}
		return fmt.Errorf("Mod %d does not have this status.", id)
	}

	e.led.UpdatedMod(id, modLabel(m), fmt.Sprintf("status %s removed", status))
	if origin == OriginImporter && status == catalog.StatusNoDescription {
		m.ExclusionNoDescription = !m.ExclusionNoDescription
	}
	return nil
}

func authorKeyOf(id uint64, url string) string {
	if id != 0 {
		return fmt.Sprintf("%d", id)
	}
	return url
}
