package engine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/roach88/modcat/internal/catalog"
	"github.com/roach88/modcat/internal/command"
)

// AddAuthor creates an author identified by numeric id or custom URL.
func (e *Engine) AddAuthor(ref command.AuthorRef, name string) error {
	if ref.ID == 0 && ref.URL == "" {
		return errMissingAuthor
	}
	if e.cat.FindAuthor(ref.ID, ref.URL) != nil {
		if ref.ID != 0 {
			return fmt.Errorf("Author %d is already in the catalog.", ref.ID)
		}
		return fmt.Errorf("Author %s is already in the catalog.", ref.URL)
	}

	a := catalog.NewAuthor(ref.ID, ref.URL, name)
	if err := e.cat.AddAuthor(a); err != nil {
		return err
	}
	e.led.AddedAuthor(a.Key(), a.Label())
	return nil
}

// MergeAuthor combines an id-only author with a URL-only author into
// one record carrying both identifiers. The URL record is removed and
// every mod referencing its key is re-linked to the survivor.
//
// The merge is rejected when either side already carries both
// identifiers: that indicates the two records are not the same person
// or a merge already happened.
func (e *Engine) MergeAuthor(id uint64, url string) error {
	if id == 0 || url == "" {
		return errMissingAuthor
	}
	byID := e.cat.Author(id)
	if byID == nil {
		return errAuthorNotFound(command.AuthorRef{ID: id})
	}
	byURL := e.cat.AuthorByURL(url)
	if byURL == nil {
		return errAuthorNotFound(command.AuthorRef{URL: url})
	}
	if byID.CustomURL != "" {
		return fmt.Errorf("Author has both an ID and Custom URL: %d", id)
	}
	if byURL.ID != 0 {
		return fmt.Errorf("Author has both an ID and Custom URL: %s", url)
	}

	oldKey := byURL.Key()
	oldLabel := byURL.Label()
	normalized := byURL.CustomURL

	// Prefer the id record's name unless it is a placeholder (its own
	// id spelled out); keep the most recent activity date.
	if byID.Name == "" || byID.Name == strconv.FormatUint(id, 10) {
		if byURL.Name != "" {
			byID.Name = byURL.Name
		}
	}
	if byURL.LastSeen.After(byID.LastSeen) {
		byID.LastSeen = byURL.LastSeen
	}
	byID.ExclusionRetired = byID.ExclusionRetired || byURL.ExclusionRetired

	e.cat.RemoveAuthor(byURL)
	byID.CustomURL = normalized
	e.cat.IndexAuthorURL(byID)

	for _, m := range e.cat.Mods() {
		if m.AuthorURL == normalized {
			m.AuthorID = id
		}
	}

	e.led.RemovedAuthor(oldKey, oldLabel)
	e.led.UpdatedAuthor(byID.Key(), byID.Label(), "custom URL record merged")
	return nil
}

// SetAuthorID assigns a numeric id to a URL-only author. Allowed once.
func (e *Engine) SetAuthorID(url string, newID uint64) error {
	if newID == 0 {
		return errMissingAuthor
	}
	a := e.cat.AuthorByURL(url)
	if a == nil {
		return errAuthorNotFound(command.AuthorRef{URL: url})
	}
	if a.ID != 0 {
		return fmt.Errorf("Author %s already has an ID.", url)
	}
	if e.cat.Author(newID) != nil {
		return fmt.Errorf("Author %d is already in the catalog.", newID)
	}

	a.ID = newID
	e.cat.IndexAuthorID(a)
	for _, m := range e.cat.Mods() {
		if m.AuthorURL == a.CustomURL {
			m.AuthorID = newID
		}
	}
	e.led.UpdatedAuthor(a.Key(), a.Label(), "author ID added")
	return nil
}

// SetAuthorURL assigns a custom URL to an id-only author. Allowed once.
func (e *Engine) SetAuthorURL(id uint64, url string) error {
	a := e.cat.Author(id)
	if a == nil {
		return errAuthorNotFound(command.AuthorRef{ID: id})
	}
	url = catalog.NormalizeKey(url)
	if url == "" {
		return errMissingAuthor
	}
	if a.CustomURL != "" {
		return fmt.Errorf("Author %d already has a custom URL.", id)
	}
	if e.cat.AuthorByURL(url) != nil {
		return fmt.Errorf("Author %s is already in the catalog.", url)
	}

	a.CustomURL = url
	e.cat.IndexAuthorURL(a)
	for _, m := range e.cat.Mods() {
		if m.AuthorID == id {
			m.AuthorURL = url
		}
	}
	e.led.UpdatedAuthor(a.Key(), a.Label(), "custom URL added")
	return nil
}

// SetLastSeen updates an author's last-active date.
func (e *Engine) SetLastSeen(ref command.AuthorRef, date time.Time) error {
	a, err := e.authorForEdit(ref)
	if err != nil {
		return err
	}
	if a.LastSeen.Equal(date) {
		return fmt.Errorf("Author %s already has this last seen date.", a.Key())
	}

	a.LastSeen = date
	e.led.UpdatedAuthor(a.Key(), a.Label(), "last seen changed")
	return nil
}

// SetRetired manually retires an author and pins the state.
func (e *Engine) SetRetired(ref command.AuthorRef) error {
	a, err := e.authorForEdit(ref)
	if err != nil {
		return err
	}
	if a.Retired && a.ExclusionRetired {
		return fmt.Errorf("Author %s is already retired.", a.Key())
	}

	if !a.Retired {
		e.led.UpdatedAuthor(a.Key(), a.Label(), "retired added")
	}
	a.Retired = true
	a.ExclusionRetired = true
	return nil
}

// RemoveRetired manually un-retires an author. The exclusion pins the
// non-retired state until the inactivity window naturally elapses.
func (e *Engine) RemoveRetired(ref command.AuthorRef) error {
	a, err := e.authorForEdit(ref)
	if err != nil {
		return err
	}
	if !a.Retired {
		return fmt.Errorf("Author %s is not retired.", a.Key())
	}

	a.Retired = false
	a.ExclusionRetired = true
	e.led.UpdatedAuthor(a.Key(), a.Label(), "retired removed")
	return nil
}

// UpdateAuthorRetirement re-derives the retired state of every author.
// Run once at session end, after both fact sources have finished.
//
// Rules, in priority order:
//  1. No remaining non-removed mods: retired, exclusion cleared (it no
//     longer guards anything).
//  2. Last activity older than the inactivity window: retired,
//     exclusion cleared (activity-based retirement has caught up with
//     any pinned value).
//  3. Exclusion present and window not elapsed: pinned value kept.
//  4. Otherwise: not retired.
func (e *Engine) UpdateAuthorRetirement() {
	threshold := e.now().AddDate(0, -e.inactivityMonths, 0)

	for _, a := range e.cat.Authors() {
		live := 0
		for _, m := range e.cat.ModsByAuthor(a) {
			if !m.HasStatus(catalog.StatusRemoved) {
				live++
			}
		}

		switch {
		case live == 0:
			if !a.Retired {
				e.led.UpdatedAuthor(a.Key(), a.Label(), "retired added")
			}
			a.Retired = true
			a.ExclusionRetired = false

		case a.LastSeen.Before(threshold):
			if !a.Retired {
				e.led.UpdatedAuthor(a.Key(), a.Label(), "retired added")
			}
			a.Retired = true
			a.ExclusionRetired = false

		case a.ExclusionRetired:
			// Pinned by a manual set_retired / remove_retired.

		default:
			if a.Retired {
				e.led.UpdatedAuthor(a.Key(), a.Label(), "retired removed")
			}
			a.Retired = false
		}
	}
}
