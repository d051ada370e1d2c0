package catalog

import (
	"fmt"
	"time"
)

// Author is a catalog author. At creation an author is identified by
// exactly one of numeric id or custom URL; a merge combines an id-only
// record and a URL-only record into one record carrying both.
type Author struct {
	ID        uint64
	CustomURL string
	Name      string
	LastSeen  time.Time

	// Retired is derived from LastSeen and remaining mod count at
	// session end unless ExclusionRetired pins the manual value.
	Retired          bool
	ExclusionRetired bool
}

// NewAuthor creates an author identified by id, custom URL, or both.
func NewAuthor(id uint64, customURL, name string) *Author {
	return &Author{
		ID:        id,
		CustomURL: NormalizeKey(customURL),
		Name:      name,
	}
}

// Key returns a stable ledger key for the author: the numeric id when
// present, otherwise the custom URL.
func (a *Author) Key() string {
	if a.ID != 0 {
		return fmt.Sprintf("%d", a.ID)
	}
	return a.CustomURL
}

// Label returns a display string for change notes.
func (a *Author) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Key()
}
