package command

import (
	"time"

	"github.com/roach88/modcat/internal/catalog"
)

// Operation is the closed union of typed catalog edits produced by the
// parser. The engine matches the variants exhaustively; no string
// dispatch happens past this point.
//
// Optional scalar fields use pointers: nil means "not supplied",
// a pointer to the zero value means "explicitly cleared". Dedicated
// remove_* verbs produce the pointer-to-zero form.
type Operation interface {
	isOperation()
}

// AuthorRef identifies an author by exactly one of numeric id or
// custom URL, matching how a command line spells it.
type AuthorRef struct {
	ID  uint64
	URL string
}

// CatalogTextField selects one of the catalog-wide free-text fields.
type CatalogTextField int

const (
	CatalogNote CatalogTextField = iota + 1
	CatalogHeaderText
	CatalogFooterText
)

// AddMod creates a new catalog item. Status is limited to the
// platform-reported lifecycle flags (unlisted / removed) or nil.
type AddMod struct {
	ModID     uint64
	Status    *catalog.Status
	AuthorID  uint64
	AuthorURL string
	Name      string
}

// RemoveMod deletes an item that nothing else references.
type RemoveMod struct {
	ModID uint64
}

// SetStability classifies an item's stability with an optional note.
type SetStability struct {
	ModID     uint64
	Stability catalog.Stability
	Note      string
}

// SetSourceURL sets or clears the source-repository URL.
type SetSourceURL struct {
	ModID uint64
	URL   *string
}

// SetGameVersion sets or clears the compatible-version string.
type SetGameVersion struct {
	ModID   uint64
	Version *string
}

// SetModNote sets or clears the free-text general note.
type SetModNote struct {
	ModID uint64
	Note  *string
}

// AddStatus sets a status flag. Platform-only statuses are rejected by
// the parser before this variant is ever built.
type AddStatus struct {
	ModID  uint64
	Status catalog.Status
}

// RemoveStatus clears a status flag.
type RemoveStatus struct {
	ModID  uint64
	Status catalog.Status
}

// AddRequiredDLC marks a DLC as required.
type AddRequiredDLC struct {
	ModID uint64
	DLC   string
}

// RemoveRequiredDLC unmarks a required DLC.
type RemoveRequiredDLC struct {
	ModID uint64
	DLC   string
}

// AddLink adds a target to one of the four relationship sets.
type AddLink struct {
	ModID    uint64
	TargetID uint64
	Kind     catalog.LinkKind
}

// RemoveLink removes a target from one of the relationship sets.
type RemoveLink struct {
	ModID    uint64
	TargetID uint64
	Kind     catalog.LinkKind
}

// RemoveExclusion clears a manual-override flag on a mod field.
// Target carries the DLC token or required-mod id for per-target
// exclusions and is empty otherwise.
type RemoveExclusion struct {
	ModID    uint64
	Category string
	Target   string
}

// AddCompatibility records a status between an ordered pair.
type AddCompatibility struct {
	FirstID  uint64
	SecondID uint64
	Status   catalog.CompatibilityStatus
	Note     string
}

// RemoveCompatibility deletes the record with the exact triple.
type RemoveCompatibility struct {
	FirstID  uint64
	SecondID uint64
	Status   catalog.CompatibilityStatus
}

// AddCompatibilitiesForOne records (First, other) pairs for every
// listed other id, all with the same status.
type AddCompatibilitiesForOne struct {
	FirstID  uint64
	Status   catalog.CompatibilityStatus
	OtherIDs []uint64
}

// AddCompatibilitiesForAll records every unordered pair among the
// listed ids with the same status.
type AddCompatibilitiesForAll struct {
	Status catalog.CompatibilityStatus
	ModIDs []uint64
}

// AddGroup creates a group of interchangeable mods.
type AddGroup struct {
	Name    string
	Members []uint64
}

// RemoveGroup deletes a group.
type RemoveGroup struct {
	GroupID uint64
}

// AddGroupMember adds a mod to a group.
type AddGroupMember struct {
	GroupID uint64
	ModID   uint64
}

// RemoveGroupMember removes a mod from a group, cascading into group
// removal when fewer than two members would remain.
type RemoveGroupMember struct {
	GroupID uint64
	ModID   uint64
}

// AddAuthor creates an author identified by id or custom URL.
type AddAuthor struct {
	Author AuthorRef
	Name   string
}

// MergeAuthor combines an id-only author with a URL-only author.
type MergeAuthor struct {
	AuthorID  uint64
	AuthorURL string
}

// SetAuthorID assigns a numeric id to a URL-only author.
type SetAuthorID struct {
	AuthorURL string
	NewID     uint64
}

// SetAuthorURL assigns a custom URL to an id-only author.
type SetAuthorURL struct {
	AuthorID uint64
	URL      string
}

// SetLastSeen updates an author's last-active date.
type SetLastSeen struct {
	Author AuthorRef
	Date   time.Time
}

// SetRetired manually retires an author, pinning the state.
type SetRetired struct {
	Author AuthorRef
}

// RemoveRetired manually un-retires an author, pinning the state
// until the inactivity window naturally elapses.
type RemoveRetired struct {
	Author AuthorRef
}

// SetCatalogGameVersion raises the catalog's target game version.
type SetCatalogGameVersion struct {
	Version string
}

// SetCatalogText sets one of the catalog-wide free-text fields.
type SetCatalogText struct {
	Field CatalogTextField
	Text  string
}

// RemoveCatalogText clears one of the catalog-wide free-text fields.
type RemoveCatalogText struct {
	Field CatalogTextField
}

// AddSuppressedWarning suppresses reporter warnings for a mod id.
type AddSuppressedWarning struct {
	ModID uint64
}

// RemoveSuppressedWarning re-enables reporter warnings for a mod id.
type RemoveSuppressedWarning struct {
	ModID uint64
}

func (AddMod) isOperation()                   {}
func (RemoveMod) isOperation()                {}
func (SetStability) isOperation()             {}
func (SetSourceURL) isOperation()             {}
func (SetGameVersion) isOperation()           {}
func (SetModNote) isOperation()               {}
func (AddStatus) isOperation()                {}
func (RemoveStatus) isOperation()             {}
func (AddRequiredDLC) isOperation()           {}
func (RemoveRequiredDLC) isOperation()        {}
func (AddLink) isOperation()                  {}
func (RemoveLink) isOperation()               {}
func (RemoveExclusion) isOperation()          {}
func (AddCompatibility) isOperation()         {}
func (RemoveCompatibility) isOperation()      {}
func (AddCompatibilitiesForOne) isOperation() {}
func (AddCompatibilitiesForAll) isOperation() {}
func (AddGroup) isOperation()                 {}
func (RemoveGroup) isOperation()              {}
func (AddGroupMember) isOperation()           {}
func (RemoveGroupMember) isOperation()        {}
func (AddAuthor) isOperation()                {}
func (MergeAuthor) isOperation()              {}
func (SetAuthorID) isOperation()              {}
func (SetAuthorURL) isOperation()             {}
func (SetLastSeen) isOperation()              {}
func (SetRetired) isOperation()               {}
func (RemoveRetired) isOperation()            {}
func (SetCatalogGameVersion) isOperation()    {}
func (SetCatalogText) isOperation()           {}
func (RemoveCatalogText) isOperation()        {}
func (AddSuppressedWarning) isOperation()     {}
func (RemoveSuppressedWarning) isOperation()  {}
