package engine

import (
	"fmt"
	"time"

	"github.com/roach88/modcat/internal/catalog"
	"github.com/roach88/modcat/internal/command"
	"github.com/roach88/modcat/internal/ledger"
)

// Origin identifies the fact source driving an edit. Manual edits set
// exclusion flags; automated edits respect them.
type Origin int

const (
	// OriginImporter marks edits from the command-file importer.
	OriginImporter Origin = iota + 1
	// OriginCrawler marks edits from the automated workshop crawler.
	OriginCrawler
)

// DefaultInactivityMonths is the window after which an author with no
// activity is derived as retired.
const DefaultInactivityMonths = 12

// Engine applies validated edits to a catalog and records every
// transition in the session ledger.
//
// The engine holds the catalog and ledger for exactly one session and
// keeps no entity copies of its own; all state lives in the catalog.
type Engine struct {
	cat *catalog.Catalog
	led *ledger.Ledger

	now              func() time.Time
	inactivityMonths int
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow overrides the engine's time source. Used by tests and by
// replayed sessions that must evaluate retirement against a fixed
// point in time.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithInactivityMonths sets the author inactivity window.
func WithInactivityMonths(months int) Option {
	return func(e *Engine) {
		e.inactivityMonths = months
	}
}

// New creates an engine bound to one catalog and one session ledger.
func New(cat *catalog.Catalog, led *ledger.Ledger, opts ...Option) *Engine {
	e := &Engine{
		cat:              cat,
		led:              led,
		now:              time.Now,
		inactivityMonths: DefaultInactivityMonths,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine mutates.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Ledger returns the session ledger.
func (e *Engine) Ledger() *ledger.Ledger {
	return e.led
}

// Apply executes one parsed command operation. All operations arriving
// through the command language are manual edits (OriginImporter).
//
// The switch is exhaustive over the command.Operation union; adding a
// variant without a case here fails the parser round-trip tests.
func (e *Engine) Apply(op command.Operation) error {
	switch op := op.(type) {
	case command.AddMod:
		return e.AddMod(OriginImporter, op.ModID, op.Status, op.AuthorID, op.AuthorURL, op.Name)
	case command.RemoveMod:
		return e.RemoveMod(op.ModID)
	case command.SetStability:
		return e.SetStability(op.ModID, op.Stability, op.Note)
	case command.SetSourceURL:
		return e.SetSourceURL(OriginImporter, op.ModID, op.URL)
	case command.SetGameVersion:
		return e.SetGameVersion(OriginImporter, op.ModID, op.Version)
	case command.SetModNote:
		return e.SetModNote(op.ModID, op.Note)
	case command.AddStatus:
		return e.AddStatus(OriginImporter, op.ModID, op.Status)
	case command.RemoveStatus:
		return e.RemoveStatus(OriginImporter, op.ModID, op.Status)
	case command.AddRequiredDLC:
		return e.AddRequiredDLC(OriginImporter, op.ModID, op.DLC)
	case command.RemoveRequiredDLC:
		return e.RemoveRequiredDLC(OriginImporter, op.ModID, op.DLC)
	case command.AddLink:
		return e.AddLink(OriginImporter, op.ModID, op.TargetID, op.Kind)
	case command.RemoveLink:
		return e.RemoveLink(OriginImporter, op.ModID, op.TargetID, op.Kind)
	case command.RemoveExclusion:
		return e.RemoveExclusion(op.ModID, op.Category, op.Target)
	case command.AddCompatibility:
		return e.AddCompatibility(op.FirstID, op.SecondID, op.Status, op.Note)
	case command.RemoveCompatibility:
		return e.RemoveCompatibility(op.FirstID, op.SecondID, op.Status)
	case command.AddCompatibilitiesForOne:
		return e.AddCompatibilitiesForOne(op.FirstID, op.Status, op.OtherIDs)
	case command.AddCompatibilitiesForAll:
		return e.AddCompatibilitiesForAll(op.Status, op.ModIDs)
	case command.AddGroup:
		return e.AddGroup(op.Name, op.Members)
	case command.RemoveGroup:
		return e.RemoveGroup(op.GroupID)
	case command.AddGroupMember:
		return e.AddGroupMember(op.GroupID, op.ModID)
	case command.RemoveGroupMember:
		return e.RemoveGroupMember(op.GroupID, op.ModID)
	case command.AddAuthor:
		return e.AddAuthor(op.Author, op.Name)
	case command.MergeAuthor:
		return e.MergeAuthor(op.AuthorID, op.AuthorURL)
	case command.SetAuthorID:
		return e.SetAuthorID(op.AuthorURL, op.NewID)
	case command.SetAuthorURL:
		return e.SetAuthorURL(op.AuthorID, op.URL)
	case command.SetLastSeen:
		return e.SetLastSeen(op.Author, op.Date)
	case command.SetRetired:
		return e.SetRetired(op.Author)
	case command.RemoveRetired:
		return e.RemoveRetired(op.Author)
	case command.SetCatalogGameVersion:
		return e.SetCatalogGameVersion(op.Version)
	case command.SetCatalogText:
		return e.SetCatalogText(op.Field, op.Text)
	case command.RemoveCatalogText:
		return e.RemoveCatalogText(op.Field)
	case command.AddSuppressedWarning:
		return e.AddSuppressedWarning(op.ModID)
	case command.RemoveSuppressedWarning:
		return e.RemoveSuppressedWarning(op.ModID)
	default:
		return fmt.Errorf("unhandled operation type %T", op)
	}
}

// modForEdit resolves a mod by mandatory id.
func (e *Engine) modForEdit(id uint64) (*catalog.Mod, error) {
	if id == 0 {
		return nil, errMissingModID
	}
	m := e.cat.Mod(id)
	if m == nil {
		return nil, errModNotFound(id)
	}
	return m, nil
}

// authorForEdit resolves an author by command-line reference.
func (e *Engine) authorForEdit(ref command.AuthorRef) (*catalog.Author, error) {
	if ref.ID == 0 && ref.URL == "" {
		return nil, errMissingAuthor
	}
	a := e.cat.FindAuthor(ref.ID, ref.URL)
	if a == nil {
		return nil, errAuthorNotFound(ref)
	}
	return a, nil
}
