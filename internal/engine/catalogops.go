package engine

import (
	"fmt"

	"github.com/roach88/modcat/internal/command"
	"github.com/roach88/modcat/internal/ledger"
)

func catalogTextName(field command.CatalogTextField) string {
	switch field {
	case command.CatalogNote:
		return "catalog note"
	case command.CatalogHeaderText:
		return "report header text"
	case command.CatalogFooterText:
		return "report footer text"
	default:
		return "catalog text"
	}
}

// SetCatalogGameVersion raises the catalog's target game version.
// The version only ever moves forward; a sideways or backwards change
// would silently invalidate every per-mod compatible-version claim.
func (e *Engine) SetCatalogGameVersion(version string) error {
	if version == "" {
		return fmt.Errorf("Missing game version.")
	}
	if e.cat.GameVersion == version {
		return fmt.Errorf("The catalog already has this game version.")
	}
	if e.cat.GameVersion != "" && CompareVersions(version, e.cat.GameVersion) <= 0 {
		return fmt.Errorf("The new game version must be higher than %s.", e.cat.GameVersion)
	}

	e.cat.GameVersion = version
	e.led.Catalog(fmt.Sprintf("game version changed to %s", version))
	return nil
}

// SetCatalogText sets one of the catalog-wide free-text fields.
func (e *Engine) SetCatalogText(field command.CatalogTextField, text string) error {
	if text == "" {
		return fmt.Errorf("Missing text.")
	}
	current, err := e.catalogTextRef(field)
	if err != nil {
		return err
	}
	if *current == text {
		return fmt.Errorf("The catalog already has this %s.", catalogTextName(field))
	}

	e.led.Catalog(ledger.Change(catalogTextName(field), *current, text))
	*current = text
	return nil
}

// RemoveCatalogText clears one of the catalog-wide free-text fields.
func (e *Engine) RemoveCatalogText(field command.CatalogTextField) error {
	current, err := e.catalogTextRef(field)
	if err != nil {
		return err
	}
	if *current == "" {
		return fmt.Errorf("The catalog does not have a %s.", catalogTextName(field))
	}

	*current = ""
	e.led.Catalog(catalogTextName(field) + " removed")
	return nil
}

func (e *Engine) catalogTextRef(field command.CatalogTextField) (*string, error) {
	switch field {
	case command.CatalogNote:
		return &e.cat.Note, nil
	case command.CatalogHeaderText:
		return &e.cat.HeaderText, nil
	case command.CatalogFooterText:
		return &e.cat.FooterText, nil
	default:
		return nil, fmt.Errorf("unknown catalog text field %d", field)
	}
}

// AddSuppressedWarning suppresses reporter warnings for a mod. The
// suppression list is re-applied every session from its dedicated
// command file, so entries are catalog-level notes rather than mod
// updates.
func (e *Engine) AddSuppressedWarning(id uint64) error {
	if _, err := e.modForEdit(id); err != nil {
		return err
	}
	if e.cat.SuppressedWarnings[id] {
		return fmt.Errorf("Warnings for mod %d are already suppressed.", id)
	}

	e.cat.SuppressedWarnings[id] = true
	e.led.Catalog(fmt.Sprintf("warnings suppressed for mod %d", id))
	return nil
}

// RemoveSuppressedWarning re-enables reporter warnings for a mod.
func (e *Engine) RemoveSuppressedWarning(id uint64) error {
	if id == 0 {
		return errMissingModID
	}
	if !e.cat.SuppressedWarnings[id] {
		return fmt.Errorf("Warnings for mod %d are not suppressed.", id)
	}

	delete(e.cat.SuppressedWarnings, id)
	e.led.Catalog(fmt.Sprintf("warning suppression removed for mod %d", id))
	return nil
}
