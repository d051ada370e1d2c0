package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/modcat/internal/command"
)

// Engine errors are short, user-visible diagnostic strings: they are
// echoed into the audit transcript next to the command line that
// caused them, so they read as sentences rather than Go-style
// lowercase errors.

var (
	errMissingModID  = errors.New("Missing or invalid mod ID.")
	errMissingAuthor = errors.New("Missing or invalid author ID or custom URL.")
)

func errModNotFound(id uint64) error {
	return fmt.Errorf("Mod %d not found in the catalog.", id)
}

func errAuthorNotFound(ref command.AuthorRef) error {
	if ref.ID != 0 {
		return fmt.Errorf("Author %d not found in the catalog.", ref.ID)
	}
	return fmt.Errorf("Author %s not found in the catalog.", ref.URL)
}

func errGroupNotFound(id uint64) error {
	return fmt.Errorf("Group %d not found in the catalog.", id)
}
