package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/modcat/internal/catalog"
)

// Delimiter separates fields on a command line.
const Delimiter = ","

// CommentMarker starts a comment line (or a trailing comment where a
// free-text field would otherwise begin).
const CommentMarker = "#"

// Parse error codes (E200-E299).
const (
	ErrUnknownVerb        = "E201" // verb not in the command table
	ErrTooFewFields       = "E202" // line shorter than the verb's minimum
	ErrInvalidStatus      = "E203" // unknown status token
	ErrInvalidStability   = "E204" // unknown stability token
	ErrPlatformStatus     = "E205" // platform-only status used manually
	ErrInvalidCompat      = "E206" // unknown compatibility status token
	ErrInvalidDate        = "E207" // malformed date field
	ErrInvalidExclusion   = "E208" // unknown exclusion category
	ErrInvalidAddModState = "E209" // non-lifecycle status on add_mod
)

// ParseError is a structured parse failure. Error() returns only the
// human-readable message; the message is echoed into the audit
// transcript, so it stays short and free of internal codes. Code and
// Verb are for structured logging.
type ParseError struct {
	Code    string
	Verb    string
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Message
}

// minFields maps each verb to its minimum field count after the verb.
var minFields = map[string]int{
	"add_mod":                  5,
	"remove_mod":               1,
	"set_stability":            2,
	"set_sourceurl":            2,
	"remove_sourceurl":         1,
	"set_gameversion":          2,
	"remove_gameversion":       1,
	"set_modnote":              2,
	"remove_modnote":           1,
	"add_status":               2,
	"remove_status":            2,
	"add_requireddlc":          2,
	"remove_requireddlc":       2,
	"add_requiredmod":          2,
	"remove_requiredmod":       2,
	"add_successor":            2,
	"remove_successor":         2,
	"add_alternative":          2,
	"remove_alternative":       2,
	"add_recommendation":       2,
	"remove_recommendation":    2,
	"remove_exclusion":         2,
	"add_compatibility":        3,
	"remove_compatibility":     3,
	"add_compatibilitiesforone": 3,
	"add_compatibilitiesforall": 3,
	"add_group":                3,
	"remove_group":             1,
	"add_groupmember":          2,
	"remove_groupmember":       2,
	"add_author":               2,
	"merge_author":             2,
	"set_authorid":             2,
	"set_authorurl":            2,
	"set_lastseen":             2,
	"set_retired":              1,
	"remove_retired":           1,
	"set_cataloggameversion":   1,
	"set_catalognote":          1,
	"set_catalogheadertext":    1,
	"set_catalogfootertext":    1,
	"remove_catalognote":       0,
	"remove_catalogheadertext": 0,
	"remove_catalogfootertext": 0,
	"add_suppressedwarning":    1,
	"remove_suppressedwarning": 1,
}

// Parse turns one command line into a typed operation.
//
// Blank lines and lines starting with the comment marker return
// (nil, nil): they are skipped, not errors. Fields are split on the
// delimiter and trimmed; the last free-text field of a verb is
// rejoined with ", " so names and notes may contain the delimiter.
// Numeric fields that fail to parse become zero; the engine treats
// zero as "absent" for optional fields and as an error for mandatory
// id fields.
func Parse(line string) (Operation, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, CommentMarker) {
		return nil, nil
	}

	parts := strings.Split(trimmed, Delimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	verb := strings.ToLower(parts[0])
	args := parts[1:]

	min, known := minFields[verb]
	if !known {
		return nil, &ParseError{Code: ErrUnknownVerb, Verb: verb,
			Message: fmt.Sprintf("Unknown command %q.", verb)}
	}
	// Trailing empty fields (a line ending in the delimiter) still
	// count, so "add_compatibility, 10, 20, MajorIssues," parses and
	// the engine reports the missing note.
	if len(args) < min {
		return nil, &ParseError{Code: ErrTooFewFields, Verb: verb,
			Message: "Not enough parameters."}
	}

	return buildOperation(verb, args)
}

func buildOperation(verb string, args []string) (Operation, error) {
	switch verb {
	case "add_mod":
		status, err := addModStatus(verb, args[1])
		if err != nil {
			return nil, err
		}
		return AddMod{
			ModID:     parseID(args[0]),
			Status:    status,
			AuthorID:  parseID(args[2]),
			AuthorURL: args[3],
			Name:      textFrom(args, 4),
		}, nil

	case "remove_mod":
		return RemoveMod{ModID: parseID(args[0])}, nil

	case "set_stability":
		stab, ok := catalog.ParseStability(args[1])
		if !ok {
			return nil, &ParseError{Code: ErrInvalidStability, Verb: verb,
				Message: fmt.Sprintf("Invalid stability %q.", args[1])}
		}
		return SetStability{ModID: parseID(args[0]), Stability: stab, Note: textFrom(args, 2)}, nil

	case "set_sourceurl":
		return SetSourceURL{ModID: parseID(args[0]), URL: ptr(args[1])}, nil
	case "remove_sourceurl":
		return SetSourceURL{ModID: parseID(args[0]), URL: ptr("")}, nil

	case "set_gameversion":
		return SetGameVersion{ModID: parseID(args[0]), Version: ptr(args[1])}, nil
	case "remove_gameversion":
		return SetGameVersion{ModID: parseID(args[0]), Version: ptr("")}, nil

	case "set_modnote":
		return SetModNote{ModID: parseID(args[0]), Note: ptr(textFrom(args, 1))}, nil
	case "remove_modnote":
		return SetModNote{ModID: parseID(args[0]), Note: ptr("")}, nil

	case "add_status", "remove_status":
		status, ok := catalog.ParseStatus(args[1])
		if !ok {
			return nil, &ParseError{Code: ErrInvalidStatus, Verb: verb,
				Message: fmt.Sprintf("Invalid status %q.", args[1])}
		}
		if status.PlatformOnly() {
			action := "added"
			if verb == "remove_status" {
				action = "removed"
			}
			return nil, &ParseError{Code: ErrPlatformStatus, Verb: verb,
				Message: fmt.Sprintf("This status cannot be manually %s.", action)}
		}
		if verb == "add_status" {
			return AddStatus{ModID: parseID(args[0]), Status: status}, nil
		}
		return RemoveStatus{ModID: parseID(args[0]), Status: status}, nil

	case "add_requireddlc":
		return AddRequiredDLC{ModID: parseID(args[0]), DLC: strings.ToLower(args[1])}, nil
	case "remove_requireddlc":
		return RemoveRequiredDLC{ModID: parseID(args[0]), DLC: strings.ToLower(args[1])}, nil

	case "add_requiredmod":
		return AddLink{ModID: parseID(args[0]), TargetID: parseID(args[1]), Kind: catalog.LinkRequired}, nil
	case "remove_requiredmod":
		return RemoveLink{ModID: parseID(args[0]), TargetID: parseID(args[1]), Kind: catalog.LinkRequired}, nil
	case "add_successor":
		return AddLink{ModID: parseID(args[0]), TargetID: parseID(args[1]), Kind: catalog.LinkSuccessor}, nil
	case "remove_successor":
		return RemoveLink{ModID: parseID(args[0]), TargetID: parseID(args[1]), Kind: catalog.LinkSuccessor}, nil
	case "add_alternative":
		return AddLink{ModID: parseID(args[0]), TargetID: parseID(args[1]), Kind: catalog.LinkAlternative}, nil
	case "remove_alternative":
		return RemoveLink{ModID: parseID(args[0]), TargetID: parseID(args[1]), Kind: catalog.LinkAlternative}, nil
	case "add_recommendation":
		return AddLink{ModID: parseID(args[0]), TargetID: parseID(args[1]), Kind: catalog.LinkRecommendation}, nil
	case "remove_recommendation":
		return RemoveLink{ModID: parseID(args[0]), TargetID: parseID(args[1]), Kind: catalog.LinkRecommendation}, nil

	case "remove_exclusion":
		category := strings.ToLower(args[1])
		switch category {
		case "sourceurl", "gameversion", "nodescription", "requireddlc", "requiredmod":
		default:
			return nil, &ParseError{Code: ErrInvalidExclusion, Verb: verb,
				Message: fmt.Sprintf("Invalid exclusion category %q.", args[1])}
		}
		target := ""
		if len(args) > 2 {
			target = strings.ToLower(args[2])
		}
		return RemoveExclusion{ModID: parseID(args[0]), Category: category, Target: target}, nil

	case "add_compatibility":
		status, ok := catalog.ParseCompatibilityStatus(args[2])
		if !ok {
			return nil, &ParseError{Code: ErrInvalidCompat, Verb: verb,
				Message: fmt.Sprintf("Invalid compatibility status %q.", args[2])}
		}
		return AddCompatibility{
			FirstID:  parseID(args[0]),
			SecondID: parseID(args[1]),
			Status:   status,
			Note:     textFrom(args, 3),
		}, nil

	case "remove_compatibility":
		status, ok := catalog.ParseCompatibilityStatus(args[2])
		if !ok {
			return nil, &ParseError{Code: ErrInvalidCompat, Verb: verb,
				Message: fmt.Sprintf("Invalid compatibility status %q.", args[2])}
		}
		return RemoveCompatibility{FirstID: parseID(args[0]), SecondID: parseID(args[1]), Status: status}, nil

	case "add_compatibilitiesforone":
		status, ok := catalog.ParseCompatibilityStatus(args[1])
		if !ok {
			return nil, &ParseError{Code: ErrInvalidCompat, Verb: verb,
				Message: fmt.Sprintf("Invalid compatibility status %q.", args[1])}
		}
		return AddCompatibilitiesForOne{
			FirstID:  parseID(args[0]),
			Status:   status,
			OtherIDs: idList(args[2:]),
		}, nil

	case "add_compatibilitiesforall":
		status, ok := catalog.ParseCompatibilityStatus(args[0])
		if !ok {
			return nil, &ParseError{Code: ErrInvalidCompat, Verb: verb,
				Message: fmt.Sprintf("Invalid compatibility status %q.", args[0])}
		}
		return AddCompatibilitiesForAll{Status: status, ModIDs: idList(args[1:])}, nil

	case "add_group":
		return AddGroup{Name: args[0], Members: idList(args[1:])}, nil
	case "remove_group":
		return RemoveGroup{GroupID: parseID(args[0])}, nil
	case "add_groupmember":
		return AddGroupMember{GroupID: parseID(args[0]), ModID: parseID(args[1])}, nil
	case "remove_groupmember":
		return RemoveGroupMember{GroupID: parseID(args[0]), ModID: parseID(args[1])}, nil

	case "add_author":
		return AddAuthor{Author: authorRef(args[0]), Name: textFrom(args, 1)}, nil

	case "merge_author":
		return MergeAuthor{AuthorID: parseID(args[0]), AuthorURL: args[1]}, nil

	case "set_authorid":
		return SetAuthorID{AuthorURL: args[0], NewID: parseID(args[1])}, nil
	case "set_authorurl":
		return SetAuthorURL{AuthorID: parseID(args[0]), URL: args[1]}, nil

	case "set_lastseen":
		date, err := time.Parse("2006-01-02", args[1])
		if err != nil {
			return nil, &ParseError{Code: ErrInvalidDate, Verb: verb,
				Message: fmt.Sprintf("Invalid date %q; expected yyyy-mm-dd.", args[1])}
		}
		return SetLastSeen{Author: authorRef(args[0]), Date: date}, nil

	case "set_retired":
		return SetRetired{Author: authorRef(args[0])}, nil
	case "remove_retired":
		return RemoveRetired{Author: authorRef(args[0])}, nil

	case "set_cataloggameversion":
		return SetCatalogGameVersion{Version: args[0]}, nil

	case "set_catalognote":
		return SetCatalogText{Field: CatalogNote, Text: textFrom(args, 0)}, nil
	case "set_catalogheadertext":
		return SetCatalogText{Field: CatalogHeaderText, Text: textFrom(args, 0)}, nil
	case "set_catalogfootertext":
		return SetCatalogText{Field: CatalogFooterText, Text: textFrom(args, 0)}, nil
	case "remove_catalognote":
		return RemoveCatalogText{Field: CatalogNote}, nil
	case "remove_catalogheadertext":
		return RemoveCatalogText{Field: CatalogHeaderText}, nil
	case "remove_catalogfootertext":
		return RemoveCatalogText{Field: CatalogFooterText}, nil

	case "add_suppressedwarning":
		return AddSuppressedWarning{ModID: parseID(args[0])}, nil
	case "remove_suppressedwarning":
		return RemoveSuppressedWarning{ModID: parseID(args[0])}, nil
	}

	// Unreachable: every verb in minFields is handled above.
	return nil, &ParseError{Code: ErrUnknownVerb, Verb: verb,
		Message: fmt.Sprintf("Unknown command %q.", verb)}
}

// parseID parses a numeric id, returning zero on failure.
func parseID(field string) uint64 {
	id, err := strconv.ParseUint(field, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// idList parses a list of numeric ids. Unparsable fields become zero
// and are rejected by the engine's existence checks.
func idList(fields []string) []uint64 {
	out := make([]uint64, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		out = append(out, parseID(f))
	}
	return out
}

// authorRef parses a field as a numeric id when possible, otherwise
// treats it as a custom URL.
func authorRef(field string) AuthorRef {
	if id := parseID(field); id != 0 {
		return AuthorRef{ID: id}
	}
	return AuthorRef{URL: field}
}

// textFrom rejoins the fields from index i with the delimiter, so
// free-text fields (names, notes) may contain embedded delimiters.
// A rejoined text beginning with the comment marker is a trailing
// comment and yields an empty field.
func textFrom(args []string, i int) string {
	if i >= len(args) {
		return ""
	}
	text := strings.Join(args[i:], Delimiter+" ")
	if strings.HasPrefix(text, CommentMarker) {
		return ""
	}
	return strings.TrimSpace(text)
}

// addModStatus validates the optional lifecycle status on add_mod.
// Only the platform lifecycle flags are valid here: a newly scraped
// item is either listed, unlisted, or already removed. The short
// tokens "unlisted" and "removed" are accepted alongside the full
// status tokens.
func addModStatus(verb, field string) (*catalog.Status, error) {
	if field == "" {
		return nil, nil
	}
	var status catalog.Status
	switch strings.ToLower(field) {
	case "unlisted":
		status = catalog.StatusUnlisted
	case "removed":
		status = catalog.StatusRemoved
	default:
		parsed, ok := catalog.ParseStatus(field)
		if !ok || !parsed.PlatformOnly() {
			return nil, &ParseError{Code: ErrInvalidAddModState, Verb: verb,
				Message: fmt.Sprintf("Only the unlisted or removed status can be set when adding a mod, not %q.", field)}
		}
		status = parsed
	}
	return &status, nil
}

func ptr(s string) *string {
	return &s
}
