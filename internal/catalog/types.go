package catalog

import "strings"

// Stability classifies how usable a mod currently is. The values are
// ordered from least to most severe; comparisons on the numeric value
// are meaningful (Broken > MinorIssues).
type Stability int

const (
	StabilityNotReviewed Stability = iota + 1
	StabilityStable
	StabilityNotEnoughInformation
	StabilityMinorIssues
	StabilityMajorIssues
	StabilityBroken
	StabilityIncompatibleByWorkshop
)

var stabilityTokens = map[string]Stability{
	"notreviewed":              StabilityNotReviewed,
	"stable":                   StabilityStable,
	"notenoughinformation":     StabilityNotEnoughInformation,
	"minorissues":              StabilityMinorIssues,
	"majorissues":              StabilityMajorIssues,
	"broken":                   StabilityBroken,
	"incompatibleaccordingtoworkshop": StabilityIncompatibleByWorkshop,
}

// ParseStability resolves a command-language stability token.
// Tokens are matched case-insensitively. Returns false for unknown tokens.
func ParseStability(token string) (Stability, bool) {
	s, ok := stabilityTokens[strings.ToLower(strings.TrimSpace(token))]
	return s, ok
}

// String returns the command-language token for the stability.
func (s Stability) String() string {
	for token, val := range stabilityTokens {
		if val == s {
			return token
		}
	}
	return "unknown"
}

// Status is a flag on a mod. Statuses are grouped into mutually
// exclusive families (see Family): adding one member of a family
// removes the others.
type Status int

const (
	// Lifecycle family - reported by the platform, never set manually.
	StatusUnlisted Status = iota + 1
	StatusRemoved

	// No-longer-needed family.
	StatusAbandoned
	StatusDeprecated
	StatusObsolete

	// Music licensing family.
	StatusMusicCopyrighted
	StatusMusicFree
	StatusMusicUnknown

	// Standalone flags.
	StatusNoDescription
	StatusNoCommentSection
	StatusBreaksEditors
	StatusTestVersion
	StatusDependencyMod
	StatusSourceBundled
	StatusSourceObfuscated
	StatusWorksWhenDisabled
)

var statusTokens = map[string]Status{
	"unlistedinworkshop":  StatusUnlisted,
	"removedfromworkshop": StatusRemoved,
	"abandoned":           StatusAbandoned,
	"deprecated":          StatusDeprecated,
	"obsolete":            StatusObsolete,
	"musiccopyrighted":    StatusMusicCopyrighted,
	"musicfree":           StatusMusicFree,
	"musicunknown":        StatusMusicUnknown,
	"nodescription":       StatusNoDescription,
	"nocommentsection":    StatusNoCommentSection,
	"breakseditors":       StatusBreaksEditors,
	"testversion":         StatusTestVersion,
	"dependencymod":       StatusDependencyMod,
	"sourcebundled":       StatusSourceBundled,
	"sourceobfuscated":    StatusSourceObfuscated,
	"workswhendisabled":   StatusWorksWhenDisabled,
}

// ParseStatus resolves a command-language status token.
// Tokens are matched case-insensitively. Returns false for unknown tokens.
func ParseStatus(token string) (Status, bool) {
	s, ok := statusTokens[strings.ToLower(strings.TrimSpace(token))]
	return s, ok
}

// String returns the command-language token for the status.
func (s Status) String() string {
	for token, val := range statusTokens {
		if val == s {
			return token
		}
	}
	return "unknown"
}

// statusFamilies lists the mutually exclusive status families.
// Statuses not listed here are standalone flags.
var statusFamilies = [][]Status{
	{StatusUnlisted, StatusRemoved},
	{StatusAbandoned, StatusDeprecated, StatusObsolete},
	{StatusMusicCopyrighted, StatusMusicFree, StatusMusicUnknown},
}

// Family returns the other members of s's mutually exclusive family,
// or nil if s is a standalone flag.
func (s Status) Family() []Status {
	for _, family := range statusFamilies {
		for _, member := range family {
			if member == s {
				others := make([]Status, 0, len(family)-1)
				for _, other := range family {
					if other != s {
						others = append(others, other)
					}
				}
				return others
			}
		}
	}
	return nil
}

// PlatformOnly reports whether the status is maintained by the
// automated fact source and may not be added or removed manually.
func (s Status) PlatformOnly() bool {
	return s == StatusUnlisted || s == StatusRemoved
}

// LinkKind identifies one of the four mutually exclusive relationship
// sets a mod keeps toward other mods.
type LinkKind int

const (
	LinkRequired LinkKind = iota + 1
	LinkSuccessor
	LinkAlternative
	LinkRecommendation
)

// linkKinds is the fixed iteration order over all link kinds.
var linkKinds = []LinkKind{LinkRequired, LinkSuccessor, LinkAlternative, LinkRecommendation}

// String returns a human-readable name used in change notes.
func (k LinkKind) String() string {
	switch k {
	case LinkRequired:
		return "required mod"
	case LinkSuccessor:
		return "successor"
	case LinkAlternative:
		return "alternative"
	case LinkRecommendation:
		return "recommendation"
	default:
		return "unknown link"
	}
}

// CompatibilityStatus classifies a compatibility record between an
// ordered pair of mods.
type CompatibilityStatus int

const (
	CompatNewerVersion CompatibilityStatus = iota + 1
	CompatFunctionalityCovered
	CompatSameModDifferentReleaseType
	CompatSameFunctionality
	CompatIncompatibleByAuthor
	CompatIncompatibleByUsers
	CompatCompatibleByAuthor
	CompatMinorIssues
	CompatMajorIssues
	CompatRequiresSpecificSettings
)

var compatibilityTokens = map[string]CompatibilityStatus{
	"newerversion":                  CompatNewerVersion,
	"functionalitycovered":          CompatFunctionalityCovered,
	"samemoddifferentreleasetype":   CompatSameModDifferentReleaseType,
	"samefunctionality":             CompatSameFunctionality,
	"incompatibleaccordingtoauthor": CompatIncompatibleByAuthor,
	"incompatibleaccordingtousers":  CompatIncompatibleByUsers,
	"compatibleaccordingtoauthor":   CompatCompatibleByAuthor,
	"minorissues":                   CompatMinorIssues,
	"majorissues":                   CompatMajorIssues,
	"requiresspecificsettings":      CompatRequiresSpecificSettings,
}

// ParseCompatibilityStatus resolves a command-language compatibility
// status token. Tokens are matched case-insensitively.
func ParseCompatibilityStatus(token string) (CompatibilityStatus, bool) {
	s, ok := compatibilityTokens[strings.ToLower(strings.TrimSpace(token))]
	return s, ok
}

// String returns the command-language token for the status.
func (s CompatibilityStatus) String() string {
	for token, val := range compatibilityTokens {
		if val == s {
			return token
		}
	}
	return "unknown"
}

// RequiresNote reports whether a compatibility with this status must
// carry an explanatory note.
func (s CompatibilityStatus) RequiresNote() bool {
	switch s {
	case CompatMinorIssues, CompatMajorIssues, CompatRequiresSpecificSettings:
		return true
	default:
		return false
	}
}

// Verdict reports whether the status asserts an overall verdict about
// the pair. Two verdict statuses conflict on the same ordered pair;
// non-verdict statuses (issue annotations) may coexist with a verdict
// and with each other.
func (s CompatibilityStatus) Verdict() bool {
	switch s {
	case CompatMinorIssues, CompatMajorIssues, CompatRequiresSpecificSettings:
		return false
	default:
		return true
	}
}
