// Package engine implements the catalog mutation engine.
//
// The engine is the single place where catalog edits are validated and
// applied. Two fact sources drive it: the command-file importer
// (manual curation) and the workshop crawler (automated facts). Both
// go through the same entry points; an Origin parameter tells the
// engine which rules apply.
//
// ARCHITECTURE:
//
// Validate-then-apply:
// Every operation validates all of its preconditions before touching
// the store. A failed validation returns an error and leaves the
// catalog unchanged. There is no interleaving of checks and writes,
// and nothing is ever rolled back.
//
// Exclusions:
// A manual edit to an overridable field sets an exclusion flag on that
// field. Automated updates consult the flag and silently skip the
// field unless the new value is a strict improvement (currently only
// a numerically higher game version qualifies). Manually undoing a
// manual edit clears the exclusion; manually undoing an automated fact
// sets one, so the crawler cannot silently reinstate it.
//
// The engine is synchronous and single-threaded. Exactly one operation
// is applied at a time and the engine never blocks; cancellation and
// progress reporting live in the importer, not here.
package engine
