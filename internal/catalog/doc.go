// Package catalog holds the in-memory catalog graph: mods, authors,
// groups, and compatibility records, plus the lookup indexes over them.
//
// The package is pure data. It performs no I/O and knows nothing about
// the command language, the crawler, or persistence. Invariants that
// span a single entity (relationship-set exclusivity, status-family
// exclusivity) are enforced here so every caller goes through one
// code path; invariants that span entities (group cascade, removal
// reference checks) are enforced by the engine on top of the
// accessors this package provides.
//
// INVARIANTS:
//   - A target id appears in at most one of a mod's four link sets
//     (required / successor / alternative / recommendation).
//   - A mod's status set holds at most one member per status family.
//   - A mod id belongs to at most one group.
//   - Author lookup resolves by numeric id first, then by custom URL.
package catalog
