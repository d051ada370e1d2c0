// Package store persists catalog snapshots in SQLite.
//
// The database holds exactly one snapshot. Load materializes it into
// an in-memory catalog at session start; Save atomically replaces it
// at session end. All intra-session mutation happens in memory, so the
// store never sees partial edits.
//
// Enumerations are stored as their command-language tokens rather than
// numeric values, keeping snapshots readable with plain sqlite3 and
// stable across reorderings of the Go constants.
package store
