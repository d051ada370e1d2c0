package engine

import (
	"fmt"

	"github.com/roach88/modcat/internal/catalog"
)

func compatLabel(first, second uint64, status catalog.CompatibilityStatus) string {
	return fmt.Sprintf("mods %d and %d: %s", first, second, status)
}

// validateCompatibility checks every precondition for a new record
// without mutating anything, so bulk additions can validate all pairs
// before applying any.
func (e *Engine) validateCompatibility(first, second uint64, status catalog.CompatibilityStatus, note string) error {
	if first == 0 || second == 0 {
		return errMissingModID
	}
	if first == second {
		return fmt.Errorf("A mod cannot have a compatibility with itself.")
	}
	if e.cat.Mod(first) == nil {
		return errModNotFound(first)
	}
	if e.cat.Mod(second) == nil {
		return errModNotFound(second)
	}
	if status.RequiresNote() && note == "" {
		return fmt.Errorf("A note is mandatory for this compatibility.")
	}

	for _, existing := range e.cat.CompatibilitiesBetween(first, second) {
		if existing.Matches(first, second, status) {
			return fmt.Errorf("This compatibility already exists.")
		}
		if existing.Mirrors(first, second, status) {
			return fmt.Errorf("This compatibility already exists with the mods swapped.")
		}
		if status.Verdict() && existing.Status.Verdict() {
			return fmt.Errorf("This conflicts with the existing %s compatibility.", existing.Status)
		}
	}
	return nil
}

// AddCompatibility records a status between an ordered pair of mods.
// Statuses that assert a verdict conflict with any other verdict on
// the same pair; issue annotations coexist freely.
func (e *Engine) AddCompatibility(first, second uint64, status catalog.CompatibilityStatus, note string) error {
	if err := e.validateCompatibility(first, second, status, note); err != nil {
		return err
	}

	e.cat.AddCompatibility(&catalog.Compatibility{
		FirstID:  first,
		SecondID: second,
		Status:   status,
		Note:     note,
	})
	e.led.AddedCompatibility(compatLabel(first, second, status))
	return nil
}

// RemoveCompatibility deletes the record with the exact triple.
func (e *Engine) RemoveCompatibility(first, second uint64, status catalog.CompatibilityStatus) error {
	if first == 0 || second == 0 {
		return errMissingModID
	}
	if !e.cat.RemoveCompatibility(first, second, status) {
		return fmt.Errorf("This compatibility does not exist.")
	}
	e.led.RemovedCompatibility(compatLabel(first, second, status))
	return nil
}

// AddCompatibilitiesForOne records (first, other) pairs for every
// listed id, all with the same status. The whole batch validates
// before any record is written; one bad pair rejects the line.
func (e *Engine) AddCompatibilitiesForOne(first uint64, status catalog.CompatibilityStatus, others []uint64) error {
	if status.RequiresNote() {
		return fmt.Errorf("This status needs a note and cannot be used in a bulk command.")
	}
	others = dedupeIDs(others)
	if len(others) == 0 {
		return fmt.Errorf("Not enough parameters.")
	}
	for _, other := range others {
		if err := e.validateCompatibility(first, other, status, ""); err != nil {
			return err
		}
	}

	for _, other := range others {
		e.cat.AddCompatibility(&catalog.Compatibility{FirstID: first, SecondID: other, Status: status})
		e.led.AddedCompatibility(compatLabel(first, other, status))
	}
	return nil
}

// dedupeIDs drops repeated ids, preserving first-seen order.
func dedupeIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// AddCompatibilitiesForAll records every unordered pair among the
// listed ids with the same status.
func (e *Engine) AddCompatibilitiesForAll(status catalog.CompatibilityStatus, ids []uint64) error {
	if status.RequiresNote() {
		return fmt.Errorf("This status needs a note and cannot be used in a bulk command.")
	}
	ids = dedupeIDs(ids)
	if len(ids) < 2 {
		return fmt.Errorf("Not enough parameters.")
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if err := e.validateCompatibility(ids[i], ids[j], status, ""); err != nil {
				return err
			}
		}
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			e.cat.AddCompatibility(&catalog.Compatibility{FirstID: ids[i], SecondID: ids[j], Status: status})
			e.led.AddedCompatibility(compatLabel(ids[i], ids[j], status))
		}
	}
	return nil
}
