package catalog

// Compatibility is a directed, status-classified relationship between
// an ordered pair of mods. The note is mandatory for statuses whose
// RequiresNote reports true.
type Compatibility struct {
	FirstID  uint64
	SecondID uint64
	Status   CompatibilityStatus
	Note     string
}

// Matches reports whether the record carries the exact
// (first, second, status) triple.
func (c *Compatibility) Matches(first, second uint64, status CompatibilityStatus) bool {
	return c.FirstID == first && c.SecondID == second && c.Status == status
}

// Mirrors reports whether the record is the same status on the swapped
// pair. A mirrored record is treated as a duplicate.
func (c *Compatibility) Mirrors(first, second uint64, status CompatibilityStatus) bool {
	return c.FirstID == second && c.SecondID == first && c.Status == status
}

// SamePair reports whether the record covers the same pair of mods in
// either order.
func (c *Compatibility) SamePair(first, second uint64) bool {
	return (c.FirstID == first && c.SecondID == second) ||
		(c.FirstID == second && c.SecondID == first)
}
