package ledger

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func TestChange(t *testing.T) {
	assert.Equal(t, "note added", Change("note", "", "some text"))
	assert.Equal(t, "note removed", Change("note", "some text", ""))
	assert.Equal(t, "note changed", Change("note", "old", "new"))
}

func TestEmptyLedger(t *testing.T) {
	l := New()
	assert.True(t, l.Empty())

	l.Catalog("game version changed to 1.18")
	assert.False(t, l.Empty())
}

func TestUpdatedModFoldsIntoAddedEntry(t *testing.T) {
	l := New()
	l.AddedMod(10, "[10] Fresh Mod")
	l.UpdatedMod(10, "[10] Fresh Mod", "status abandoned added")

	report := l.Report()
	assert.Contains(t, report, "Added mods:")
	assert.Contains(t, report, "[10] Fresh Mod: status abandoned added")
	assert.NotContains(t, report, "Updated mods:", "a brand-new mod renders as one line")
}

func TestUpdatedModSeparateWhenNotAdded(t *testing.T) {
	l := New()
	l.UpdatedMod(10, "[10] Old Mod", "note changed")

	report := l.Report()
	assert.Contains(t, report, "Updated mods:")
	assert.NotContains(t, report, "Added mods:")
}

func TestFragmentDeduplication(t *testing.T) {
	l := New()
	l.UpdatedMod(10, "[10] Mod", "note changed")
	l.UpdatedMod(10, "[10] Mod", "note changed")
	l.UpdatedMod(10, "[10] Mod", "stability changed")

	report := l.Report()
	assert.Contains(t, report, "[10] Mod: note changed, stability changed")
}

func TestCatalogNoteDeduplication(t *testing.T) {
	l := New()
	l.Catalog("game version changed to 1.18")
	l.Catalog("game version changed to 1.18")

	report := l.Report()
	assert.Equal(t, "Catalog changes:\n  - game version changed to 1.18\n", report)
}

func TestEmptySectionsOmitted(t *testing.T) {
	l := New()
	l.AddedAuthor("77", "Jane")

	report := l.Report()
	assert.Contains(t, report, "Added authors:")
	assert.NotContains(t, report, "Added mods:")
	assert.NotContains(t, report, "Removed compatibilities:")
}

func TestReportGolden(t *testing.T) {
	l := New()
	l.Catalog("game version changed to 1.18")
	l.AddedMod(10, "[10] Network Extensions 3")
	l.UpdatedMod(10, "[10] Network Extensions 3", "source URL added")
	l.UpdatedMod(20, "[20] Traffic Manager", "stability changed")
	l.UpdatedMod(20, "[20] Traffic Manager", "required mod 10 added")
	l.RemovedMod(30, "[30] Legacy Roads")
	l.AddedAuthor("77", "Jane")
	l.UpdatedAuthor("88", "Alex", "retired added")
	l.AddedGroup(100000000, "[Group 100000000] terrain")
	l.AddedCompatibility("mods 10 and 20: samefunctionality")

	g := goldie.New(t)
	g.Assert(t, "report", []byte(l.Report()))
}
