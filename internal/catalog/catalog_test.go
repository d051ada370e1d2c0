package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "SomeAuthor", "someauthor"},
		{"trims whitespace", "  someauthor  ", "someauthor"},
		{"already normalized", "someauthor", "someauthor"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.input))
		})
	}
}

func TestSetLinkClearsOtherSets(t *testing.T) {
	m := NewMod(10)

	cleared := m.SetLink(LinkRequired, 20)
	assert.Empty(t, cleared)
	assert.True(t, m.HasLink(LinkRequired, 20))

	// Moving the target to another set drops it from the first.
	cleared = m.SetLink(LinkSuccessor, 20)
	assert.Equal(t, []LinkKind{LinkRequired}, cleared)
	assert.False(t, m.HasLink(LinkRequired, 20))
	assert.True(t, m.HasLink(LinkSuccessor, 20))

	cleared = m.SetLink(LinkRecommendation, 20)
	assert.Equal(t, []LinkKind{LinkSuccessor}, cleared)
	assert.Equal(t, LinkRecommendation, m.LinkKindOf(20))
}

func TestSetLinkIndependentTargets(t *testing.T) {
	m := NewMod(10)
	m.SetLink(LinkRequired, 20)
	m.SetLink(LinkSuccessor, 30)

	assert.True(t, m.HasLink(LinkRequired, 20))
	assert.True(t, m.HasLink(LinkSuccessor, 30))
}

func TestRemoveLink(t *testing.T) {
	m := NewMod(10)
	m.SetLink(LinkAlternative, 20)

	assert.True(t, m.RemoveLink(LinkAlternative, 20))
	assert.False(t, m.RemoveLink(LinkAlternative, 20))
	assert.Zero(t, m.LinkKindOf(20))
}

func TestAddStatusClearsFamily(t *testing.T) {
	m := NewMod(10)

	m.AddStatus(StatusAbandoned)
	cleared := m.AddStatus(StatusDeprecated)
	assert.Equal(t, []Status{StatusAbandoned}, cleared)
	assert.False(t, m.HasStatus(StatusAbandoned))
	assert.True(t, m.HasStatus(StatusDeprecated))

	// Standalone flags are unaffected by family churn.
	m.AddStatus(StatusBreaksEditors)
	m.AddStatus(StatusObsolete)
	assert.True(t, m.HasStatus(StatusBreaksEditors))
	assert.False(t, m.HasStatus(StatusDeprecated))
}

func TestAddStatusRemovedClearsDescriptionFlags(t *testing.T) {
	m := NewMod(10)
	m.AddStatus(StatusNoDescription)
	m.AddStatus(StatusNoCommentSection)
	m.ExclusionNoDescription = true

	cleared := m.AddStatus(StatusRemoved)

	assert.ElementsMatch(t, []Status{StatusNoDescription, StatusNoCommentSection}, cleared)
	assert.False(t, m.HasStatus(StatusNoDescription))
	assert.False(t, m.HasStatus(StatusNoCommentSection))
	assert.False(t, m.ExclusionNoDescription)
	assert.True(t, m.HasStatus(StatusRemoved))
}

func TestStatusFamily(t *testing.T) {
	assert.Equal(t, []Status{StatusRemoved}, StatusUnlisted.Family())
	assert.ElementsMatch(t, []Status{StatusAbandoned, StatusObsolete}, StatusDeprecated.Family())
	assert.Nil(t, StatusBreaksEditors.Family())
}

func TestPlatformOnly(t *testing.T) {
	assert.True(t, StatusUnlisted.PlatformOnly())
	assert.True(t, StatusRemoved.PlatformOnly())
	assert.False(t, StatusAbandoned.PlatformOnly())
	assert.False(t, StatusNoDescription.PlatformOnly())
}

func TestCatalogModLifecycle(t *testing.T) {
	cat := New()

	m := NewMod(10)
	require.NoError(t, cat.AddMod(m))
	assert.Error(t, cat.AddMod(NewMod(10)), "duplicate id must be rejected")

	assert.Same(t, m, cat.Mod(10))
	assert.Equal(t, 1, cat.ModCount())

	cat.RemoveMod(10)
	assert.Nil(t, cat.Mod(10))
}

func TestReferencedBy(t *testing.T) {
	cat := New()
	require.NoError(t, cat.AddMod(NewMod(10)))
	require.NoError(t, cat.AddMod(NewMod(20)))
	require.NoError(t, cat.AddMod(NewMod(30)))

	assert.Empty(t, cat.ReferencedBy(20))

	cat.Mod(10).SetLink(LinkRequired, 20)
	assert.Equal(t, "mod 10 lists it as required mod", cat.ReferencedBy(20))
	cat.Mod(10).RemoveLink(LinkRequired, 20)

	g := cat.AddGroup("terrain", []uint64{20, 30})
	assert.Contains(t, cat.ReferencedBy(20), "has it as a member")
	cat.RemoveGroup(g.ID)

	cat.AddCompatibility(&Compatibility{FirstID: 20, SecondID: 30, Status: CompatSameFunctionality})
	assert.Equal(t, "a compatibility with mod 30 references it", cat.ReferencedBy(20))
}

func TestAuthorIndexes(t *testing.T) {
	cat := New()

	byID := NewAuthor(77, "", "Jane")
	byURL := NewAuthor(0, "JaneMods", "")
	require.NoError(t, cat.AddAuthor(byID))
	require.NoError(t, cat.AddAuthor(byURL))

	assert.Same(t, byID, cat.Author(77))
	assert.Same(t, byURL, cat.AuthorByURL("janemods"), "URL lookups are normalized")
	assert.Same(t, byURL, cat.AuthorByURL("  JANEMODS "))

	// FindAuthor prefers the numeric id.
	assert.Same(t, byID, cat.FindAuthor(77, "janemods"))
	assert.Same(t, byURL, cat.FindAuthor(0, "janemods"))
	assert.Nil(t, cat.FindAuthor(0, ""))
}

func TestAuthorsDeduplicatesMergedRecords(t *testing.T) {
	cat := New()
	a := NewAuthor(77, "janemods", "Jane")
	require.NoError(t, cat.AddAuthor(a))

	authors := cat.Authors()
	require.Len(t, authors, 1, "an author indexed under both keys appears once")
	assert.Same(t, a, authors[0])
}

func TestGroupIDAssignment(t *testing.T) {
	cat := New()
	require.NoError(t, cat.AddMod(NewMod(10)))
	require.NoError(t, cat.AddMod(NewMod(20)))

	g := cat.AddGroup("terrain", []uint64{10, 20})
	assert.Equal(t, uint64(FirstGroupID), g.ID)

	g2 := cat.AddGroup("lighting", []uint64{10, 20})
	assert.Equal(t, uint64(FirstGroupID+1), g2.ID)
}

func TestRestoreGroupAdvancesCounter(t *testing.T) {
	cat := New()
	cat.RestoreGroup(NewGroup(FirstGroupID+5, "restored", []uint64{10, 20}))

	g := cat.AddGroup("fresh", []uint64{30, 40})
	assert.Equal(t, uint64(FirstGroupID+6), g.ID, "new ids skip past restored ones")
}

func TestGroupOf(t *testing.T) {
	cat := New()
	g := cat.AddGroup("terrain", []uint64{10, 20})

	require.NotNil(t, cat.GroupOf(10))
	assert.Equal(t, g.ID, cat.GroupOf(10).ID)
	assert.Nil(t, cat.GroupOf(30))
}

func TestCompatibilityPairQueries(t *testing.T) {
	cat := New()
	cat.AddCompatibility(&Compatibility{FirstID: 10, SecondID: 20, Status: CompatSameFunctionality})
	cat.AddCompatibility(&Compatibility{FirstID: 20, SecondID: 10, Status: CompatMinorIssues, Note: "overlapping props"})
	cat.AddCompatibility(&Compatibility{FirstID: 10, SecondID: 30, Status: CompatSameFunctionality})

	assert.Len(t, cat.CompatibilitiesBetween(10, 20), 2, "both orders match")
	assert.Len(t, cat.CompatibilitiesBetween(20, 10), 2)
	assert.Len(t, cat.CompatibilitiesBetween(10, 30), 1)

	assert.True(t, cat.RemoveCompatibility(10, 20, CompatSameFunctionality))
	assert.False(t, cat.RemoveCompatibility(10, 20, CompatSameFunctionality))
	assert.Len(t, cat.CompatibilitiesBetween(10, 20), 1)
}

func TestCompatibilityMatchesAndMirrors(t *testing.T) {
	comp := &Compatibility{FirstID: 10, SecondID: 20, Status: CompatNewerVersion}

	assert.True(t, comp.Matches(10, 20, CompatNewerVersion))
	assert.False(t, comp.Matches(20, 10, CompatNewerVersion))
	assert.True(t, comp.Mirrors(20, 10, CompatNewerVersion))
	assert.True(t, comp.SamePair(20, 10))
	assert.False(t, comp.SamePair(10, 30))
}

func TestModsByAuthor(t *testing.T) {
	cat := New()
	a := NewAuthor(77, "", "Jane")
	require.NoError(t, cat.AddAuthor(a))

	m1 := NewMod(10)
	m1.AuthorID = 77
	m2 := NewMod(20)
	m2.AuthorURL = "janemods"
	m3 := NewMod(30)
	m3.AuthorID = 88
	require.NoError(t, cat.AddMod(m1))
	require.NoError(t, cat.AddMod(m2))
	require.NoError(t, cat.AddMod(m3))

	mods := cat.ModsByAuthor(a)
	require.Len(t, mods, 1)
	assert.Equal(t, uint64(10), mods[0].ID)

	a.CustomURL = "janemods"
	mods = cat.ModsByAuthor(a)
	assert.Len(t, mods, 2, "after a merge both attributions count")
}
