package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/modcat/internal/catalog"
	"github.com/roach88/modcat/internal/command"
	"github.com/roach88/modcat/internal/ledger"
	"github.com/roach88/modcat/internal/testutil"
)

func byID(id uint64) command.AuthorRef   { return command.AuthorRef{ID: id} }
func byURL(url string) command.AuthorRef { return command.AuthorRef{URL: url} }

func TestAddAuthor(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.AddAuthor(byID(88), "Alex"))
	assert.Equal(t, "Alex", e.Catalog().Author(88).Name)

	err := e.AddAuthor(byID(88), "Alex")
	assert.EqualError(t, err, "Author 88 is already in the catalog.")

	require.NoError(t, e.AddAuthor(byURL("janemods"), ""))
	err = e.AddAuthor(byURL("janemods"), "")
	assert.EqualError(t, err, "Author janemods is already in the catalog.")

	err = e.AddAuthor(command.AuthorRef{}, "Nobody")
	assert.EqualError(t, err, "Missing or invalid author ID or custom URL.")
}

func TestMergeAuthor(t *testing.T) {
	e := newTestEngine(t)
	cat := e.Catalog()

	// An id-only record with a placeholder name and an older date.
	idRecord := catalog.NewAuthor(88, "", "88")
	idRecord.LastSeen = testNow.AddDate(0, -6, 0)
	require.NoError(t, cat.AddAuthor(idRecord))

	urlRecord := catalog.NewAuthor(0, "alexmods", "Alex")
	urlRecord.LastSeen = testNow.AddDate(0, -2, 0)
	urlRecord.ExclusionRetired = true
	require.NoError(t, cat.AddAuthor(urlRecord))

	m := catalog.NewMod(30)
	m.AuthorURL = "alexmods"
	require.NoError(t, cat.AddMod(m))

	require.NoError(t, e.MergeAuthor(88, "alexmods"))

	merged := cat.Author(88)
	require.NotNil(t, merged)
	assert.Equal(t, "alexmods", merged.CustomURL)
	assert.Equal(t, "Alex", merged.Name, "placeholder name loses to the real one")
	assert.Equal(t, urlRecord.LastSeen, merged.LastSeen, "most recent activity wins")
	assert.True(t, merged.ExclusionRetired)
	assert.Same(t, merged, cat.AuthorByURL("alexmods"))
	assert.Equal(t, uint64(88), cat.Mod(30).AuthorID, "mods are relinked to the survivor")
}

func TestMergeAuthorRejectsCompleteRecords(t *testing.T) {
	e := newTestEngine(t)
	cat := e.Catalog()

	complete := catalog.NewAuthor(88, "alexmods", "Alex")
	require.NoError(t, cat.AddAuthor(complete))
	require.NoError(t, cat.AddAuthor(catalog.NewAuthor(0, "othermods", "")))

	err := e.MergeAuthor(88, "othermods")
	assert.EqualError(t, err, "Author has both an ID and Custom URL: 88")

	require.NoError(t, cat.AddAuthor(catalog.NewAuthor(99, "", "")))
	err = e.MergeAuthor(99, "alexmods")
	assert.EqualError(t, err, "Author has both an ID and Custom URL: alexmods")
}

func TestSetAuthorIDAllowedOnce(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Catalog().AddAuthor(catalog.NewAuthor(0, "alexmods", "Alex")))

	m := catalog.NewMod(30)
	m.AuthorURL = "alexmods"
	require.NoError(t, e.Catalog().AddMod(m))

	require.NoError(t, e.SetAuthorID("alexmods", 88))
	assert.Same(t, e.Catalog().AuthorByURL("alexmods"), e.Catalog().Author(88))
	assert.Equal(t, uint64(88), e.Catalog().Mod(30).AuthorID)

	err := e.SetAuthorID("alexmods", 99)
	assert.EqualError(t, err, "Author alexmods already has an ID.")
}

func TestSetAuthorURLAllowedOnce(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.SetAuthorURL(77, "JaneMods"))
	a := e.Catalog().Author(77)
	assert.Equal(t, "janemods", a.CustomURL, "URLs are normalized on assignment")

	err := e.SetAuthorURL(77, "othermods")
	assert.EqualError(t, err, "Author 77 already has a custom URL.")
}

func TestSetLastSeen(t *testing.T) {
	e := newTestEngine(t)
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, e.SetLastSeen(byID(77), date))
	assert.Equal(t, date, e.Catalog().Author(77).LastSeen)

	err := e.SetLastSeen(byID(77), date)
	assert.EqualError(t, err, "Author 77 already has this last seen date.")
}

func TestSetRetiredPinsState(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.SetRetired(byID(77)))
	a := e.Catalog().Author(77)
	assert.True(t, a.Retired)
	assert.True(t, a.ExclusionRetired)

	err := e.SetRetired(byID(77))
	assert.EqualError(t, err, "Author 77 is already retired.")

	require.NoError(t, e.RemoveRetired(byID(77)))
	assert.False(t, a.Retired)
	assert.True(t, a.ExclusionRetired, "un-retiring pins the non-retired state")

	err = e.RemoveRetired(byID(77))
	assert.EqualError(t, err, "Author 77 is not retired.")
}

// retirementEngine builds an engine whose author 77 has one live mod
// and the given last-seen date.
func retirementEngine(t *testing.T, lastSeen time.Time) *Engine {
	t.Helper()
	cat := catalog.New()
	a := catalog.NewAuthor(77, "", "Jane")
	a.LastSeen = lastSeen
	require.NoError(t, cat.AddAuthor(a))

	m := catalog.NewMod(10)
	m.AuthorID = 77
	require.NoError(t, cat.AddMod(m))

	clock := testutil.NewFixedClock(testNow)
	return New(cat, ledger.New(), WithNow(clock.Now))
}

func TestRetirementDerivedFromInactivity(t *testing.T) {
	e := retirementEngine(t, testNow.AddDate(0, -13, 0))
	e.UpdateAuthorRetirement()
	assert.True(t, e.Catalog().Author(77).Retired)

	e = retirementEngine(t, testNow.AddDate(0, -11, 0))
	e.UpdateAuthorRetirement()
	assert.False(t, e.Catalog().Author(77).Retired)
}

func TestRetirementZeroLiveModsClearsExclusion(t *testing.T) {
	e := retirementEngine(t, testNow.AddDate(0, -1, 0))
	a := e.Catalog().Author(77)
	a.Retired = true
	require.NoError(t, e.RemoveRetired(byID(77)))
	assert.True(t, a.ExclusionRetired)

	e.Catalog().Mod(10).AddStatus(catalog.StatusRemoved)
	e.UpdateAuthorRetirement()

	assert.True(t, a.Retired, "zero live mods outranks the pin")
	assert.False(t, a.ExclusionRetired, "the exclusion no longer guards anything")
}

func TestRetirementManualPinSurvivesDerivation(t *testing.T) {
	// Active author manually retired: the pin holds.
	e := retirementEngine(t, testNow.AddDate(0, -1, 0))
	require.NoError(t, e.SetRetired(byID(77)))
	e.UpdateAuthorRetirement()
	a := e.Catalog().Author(77)
	assert.True(t, a.Retired)
	assert.True(t, a.ExclusionRetired)
}

func TestRetirementUnretirePinExpiresWithWindow(t *testing.T) {
	// Inactive author manually un-retired: pinned until the window
	// check catches up, which clears the exclusion.
	e := retirementEngine(t, testNow.AddDate(0, -13, 0))
	a := e.Catalog().Author(77)
	a.Retired = true

	require.NoError(t, e.RemoveRetired(byID(77)))
	assert.False(t, a.Retired)

	e.UpdateAuthorRetirement()
	assert.True(t, a.Retired, "the elapsed window overrides the pin")
	assert.False(t, a.ExclusionRetired)
}

func TestRetirementAllModsRemoved(t *testing.T) {
	e := retirementEngine(t, testNow.AddDate(0, -1, 0))
	m := e.Catalog().Mod(10)
	m.AddStatus(catalog.StatusRemoved)

	e.UpdateAuthorRetirement()
	a := e.Catalog().Author(77)
	assert.True(t, a.Retired, "no live mods means retired regardless of activity")
	assert.False(t, a.ExclusionRetired)
}

func TestRetirementShortenedWindow(t *testing.T) {
	cat := catalog.New()
	a := catalog.NewAuthor(77, "", "Jane")
	a.LastSeen = testNow.AddDate(0, -7, 0)
	require.NoError(t, cat.AddAuthor(a))
	m := catalog.NewMod(10)
	m.AuthorID = 77
	require.NoError(t, cat.AddMod(m))

	e := New(cat, ledger.New(),
		WithNow(func() time.Time { return testNow }),
		WithInactivityMonths(6))
	e.UpdateAuthorRetirement()
	assert.True(t, cat.Author(77).Retired)
}
