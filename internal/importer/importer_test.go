package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/modcat/internal/catalog"
	"github.com/roach88/modcat/internal/engine"
	"github.com/roach88/modcat/internal/ledger"
	"github.com/roach88/modcat/internal/testutil"
)

func newSessionEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cat := catalog.New()
	clock := testutil.NewFixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return engine.New(cat, ledger.New(), engine.WithNow(clock.Now))
}

func TestRunAppliesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	eng := newSessionEngine(t)

	// Lexicographic order matters: the author file must apply first.
	testutil.WriteCommandFile(t, dir, "001-authors.txt",
		"add_author, 77, Jane",
	)
	testutil.WriteCommandFile(t, dir, "002-mods.txt",
		"add_mod, 10, , 77, , Network Extensions 3",
		"add_mod, 20, , 77, , Traffic Manager",
		"add_requiredmod, 20, 10",
	)

	imp := New(eng, dir, WithSessionToken("session-1"))
	summary, err := imp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "session-1", summary.SessionToken)
	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 4, summary.Lines)
	assert.Zero(t, summary.Errors)

	cat := eng.Catalog()
	require.NotNil(t, cat.Mod(20))
	assert.True(t, cat.Mod(20).HasLink(catalog.LinkRequired, 10))
}

func TestRunRenamesProcessedFiles(t *testing.T) {
	dir := t.TempDir()
	eng := newSessionEngine(t)

	testutil.WriteCommandFile(t, dir, "clean.txt",
		"add_author, 77, Jane",
	)
	testutil.WriteCommandFile(t, dir, "dirty.txt",
		"add_author, 88, Alex",
		"remove_mod, 999",
	)

	imp := New(eng, dir, WithSessionToken("session-2"))
	summary, err := imp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errors)

	assert.NoFileExists(t, filepath.Join(dir, "clean.txt"))
	assert.FileExists(t, filepath.Join(dir, "clean.txt"+SuffixProcessed))
	assert.NoFileExists(t, filepath.Join(dir, "dirty.txt"))
	assert.FileExists(t, filepath.Join(dir, "dirty.txt"+SuffixPartial))
}

func TestRunSkipsAlreadyProcessedFiles(t *testing.T) {
	dir := t.TempDir()
	eng := newSessionEngine(t)

	testutil.WriteCommandFile(t, dir, "old.txt.processed",
		"add_author, 77, Jane",
	)
	testutil.WriteCommandFile(t, dir, "older.txt.partially_processed",
		"add_author, 88, Alex",
	)

	imp := New(eng, dir, WithSessionToken("session-3"))
	summary, err := imp.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.Files)
	assert.Nil(t, eng.Catalog().Author(77))
}

func TestRunLeavesSuppressedWarningsFileInPlace(t *testing.T) {
	dir := t.TempDir()
	eng := newSessionEngine(t)

	testutil.WriteCommandFile(t, dir, "001-mods.txt",
		"add_author, 77, Jane",
		"add_mod, 10, , 77, , Some Mod",
	)
	testutil.WriteCommandFile(t, dir, SuppressedWarningsFile,
		"add_suppressedwarning, 10",
	)

	imp := New(eng, dir, WithSessionToken("session-4"))
	_, err := imp.Run(context.Background())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, SuppressedWarningsFile),
		"the suppression list is reapplied every session")
	assert.True(t, eng.Catalog().SuppressedWarnings[10])
}

func TestRunTranscriptAnnotatesFailures(t *testing.T) {
	dir := t.TempDir()
	eng := newSessionEngine(t)

	testutil.WriteCommandFile(t, dir, "mixed.txt",
		"# weekly fixes",
		"add_author, 77, Jane",
		"remove_mod, 999",
		"bogus_verb, 1",
	)

	imp := New(eng, dir, WithSessionToken("session-5"))
	summary, err := imp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Lines, "comments are echoed but not counted")
	assert.Equal(t, 2, summary.Errors)

	transcript := summary.Transcript
	assert.Contains(t, transcript, "# Import session session-5\n")
	assert.Contains(t, transcript, "# File: mixed.txt\n")
	assert.Contains(t, transcript, "# weekly fixes\n")
	assert.Contains(t, transcript, "add_author, 77, Jane\n")
	assert.Contains(t, transcript, "# [Error] remove_mod, 999  ->  Mod 999 not found in the catalog.")
	assert.Contains(t, transcript, `# [Error] bogus_verb, 1  ->  Unknown command "bogus_verb".`)
}

func TestRunPerLineFailuresDoNotStopTheFile(t *testing.T) {
	dir := t.TempDir()
	eng := newSessionEngine(t)

	testutil.WriteCommandFile(t, dir, "commands.txt",
		"remove_mod, 999",
		"add_author, 77, Jane",
	)

	imp := New(eng, dir, WithSessionToken("session-6"))
	summary, err := imp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Errors)
	assert.NotNil(t, eng.Catalog().Author(77), "lines after a failure still apply")
}

func TestRunHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	eng := newSessionEngine(t)

	testutil.WriteCommandFile(t, dir, "001.txt", "add_author, 77, Jane")
	testutil.WriteCommandFile(t, dir, "002.txt", "add_author, 88, Alex")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	imp := New(eng, dir, WithSessionToken("session-7"))
	summary, err := imp.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.NotNil(t, summary, "the summary is valid even on early return")
	assert.Nil(t, eng.Catalog().Author(77), "nothing applied after cancellation")
	assert.FileExists(t, filepath.Join(dir, "001.txt"), "unprocessed files keep their names")
}

func TestRunIgnoresNonCommandFiles(t *testing.T) {
	dir := t.TempDir()
	eng := newSessionEngine(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("notes"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.txt"), 0o755))
	testutil.WriteCommandFile(t, dir, "real.txt", "add_author, 77, Jane")

	imp := New(eng, dir, WithSessionToken("session-8"))
	summary, err := imp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Files)
}

func TestRunMissingDirectory(t *testing.T) {
	eng := newSessionEngine(t)
	imp := New(eng, filepath.Join(t.TempDir(), "absent"))

	_, err := imp.Run(context.Background())
	assert.Error(t, err)
}

func TestProgressCallback(t *testing.T) {
	dir := t.TempDir()
	eng := newSessionEngine(t)

	testutil.WriteCommandFile(t, dir, "001.txt", "add_author, 77, Jane")
	testutil.WriteCommandFile(t, dir, "002.txt", "add_author, 88, Alex")

	var calls []string
	imp := New(eng, dir,
		WithSessionToken("session-9"),
		WithProgress(func(current, total int, message string) {
			assert.Equal(t, 2, total)
			calls = append(calls, message)
		}))

	_, err := imp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"processing 001.txt", "processing 002.txt"}, calls)
}

func TestSessionTokenDefaultsToUUID(t *testing.T) {
	eng := newSessionEngine(t)
	imp := New(eng, t.TempDir())

	summary, err := imp.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, summary.SessionToken, 36)
}

func TestDryRunLeavesFilesInPlace(t *testing.T) {
	dir := t.TempDir()
	eng := newSessionEngine(t)

	testutil.WriteCommandFile(t, dir, "pending.txt",
		"add_author, 77, Jane",
	)

	imp := New(eng, dir, WithDryRun(), WithSessionToken("session-dry"))
	summary, err := imp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Lines)
	assert.FileExists(t, filepath.Join(dir, "pending.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "pending.txt"+SuffixProcessed))

	// Lines are still applied; the caller discards the catalog.
	assert.NotNil(t, eng.Catalog().Author(77))
}
