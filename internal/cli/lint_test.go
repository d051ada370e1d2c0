package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/modcat/internal/testutil"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestLintCleanFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCommandFile(t, dir, "clean.txt",
		"# maintenance batch",
		"remove_mod, 2040656402",
		"set_stability, 2040656402, broken, Crashes on load",
	)

	stdout, _, err := runCLI(t, "lint", filepath.Join(dir, "clean.txt"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 commands checked, 0 rejected.")
}

func TestLintReportsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.txt")
	testutil.WriteCommandFile(t, dir, "broken.txt",
		"frobnicate_mod, 10",
		"remove_mod, 10",
		"add_compatibility, 10",
	)

	stdout, _, err := runCLI(t, "lint", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, stdout, path+":1:")
	assert.Contains(t, stdout, `Unknown command "frobnicate_mod".`)
	assert.Contains(t, stdout, path+":3:")
	assert.Contains(t, stdout, "Not enough parameters.")
	assert.Contains(t, stdout, "3 commands checked, 2 rejected.")
}

func TestLintMissingFile(t *testing.T) {
	_, _, err := runCLI(t, "lint", filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestLintJSONOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.txt")
	testutil.WriteCommandFile(t, dir, "one.txt", "frobnicate_mod, 10")

	stdout, _, err := runCLI(t, "--format", "json", "lint", path)
	require.Error(t, err)
	assert.Contains(t, stdout, `"findings"`)
	assert.Contains(t, stdout, `"frobnicate_mod, 10"`)
}

func TestRootRejectsInvalidFormat(t *testing.T) {
	_, _, err := runCLI(t, "--format", "xml", "lint", "whatever.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
