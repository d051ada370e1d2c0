package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modcat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath)
	assert.Equal(t, DefaultCommandsDir, cfg.CommandsDir)
	assert.Equal(t, DefaultInactivityMonths, cfg.InactivityMonths)
	assert.Empty(t, cfg.TranscriptDir)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
database_path: /var/lib/modcat/catalog.db
commands_dir: /srv/commands
inactivity_months: 6
transcript_dir: /var/log/modcat
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/modcat/catalog.db", cfg.DatabasePath)
	assert.Equal(t, "/srv/commands", cfg.CommandsDir)
	assert.Equal(t, 6, cfg.InactivityMonths)
	assert.Equal(t, "/var/log/modcat", cfg.TranscriptDir)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, "commands_dir: ./pending\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./pending", cfg.CommandsDir)
	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath)
	assert.Equal(t, DefaultInactivityMonths, cfg.InactivityMonths)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "databse_path: oops.db\n")

	_, err := Load(path)
	assert.Error(t, err, "typos must fail loudly")
}

func TestLoadRejectsInvalidWindow(t *testing.T) {
	path := writeConfig(t, "inactivity_months: -3\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactivity_months")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
