package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteCommandFile writes command lines into a file under dir and
// returns its path. Lines are joined with newlines and get a trailing
// newline, matching how curators author command files.
func WriteCommandFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write command file %s: %v", name, err)
	}
	return path
}

// ReadFile reads a file and fails the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
