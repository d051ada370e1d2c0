package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScenarioFile(t *testing.T, name string) *Result {
	t.Helper()
	scenario, err := LoadScenario(filepath.Join("testdata", name))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err, "scenario %s", name)
	return result
}

func TestLinkExclusivityScenario(t *testing.T) {
	runScenarioFile(t, "link-exclusivity.yaml")
}

func TestGroupCascadeScenario(t *testing.T) {
	runScenarioFile(t, "group-cascade.yaml")
}

func TestCompatibilityConflictsScenario(t *testing.T) {
	runScenarioFile(t, "compatibility-conflicts.yaml")
}

func TestAuthorRetirementScenario(t *testing.T) {
	runScenarioFile(t, "author-retirement.yaml")
}

func TestSessionReportGolden(t *testing.T) {
	result := runScenarioFile(t, "session-report.yaml")
	CompareReport(t, "session-report", result)
}

func TestRunReportsUnexpectedRejection(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad",
		Description: "a failing line without an expected error",
		Commands: []CommandStep{
			{Line: "remove_mod, 999"},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected rejection")
}

func TestRunReportsMissingRejection(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad",
		Description: "expecting an error that does not happen",
		Commands: []CommandStep{
			{Line: "add_author, 77, Jane", Error: "Author 77 is already in the catalog."},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got success")
}

func TestRunReportsWrongRejectionMessage(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad",
		Description: "expecting a different error text",
		Commands: []CommandStep{
			{Line: "remove_mod, 999", Error: "Some other message."},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected rejection")
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	content := `name: typo
description: misspelled key
commands:
  - line: remove_mod, 10
assertion:
  - type: group_count
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadScenario(path)
	assert.Error(t, err, "unknown top-level keys must be rejected")
}

func TestLoadScenarioValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "description: d\ncommands:\n  - line: remove_mod, 10\n"},
		{"missing description", "name: n\ncommands:\n  - line: remove_mod, 10\n"},
		{"missing commands", "name: n\ndescription: d\n"},
		{"empty command line", "name: n\ndescription: d\ncommands:\n  - line: \"\"\n"},
		{"unknown assertion type", "name: n\ndescription: d\ncommands:\n  - line: remove_mod, 10\nassertions:\n  - type: nonsense\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scenario.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := LoadScenario(path)
			assert.Error(t, err)
		})
	}
}
