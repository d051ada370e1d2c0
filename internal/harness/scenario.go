package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario for one catalog session.
// Scenarios execute command lines against a fresh catalog and assert on
// the resulting entities and change report.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Now pins the session clock (RFC3339). Retirement derivation and
	// date comparisons evaluate against this instant. Defaults to
	// 2026-01-01T00:00:00Z so golden reports stay stable.
	Now string `yaml:"now,omitempty"`

	// Setup contains command lines that establish initial state.
	// Setup lines are assumed to succeed; a failure aborts the scenario.
	Setup []string `yaml:"setup,omitempty"`

	// Commands contains the main flow - command lines with optional
	// expected rejections.
	Commands []CommandStep `yaml:"commands"`

	// Assertions validate the final catalog state and the report.
	Assertions []Assertion `yaml:"assertions"`
}

// CommandStep is one command line with its expected outcome.
type CommandStep struct {
	// Line is the raw command line.
	Line string `yaml:"line"`

	// Error is the exact expected rejection message.
	// Empty means the line must succeed.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates one fact about the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "mod_status": mod has (or lacks) a status flag
	// - "mod_link": mod links (or not) to a target with a kind
	// - "mod_field": a scalar mod field has an exact value
	// - "author_retired": author's retired flag has the given value
	// - "group_count": the catalog holds exactly N groups
	// - "compat_count": the catalog holds exactly N compatibilities
	// - "report_contains": the change report contains a substring
	Type string `yaml:"type"`

	// Mod is the subject mod id (mod_status, mod_link, mod_field).
	Mod uint64 `yaml:"mod,omitempty"`

	// Status is the status token (mod_status).
	Status string `yaml:"status,omitempty"`

	// Target and Kind identify a link (mod_link).
	Target uint64 `yaml:"target,omitempty"`
	Kind   string `yaml:"kind,omitempty"`

	// Field and Value name a scalar mod field and its expected value
	// (mod_field). Supported fields: name, sourceurl, gameversion,
	// stability, note.
	Field string `yaml:"field,omitempty"`
	Value string `yaml:"value,omitempty"`

	// Author is the subject author id or custom URL (author_retired).
	Author string `yaml:"author,omitempty"`

	// Retired is the expected flag value (author_retired).
	Retired bool `yaml:"retired,omitempty"`

	// Absent inverts presence checks (mod_status, mod_link).
	Absent bool `yaml:"absent,omitempty"`

	// Count is the expected cardinality (group_count, compat_count).
	Count int `yaml:"count,omitempty"`

	// Text is the expected substring (report_contains).
	Text string `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertModStatus      = "mod_status"
	AssertModLink        = "mod_link"
	AssertModField       = "mod_field"
	AssertAuthorRetired  = "author_retired"
	AssertGroupCount     = "group_count"
	AssertCompatCount    = "compat_count"
	AssertReportContains = "report_contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Commands) == 0 {
		return fmt.Errorf("commands list is required and must be non-empty")
	}

	for i, step := range s.Commands {
		if step.Line == "" {
			return fmt.Errorf("commands[%d]: line is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertModStatus:
		if a.Mod == 0 || a.Status == "" {
			return fmt.Errorf("assertions[%d]: mod and status are required for mod_status", index)
		}
	case AssertModLink:
		if a.Mod == 0 || a.Target == 0 || a.Kind == "" {
			return fmt.Errorf("assertions[%d]: mod, target and kind are required for mod_link", index)
		}
	case AssertModField:
		if a.Mod == 0 || a.Field == "" {
			return fmt.Errorf("assertions[%d]: mod and field are required for mod_field", index)
		}
	case AssertAuthorRetired:
		if a.Author == "" {
			return fmt.Errorf("assertions[%d]: author is required for author_retired", index)
		}
	case AssertGroupCount, AssertCompatCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertReportContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for report_contains", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
