package harness

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/modcat/internal/catalog"
	"github.com/roach88/modcat/internal/command"
	"github.com/roach88/modcat/internal/engine"
	"github.com/roach88/modcat/internal/ledger"
)

// defaultNow pins scenario clocks when the file gives no instant.
const defaultNow = "2026-01-01T00:00:00Z"

// Result carries the final state of an executed scenario.
type Result struct {
	Catalog *catalog.Catalog
	Ledger  *ledger.Ledger

	// Report is the rendered change report, captured once so golden
	// comparisons and report assertions see the same bytes.
	Report string
}

// Run executes a scenario against a fresh catalog and evaluates its
// assertions. The first violated expectation aborts the run.
func Run(scenario *Scenario) (*Result, error) {
	now, err := scenarioClock(scenario)
	if err != nil {
		return nil, err
	}

	cat := catalog.New()
	led := ledger.New()
	eng := engine.New(cat, led, engine.WithNow(func() time.Time { return now }))

	for i, line := range scenario.Setup {
		if err := applyLine(eng, line); err != nil {
			return nil, fmt.Errorf("setup[%d] %q: %w", i, line, err)
		}
	}

	for i, step := range scenario.Commands {
		err := applyLine(eng, step.Line)
		switch {
		case step.Error == "" && err != nil:
			return nil, fmt.Errorf("commands[%d] %q: unexpected rejection: %w", i, step.Line, err)
		case step.Error != "" && err == nil:
			return nil, fmt.Errorf("commands[%d] %q: expected rejection %q, got success", i, step.Line, step.Error)
		case step.Error != "" && err.Error() != step.Error:
			return nil, fmt.Errorf("commands[%d] %q: expected rejection %q, got %q", i, step.Line, step.Error, err.Error())
		}
	}

	eng.UpdateAuthorRetirement()

	result := &Result{Catalog: cat, Ledger: led, Report: led.Report()}
	for i, assertion := range scenario.Assertions {
		if err := checkAssertion(result, &assertion); err != nil {
			return nil, fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return result, nil
}

func scenarioClock(scenario *Scenario) (time.Time, error) {
	text := scenario.Now
	if text == "" {
		text = defaultNow
	}
	now, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid now %q: %w", text, err)
	}
	return now, nil
}

func applyLine(eng *engine.Engine, line string) error {
	op, err := command.Parse(line)
	if err != nil {
		return err
	}
	if op == nil {
		return nil
	}
	return eng.Apply(op)
}

func checkAssertion(result *Result, a *Assertion) error {
	switch a.Type {
	case AssertModStatus:
		return checkModStatus(result.Catalog, a)
	case AssertModLink:
		return checkModLink(result.Catalog, a)
	case AssertModField:
		return checkModField(result.Catalog, a)
	case AssertAuthorRetired:
		return checkAuthorRetired(result.Catalog, a)
	case AssertGroupCount:
		if got := len(result.Catalog.Groups()); got != a.Count {
			return fmt.Errorf("group_count: expected %d groups, got %d", a.Count, got)
		}
		return nil
	case AssertCompatCount:
		if got := len(result.Catalog.Compatibilities()); got != a.Count {
			return fmt.Errorf("compat_count: expected %d compatibilities, got %d", a.Count, got)
		}
		return nil
	case AssertReportContains:
		if !strings.Contains(result.Report, a.Text) {
			return fmt.Errorf("report_contains: %q not found in report:\n%s", a.Text, result.Report)
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func modUnderTest(cat *catalog.Catalog, id uint64) (*catalog.Mod, error) {
	m := cat.Mod(id)
	if m == nil {
		return nil, fmt.Errorf("mod %d not in catalog", id)
	}
	return m, nil
}

func checkModStatus(cat *catalog.Catalog, a *Assertion) error {
	m, err := modUnderTest(cat, a.Mod)
	if err != nil {
		return err
	}
	status, ok := catalog.ParseStatus(a.Status)
	if !ok {
		return fmt.Errorf("unknown status token %q", a.Status)
	}
	has := m.HasStatus(status)
	if has == a.Absent {
		return fmt.Errorf("mod_status: mod %d status %s: present=%v, expected present=%v",
			a.Mod, a.Status, has, !a.Absent)
	}
	return nil
}

func parseLinkKind(token string) (catalog.LinkKind, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "requiredmod", "required":
		return catalog.LinkRequired, nil
	case "successor":
		return catalog.LinkSuccessor, nil
	case "alternative":
		return catalog.LinkAlternative, nil
	case "recommendation":
		return catalog.LinkRecommendation, nil
	default:
		return 0, fmt.Errorf("unknown link kind %q", token)
	}
}

func checkModLink(cat *catalog.Catalog, a *Assertion) error {
	m, err := modUnderTest(cat, a.Mod)
	if err != nil {
		return err
	}
	kind, err := parseLinkKind(a.Kind)
	if err != nil {
		return err
	}
	has := m.HasLink(kind, a.Target)
	if has == a.Absent {
		return fmt.Errorf("mod_link: mod %d %s %d: present=%v, expected present=%v",
			a.Mod, kind, a.Target, has, !a.Absent)
	}
	return nil
}

func checkModField(cat *catalog.Catalog, a *Assertion) error {
	m, err := modUnderTest(cat, a.Mod)
	if err != nil {
		return err
	}
	var got string
	switch a.Field {
	case "name":
		got = m.Name
	case "sourceurl":
		got = m.SourceURL
	case "gameversion":
		got = m.GameVersion
	case "stability":
		got = m.Stability.String()
	case "note":
		got = m.Note
	default:
		return fmt.Errorf("unknown mod field %q", a.Field)
	}
	if got != a.Value {
		return fmt.Errorf("mod_field: mod %d %s = %q, expected %q", a.Mod, a.Field, got, a.Value)
	}
	return nil
}

func checkAuthorRetired(cat *catalog.Catalog, a *Assertion) error {
	var author *catalog.Author
	if id, err := strconv.ParseUint(a.Author, 10, 64); err == nil && id != 0 {
		author = cat.Author(id)
	} else {
		author = cat.AuthorByURL(a.Author)
	}
	if author == nil {
		return fmt.Errorf("author %s not in catalog", a.Author)
	}
	if author.Retired != a.Retired {
		return fmt.Errorf("author_retired: author %s retired=%v, expected %v",
			a.Author, author.Retired, a.Retired)
	}
	return nil
}
