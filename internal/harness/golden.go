package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// CompareReport asserts the rendered change report against a golden
// file under testdata/. Update goldens with `go test -update`.
func CompareReport(t *testing.T, name string, result *Result) {
	t.Helper()
	g := goldie.New(t)
	g.Assert(t, name, []byte(result.Report))
}
