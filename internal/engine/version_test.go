package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.17", "1.17", 0},
		{"1.17", "1.17.0", 0},
		{"1.18", "1.17", 1},
		{"1.17", "1.18", -1},
		{"1.17.1", "1.17", 1},
		{"1.17", "1.17.1", -1},
		{"2.0", "1.99", 1},
		{"1.10", "1.9", 1},
		{"", "", 0},
		{"", "1.0", -1},
		{" 1.17 ", "1.17", 0},
		{"1.x", "1.0", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CompareVersions(tt.a, tt.b), "CompareVersions(%q, %q)", tt.a, tt.b)
	}
}
