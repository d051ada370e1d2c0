package engine

import (
	"strconv"
	"strings"
)

// CompareVersions compares two dotted version strings numerically,
// part by part. Returns -1, 0, or 1. A missing part counts as zero, so
// "1.17" equals "1.17.0". Non-numeric parts compare as zero.
//
// This is the "strict improvement" test for game-version exclusions:
// an automated value overrides an exclusion only when it compares
// greater than the stored one.
func CompareVersions(a, b string) int {
	partsA := strings.Split(strings.TrimSpace(a), ".")
	partsB := strings.Split(strings.TrimSpace(b), ".")

	n := len(partsA)
	if len(partsB) > n {
		n = len(partsB)
	}
	for i := 0; i < n; i++ {
		va := versionPart(partsA, i)
		vb := versionPart(partsB, i)
		if va != vb {
			if va < vb {
				return -1
			}
			return 1
		}
	}
	return 0
}

func versionPart(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0
	}
	return v
}
