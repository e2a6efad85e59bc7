// Package version compares dotted-integer app version strings.
package version

import (
	"strconv"
	"strings"
)

// IsOlder reports whether version a is strictly older than version b.
// Versions are compared as integer tuples, so "1.2.0" is older than
// "1.10.0". A shorter version that is a prefix of a longer one is older:
// "1.2" < "1.2.0".
//
// If either string fails to parse as dot-separated integers the result is
// false: a malformed version must never force an update.
func IsOlder(a, b string) bool {
	av, ok := parse(a)
	if !ok {
		return false
	}

	bv, ok := parse(b)
	if !ok {
		return false
	}

	for i := 0; i < len(av) && i < len(bv); i++ {
		if av[i] != bv[i] {
			return av[i] < bv[i]
		}
	}

	return len(av) < len(bv)
}

func parse(v string) ([]int, bool) {
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))

	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}

		out[i] = n
	}

	return out, true
}
