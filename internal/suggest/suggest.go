// Package suggest picks the closest known name for a misspelled one.
package suggest

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// Closest returns the candidate that best matches name, or "" when none
// is close. A candidate matches when either string is a fuzzy
// subsequence of the other.
func Closest(name string, candidates []string) string {
	if name == "" || len(candidates) == 0 {
		return ""
	}

	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	if matches := fuzzy.Find(name, sorted); len(matches) > 0 {
		return matches[0].Str
	}

	best, bestScore := "", 0
	for _, c := range sorted {
		if len(c) < 2 {
			continue
		}
		matches := fuzzy.Find(c, []string{name})
		if len(matches) == 0 {
			continue
		}
		if best == "" || matches[0].Score > bestScore {
			best, bestScore = c, matches[0].Score
		}
	}
	return best
}
