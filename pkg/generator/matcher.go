package generator

import (
	"math"
	"sort"
	"strings"
)

// Matcher finds the longest configured pattern on each end of an address.
// Patterns are copied, lowercased and sorted once so the hot loop never
// allocates or depends on caller order.
type Matcher struct {
	patterns []string // Descending by length, ties in lexical order
}

// NewMatcher creates a Matcher for the given patterns. Empty patterns are
// ignored and duplicates collapsed.
func NewMatcher(patterns []string) *Matcher {
	return &Matcher{patterns: SortPatterns(patterns)}
}

// Patterns returns the patterns in the order they are tried.
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.patterns))
	copy(out, m.patterns)
	return out
}

// Match returns the longest prefix hit and the longest suffix hit on body,
// prefix first. body must already be normalized (see NormalizeAddress).
func (m *Matcher) Match(body string) []Match {
	var matches []Match

	for _, p := range m.patterns {
		if strings.HasPrefix(body, p) {
			matches = append(matches, Match{Pattern: p, Side: Prefix})
			break
		}
	}

	for _, p := range m.patterns {
		if strings.HasSuffix(body, p) {
			matches = append(matches, Match{Pattern: p, Side: Suffix})
			break
		}
	}

	return matches
}

// Difficulty estimates how many addresses must be generated per hit of the
// shortest pattern on either end of a 40 char hex address.
func (m *Matcher) Difficulty() uint64 {
	if len(m.patterns) == 0 {
		return 0
	}
	shortest := len(m.patterns[len(m.patterns)-1])
	d := math.Pow(16, float64(shortest)) / 2
	if d < 1 {
		return 1
	}
	if d >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(d)
}

// SortPatterns lowercases patterns, drops empties and duplicates, and sorts
// them longest first. Equal lengths fall back to lexical order.
func SortPatterns(patterns []string) []string {
	seen := make(map[string]struct{}, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
