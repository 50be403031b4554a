// Package dedup collapses near-duplicate stories reported by multiple
// outlets into a single best representative. Deduplicate is a pure function
// of its input list; it selects articles, it never merges or edits them.
package dedup

import (
	"strings"
	"unicode"
)

const (
	// Titles shorter than this many normalized characters are too ambiguous
	// to group safely and pass through as singletons. Legitimately duplicate
	// short-titled stories are therefore never merged in the exact pass; the
	// fuzzy pass rarely catches one-to-two word titles either. Known gap,
	// kept as-is.
	minGroupTitleLen = 10

	// jaccardThreshold is the word-set similarity above which two titles are
	// considered the same story in the fuzzy pass.
	jaccardThreshold = 0.85

	decayWindowHours  = 24.0
	minRecencyDecay   = 0.1
	contentLengthUnit = 1000.0
	maxContentFactor  = 2.0
)

// NormalizeTitle lowercases, strips non-alphanumeric characters and
// collapses whitespace. It is the exact-grouping key.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Jaccard returns the intersection-over-union of the two titles' normalized
// word sets.
func Jaccard(a, b string) float64 {
	setA := wordSet(NormalizeTitle(a))
	setB := wordSet(NormalizeTitle(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(normalized string) map[string]struct{} {
	words := strings.Fields(normalized)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
