package textutil

import (
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// EditSimilarity returns a normalized edit similarity between a and b in the
// range [0, 1]. The score is (maxLen - distance) / maxLen where distance is the
// Levenshtein distance over runes and maxLen the longer rune length. Identical
// strings (including two empty strings) score 1. The function is symmetric.
func EditSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1
	}
	distance := fuzzy.LevenshteinDistance(a, b)
	return float64(maxLen-distance) / float64(maxLen)
}
