package utils

import (
	"strings"
	"unicode"
)

// nameMatchThreshold is the minimum similarity for two spellings of a name
// to count as the same person.
const nameMatchThreshold = 0.8

// foldName lowercases s and drops everything but letters and digits, so
// "R. Kumar" and "r kumar" fold to the same key.
func foldName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NamesMatch reports whether a stored name and an OCR-read name plausibly
// belong to the same person. Word order and initials are tolerated.
func NamesMatch(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	if NameSimilarity(a, b) >= nameMatchThreshold {
		return true
	}

	// every word of the shorter name must appear in the longer one
	wa, wb := strings.Fields(strings.ToLower(a)), strings.Fields(strings.ToLower(b))
	if len(wa) > len(wb) {
		wa, wb = wb, wa
	}
	for _, w := range wa {
		w = foldName(w)
		if w == "" {
			continue
		}
		found := false
		for _, o := range wb {
			o = foldName(o)
			if o == w || (len(w) == 1 && strings.HasPrefix(o, w)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// NameSimilarity scores two names between 0.0 and 1.0 using the
// Levenshtein distance of their folded forms.
func NameSimilarity(a, b string) float64 {
	s1, s2 := []rune(foldName(a)), []rune(foldName(b))

	if len(s1) == 0 && len(s2) == 0 {
		return 1.0
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	maxLen := max(len(s1), len(s2))
	return 1.0 - float64(levenshtein(s1, s2))/float64(maxLen)
}

func levenshtein(r1, r2 []rune) int {
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
