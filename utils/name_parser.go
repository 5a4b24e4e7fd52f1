package utils

import "strings"

// LayoutRule locates the holder's name relative to a fixed anchor line.
// The name is expected Offset lines after the first line equal to Anchor
// (case-insensitive, after trimming).
type LayoutRule struct {
	Anchor string
	Offset int
}

// DefaultNameRule matches the UIDAI enrolment letter, where the addressee
// block starts with a "To" line and the name sits two lines below it
// (the line in between is usually the regional-script name).
var DefaultNameRule = LayoutRule{Anchor: "To", Offset: 2}

// Apply returns the line selected by the rule, or "" when the anchor is
// missing or the offset runs past the end. Only the first anchor counts.
func (r LayoutRule) Apply(lines []string) string {
	for i, line := range lines {
		if !strings.EqualFold(strings.TrimSpace(line), r.Anchor) {
			continue
		}
		idx := i + r.Offset
		if idx < 0 || idx >= len(lines) {
			return ""
		}
		return lines[idx]
	}
	return ""
}

// ExtractName applies the given layout rules in order and returns the first
// non-empty result. With no rules, DefaultNameRule is used.
// lines must already be blank-trimmed (see NormalizeLines).
//
// There is no heuristic fallback: documents in another layout yield "".
func ExtractName(lines []string, rules ...LayoutRule) string {
	if len(rules) == 0 {
		rules = []LayoutRule{DefaultNameRule}
	}
	for _, r := range rules {
		if name := r.Apply(lines); name != "" {
			return name
		}
	}
	return ""
}
