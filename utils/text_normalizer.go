package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText joins OCR lines into a single line of text with every
// whitespace run, Unicode spaces included, collapsed to one space. NFKC
// folding turns full-width digits and compatibility forms into their ASCII
// equivalents.
// NormalizeText(NormalizeText(x)) == NormalizeText(x).
func NormalizeText(lines []string) string {
	text := norm.NFKC.String(strings.Join(lines, " "))
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeLines cleans OCR lines while keeping layout: embedded newlines
// are split, each line is trimmed and blank lines are dropped.
func NormalizeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, raw := range lines {
		// DO NOT collapse '\n' here; we need line structure
		for _, l := range SplitLines(raw) {
			l = strings.TrimSpace(norm.NFKC.String(l))
			if l == "" {
				continue
			}
			out = append(out, l)
		}
	}
	return out
}

// SplitLines turns a pre-joined OCR blob into its raw line sequence.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
