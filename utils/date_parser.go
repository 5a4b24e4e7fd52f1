package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// dd/mm/yyyy or dd-mm-yyyy, optional leading zeros and spaces around the
// separators, years 19xx/20xx.
var dateRe = regexp.MustCompile(
	`(0?[1-9]|[12][0-9]|3[01])\s*[/-]\s*` +
		`(0?[1-9]|1[0-2])\s*[/-]\s*` +
		`(19\d{2}|20\d{2})`,
)

const (
	dateContextWindow = 25
	maxAgeYears       = 120
)

var dobKeywords = []string{"dob", "d.o.b", "a/dob", "birth"}

// now is swapped in tests.
var now = time.Now

// DateCandidate is one date-like match in normalized text.
type DateCandidate struct {
	Day, Month, Year int

	// Tokens exactly as matched, leading zeros included.
	DayToken, MonthToken, YearToken string

	Raw     string
	Offset  int
	Context string
	Strong  bool
}

// Slash formats the candidate as day/month/year using the matched tokens.
func (c DateCandidate) Slash() string {
	return c.DayToken + "/" + c.MonthToken + "/" + c.YearToken
}

// FindDateCandidates scans text left to right. Candidates implying an age
// outside [0, 120] years are dropped.
func FindDateCandidates(text string) []DateCandidate {
	matches := dateRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	year := now().Year()
	out := make([]DateCandidate, 0, len(matches))

	for _, m := range matches {
		c := DateCandidate{
			DayToken:   text[m[2]:m[3]],
			MonthToken: text[m[4]:m[5]],
			YearToken:  text[m[6]:m[7]],
			Raw:        text[m[0]:m[1]],
			Offset:     m[0],
		}

		var err error
		if c.Day, err = strconv.Atoi(c.DayToken); err != nil {
			continue
		}
		if c.Month, err = strconv.Atoi(c.MonthToken); err != nil {
			continue
		}
		if c.Year, err = strconv.Atoi(c.YearToken); err != nil {
			continue
		}

		age := year - c.Year
		if age < 0 || age > maxAgeYears {
			continue
		}

		c.Context = strings.ToLower(contextWindow(text, m[0], dateContextWindow))
		c.Strong = hasDOBKeyword(c.Context)

		out = append(out, c)
	}

	return out
}

// contextWindow returns up to n characters before and n characters after
// the byte offset pos. Regional-script labels are multi-byte, so the window
// is counted in runes.
func contextWindow(text string, pos, n int) string {
	start := pos
	for i := 0; i < n && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}

	end := pos
	for i := 0; i < n && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}

	return text[start:end]
}

func hasDOBKeyword(context string) bool {
	for _, k := range dobKeywords {
		if strings.Contains(context, k) {
			return true
		}
	}
	return false
}

// ExtractDOBByContext returns the first date printed near a birth-date
// label ("DOB", "D.O.B", "Birth"), falling back to the first date at all.
// The result is the substring as matched.
func ExtractDOBByContext(text string) string {
	var weak string
	for _, c := range FindDateCandidates(text) {
		if c.Strong {
			return c.Raw
		}
		if weak == "" {
			weak = c.Raw
		}
	}
	return weak
}

// ExtractDOB returns the last date in text as day/month/year, ignoring
// labels. On UIDAI letters the issue/download dates usually precede the
// birth date.
func ExtractDOB(text string) string {
	candidates := FindDateCandidates(text)
	if len(candidates) == 0 {
		return ""
	}
	return candidates[len(candidates)-1].Slash()
}
