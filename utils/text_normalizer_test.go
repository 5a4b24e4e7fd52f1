package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	lines := []string{"  Government of\tIndia ", "", "DOB:\n15/08/1990  ", "MALE"}

	got := NormalizeText(lines)
	assert.Equal(t, "Government of India DOB: 15/08/1990 MALE", got)
}

func TestNormalizeTextUnicodeWhitespace(t *testing.T) {
	lines := []string{"DOB:\v15/08/1990", "Male\u0085Ramesh\u2028Kumar\u2029", "\u3000"}

	got := NormalizeText(lines)
	assert.Equal(t, "DOB: 15/08/1990 Male Ramesh Kumar", got)
	assert.Equal(t, got, NormalizeText([]string{got}))
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := [][]string{
		{"a\n\n b ", "c\t\td"},
		{"", "  ", "\r\n"},
		{"１２３４　５６７８　９０１２"},
		{},
	}

	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText([]string{once}))
	}
}

func TestNormalizeTextFoldsFullWidth(t *testing.T) {
	got := NormalizeText([]string{"１２３４　５６７８　９０１２"})
	assert.Equal(t, "1234 5678 9012", got)
	assert.Equal(t, "1234 5678 9012", ExtractAadhaarNumber(got))
}

func TestNormalizeLines(t *testing.T) {
	lines := []string{"Header", "  To  ", "", "   ", "first\nsecond", "last"}

	assert.Equal(t,
		[]string{"Header", "To", "first", "second", "last"},
		NormalizeLines(lines),
	)
	assert.Empty(t, NormalizeLines(nil))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "", "c"}, SplitLines("a\r\nb\n\rc"))
}
