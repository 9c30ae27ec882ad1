package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AlphaNumeric reduces text to upper-case letters, digits and apostrophes
// separated by single spaces.
func AlphaNumeric(input string) string {
	lowered := cases.Lower(language.Und).String(input)
	reduced := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '\'' {
			return r
		}
		return ' '
	}, lowered)
	collapsed := strings.Join(strings.Fields(reduced), " ")
	return cases.Upper(language.Und).String(collapsed)
}

// WordCount reports the number of whitespace separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
