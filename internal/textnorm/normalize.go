package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	markupTags      = regexp.MustCompile(`<[^<>]*>`)
	leadingLabel    = regexp.MustCompile(`^(?:\s*(?:>>\s*)?\p{Lu}[\p{L}\p{N}']*(?:\s+[\p{L}\p{N}']+){0,2}:\s)+`)
	inlineLabel     = regexp.MustCompile(`[A-Z]\w+:`)
	chevrons        = regexp.MustCompile(`>>+`)
	bracketed       = regexp.MustCompile(`\[[^\]]*\]`)
	parenthetical   = regexp.MustCompile(`\([^)]*\)`)
	asteriskNote    = regexp.MustCompile(`\*[^*]*\*`)
	hyphenatedBreak = regexp.MustCompile(`([A-Za-z])-([A-Za-z])`)
)

var quoteReplacer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"ʻ", "'",
	"´", "'",
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"&nbsp;", " ",
	"\u00a0", " ",
)

var continuationReplacer = strings.NewReplacer(
	"- ", " ",
	"— ", " ",
	"– ", " ",
)

// Normalize returns the cleaned form of a caption line. The result has no
// leading or trailing whitespace and single spaces between words.
//
// Passes repeat until the text is stable. Each pass only removes material or
// spells out digits, so the loop ends.
func Normalize(input string) string {
	current := input
	for {
		next := normalizeOnce(current)
		if next == current {
			return current
		}
		current = next
	}
}

func normalizeOnce(input string) string {
	s := " " + input + " "
	s = strings.ReplaceAll(s, ",", " ")
	s = strings.ReplaceAll(s, ".", " ")

	s = markupTags.ReplaceAllString(s, " ")
	s = leadingLabel.ReplaceAllString(s, " ")
	s = inlineLabel.ReplaceAllString(s, " ")
	s = chevrons.ReplaceAllString(s, " ")
	s = bracketed.ReplaceAllString(s, " ")
	s = parenthetical.ReplaceAllString(s, " ")
	s = asteriskNote.ReplaceAllString(s, " ")

	s = collapseHyphens(s)
	s = continuationReplacer.Replace(s)

	s = quoteReplacer.Replace(s)

	s = norm.NFKD.String(s)

	s = strings.ReplaceAll(s, "%", " percent ")
	s = expandNumbers(s)

	return strings.Join(strings.Fields(s), " ")
}

// collapseHyphens joins letter-hyphen-letter runs. Matches cannot overlap, so
// "a-b-c" needs a second replacement.
func collapseHyphens(s string) string {
	for {
		next := hyphenatedBreak.ReplaceAllString(s, "$1$2")
		if next == s {
			return s
		}
		s = next
	}
}

// expandNumbers spells out whitespace-delimited integers of one to three
// digits. Longer numbers and digits inside larger tokens stay as they are.
func expandNumbers(s string) string {
	fields := strings.Fields(s)
	changed := false
	for i, field := range fields {
		if len(field) > 3 || !allDigits(field) {
			continue
		}
		value := 0
		for _, r := range field {
			value = value*10 + int(r-'0')
		}
		if words, ok := NumberToWords(value); ok {
			fields[i] = words
			changed = true
		}
	}
	if !changed {
		return s
	}
	return strings.Join(fields, " ")
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
