package reliability

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Similarity returns the insertion/deletion ratio of the lower-cased,
// whitespace-collapsed forms of a and b: 2*LCS / (len(a)+len(b)) over runes.
// A short transcript inside a long caption scores low rather than being
// credited for the shared prefix. Two empty strings are identical.
func Similarity(a, b string) float64 {
	ra := []rune(canonical(a))
	rb := []rune(canonical(b))
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return float64(2*commonSubsequence(ra, rb)) / float64(total)
}

// EditDistance is the Levenshtein distance between the canonical forms of a
// and b. It is reported alongside Similarity for each oracle sample.
func EditDistance(a, b string) int {
	return levenshtein.ComputeDistance(canonical(a), canonical(b))
}

func commonSubsequence(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func canonical(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
