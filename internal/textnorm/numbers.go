package textnorm

var smallNumbers = [...]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = [...]string{
	2: "twenty", 3: "thirty", 4: "forty", 5: "fifty",
	6: "sixty", 7: "seventy", 8: "eighty", 9: "ninety",
}

// NumberToWords spells n in English for 0 <= n <= 999. Compound tens are
// space separated ("twenty one") and hundreds take "and" before a remainder
// ("one hundred and five"). The bool is false outside the supported range.
func NumberToWords(n int) (string, bool) {
	switch {
	case n < 0 || n > 999:
		return "", false
	case n < 20:
		return smallNumbers[n], true
	case n < 100:
		if n%10 == 0 {
			return tens[n/10], true
		}
		return tens[n/10] + " " + smallNumbers[n%10], true
	default:
		head := smallNumbers[n/100] + " hundred"
		if n%100 == 0 {
			return head, true
		}
		rest, _ := NumberToWords(n % 100)
		return head + " and " + rest, true
	}
}
