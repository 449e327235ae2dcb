package catalog

import "strings"

// MaxNameLength is the longest a plausible place name gets; anything longer
// is almost certainly a sentence captured by an extractor.
const MaxNameLength = 120

// Tokens that proper place names don't start with. A leading conjunction or
// pronoun means we captured a sentence fragment, not a name.
var fragmentLeadTokens = map[string]bool{
	"and": true, "or": true, "but": true, "so": true, "because": true,
	"it": true, "its": true, "this": true, "that": true, "these": true,
	"those": true, "he": true, "she": true, "they": true, "we": true,
	"you": true, "i": true, "which": true, "there": true,
}

// LooksLikeBadName flags names that look like extraction garbage rather than
// real place names. Advisory only: callers decide whether to hard-reject or
// flag for review.
func LooksLikeBadName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > MaxNameLength {
		return true
	}

	terminals := 0
	commas := 0
	for _, r := range trimmed {
		switch r {
		case '.', '!', '?':
			terminals++
		case ',':
			commas++
		}
	}
	// "St. Tropez" has one period; two or more terminals reads as prose
	if terminals >= 2 {
		return true
	}
	if commas >= 3 {
		return true
	}

	first := strings.ToLower(strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ' ' || r == '\t'
	})[0])
	first = strings.TrimRight(first, ".,!?;:")
	return fragmentLeadTokens[first]
}
