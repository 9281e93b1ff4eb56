package types

import "golang.org/x/text/cases"

// Fold lowercases s with full Unicode case folding. Keyword and location
// matching goes through this so that mixed-case and non-ASCII input
// compares consistently.
func Fold(s string) string {
	return cases.Fold().String(s)
}
