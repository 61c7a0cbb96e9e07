// Package strutil holds small string helpers shared by the search paths.
package strutil

import "strings"

// SplitText splits text on runs of whitespace. Leading and trailing
// whitespace produce no empty terms.
func SplitText(text string) []string {
	return strings.Fields(text)
}

// EmptyIfNil dereferences s, treating nil as the empty string.
func EmptyIfNil(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
