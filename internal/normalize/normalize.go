// Package normalize provides utilities for normalizing user-entered text.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SearchText folds a query or song title for matching: NFKC (so full-width
// characters compare equal to their ASCII forms), lower case, no whitespace.
// "Ｆｌｙ Ａｂｏｖｅ" -> "flyabove".
func SearchText(s string) string {
	s = norm.NFKC.String(sanitizeString(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// LaneText folds pasted lane text: NFKC turns full-width digits and asterisks
// into ASCII, and surrounding or embedded whitespace is dropped.
// "１２３ ４５６７" -> "1234567".
func LaneText(s string) string {
	s = norm.NFKC.String(sanitizeString(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// sanitizeString removes null bytes, which can cause issues in databases and
// JSON parsing.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}
