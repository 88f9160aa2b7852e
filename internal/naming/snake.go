// Package naming converts free-text resource labels into normalized tags.
package naming

import "strings"

// ToSnake converts a label such as "Request Group" or "HTTPRequest" into a
// lowercase, underscore-separated token.
//
// Runs of non-word characters collapse to a single separator, and a new
// fragment starts before every uppercase ASCII letter that directly follows
// another word character. Acronyms are not grouped: "HTTPRequest" becomes
// "h_t_t_p_request".
func ToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	prevWord := false
	inGap := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isWordByte(c) {
			if !inGap {
				b.WriteByte('_')
				inGap = true
			}
			prevWord = false
			continue
		}
		inGap = false
		if isUpper(c) {
			if prevWord {
				b.WriteByte('_')
			}
			c += 'a' - 'A'
		}
		b.WriteByte(c)
		prevWord = true
	}
	return b.String()
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// isWordByte reports whether c matches the ASCII word class [A-Za-z0-9_].
// Bytes of multi-byte UTF-8 sequences are never word bytes, so a non-ASCII
// rune collapses into a separator like any other punctuation.
func isWordByte(c byte) bool {
	return isUpper(c) || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
}
