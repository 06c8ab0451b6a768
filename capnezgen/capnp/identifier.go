package capnp

import (
	"strings"
	"unicode"
)

// Identifier normalization for Cap'n Proto schema text. Type names must be
// UpperCamelCase and member names (fields, enumerants, methods, parameters)
// lowerCamelCase. Host identifiers arrive either snake_case or already
// camel-cased; both normalize cleanly. Segments that are entirely upper-case
// (MY_FIELD) are folded to lower case before re-casing, and empty segments
// contribute no characters.

// TypeName rewrites a host identifier into UpperCamelCase.
func TypeName(ident string) string {
	return joinWords(splitWords(ident), true)
}

// MemberName rewrites a host identifier into lowerCamelCase.
func MemberName(ident string) string {
	return joinWords(splitWords(ident), false)
}

// splitWords splits on underscores and drops empty segments. An all-caps
// segment is lowered so SCREAMING_SNAKE identifiers round-trip sensibly.
func splitWords(ident string) []string {
	parts := strings.Split(ident, "_")
	words := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		if isAllUpper(p) {
			p = strings.ToLower(p)
		}
		words = append(words, p)
	}
	return words
}

func joinWords(words []string, upperFirst bool) string {
	var b strings.Builder
	for i, w := range words {
		r := []rune(w)
		if i == 0 && !upperFirst {
			r[0] = unicode.ToLower(r[0])
		} else {
			r[0] = unicode.ToUpper(r[0])
		}
		b.WriteString(string(r))
	}
	return b.String()
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
