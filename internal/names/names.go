// Package names holds the display-name sanitizer shared by the server and
// the client, so both sides accept exactly the same set of names.
package names

import (
	"strings"
	"unicode"
)

// MaxLen is the maximum display-name length in runes.
const MaxLen = 15

// Sanitize strips every rune that is not a Unicode letter, a Unicode digit,
// an underscore, a hyphen, or a plain space, trims surrounding whitespace,
// and caps the result at MaxLen runes. The result of Sanitize is a fixed
// point: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if allowed(r) {
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	runes := []rune(out)
	if len(runes) > MaxLen {
		out = string(runes[:MaxLen])
		// Truncation can expose a trailing space, trim again so the
		// function stays idempotent.
		out = strings.TrimSpace(out)
	}
	return out
}

func allowed(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == ' '
}
