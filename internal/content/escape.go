package content

import (
	"regexp"
	"strings"
)

var (
	entityPattern = regexp.MustCompile(`^&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)

	specialChars = map[byte]string{
		'<':  "&lt;",
		'>':  "&gt;",
		'"':  "&quot;",
		'\'': "&#039;",
	}
)

// EscapeHTML escapes s for output in HTML text or attributes. Ampersands
// that already start a character reference are left alone, so escaping an
// escaped string is a no-op.
func EscapeHTML(s string) string {
	if !strings.ContainsAny(s, `<>&"'`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '&' {
			if m := entityPattern.FindString(s[i:]); m != "" {
				b.WriteString(m)
				i += len(m) - 1
				continue
			}
			b.WriteString("&amp;")
			continue
		}
		if rep, ok := specialChars[c]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
