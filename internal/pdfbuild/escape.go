package pdfbuild

import (
	"strings"
	"time"
)

// EscapeString escapes the characters spec §4.4 names for a PDF string
// literal — backslash, both parentheses, and the three whitespace control
// codes — and wraps the result in parentheses. strings.NewReplacer makes a
// single pass over text, so the backslashes the other replacements insert
// are never escaped a second time.
func EscapeString(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`(`, `\(`,
		`)`, `\)`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return "(" + replacer.Replace(text) + ")"
}

// UnescapeString reverses EscapeString, given the literal's content with
// the surrounding parentheses already stripped.
func UnescapeString(escaped string) string {
	var b strings.Builder
	for i := 0; i < len(escaped); i++ {
		if escaped[i] == '\\' && i+1 < len(escaped) {
			switch escaped[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case '(', ')', '\\':
				b.WriteByte(escaped[i+1])
				i++
				continue
			}
		}
		b.WriteByte(escaped[i])
	}
	return b.String()
}

// FormatDateTime renders t in UTC as the PDF date literal
// "D:YYYYMMDDHHMMSS+00'00'", already escaped as a string literal.
func FormatDateTime(t time.Time) string {
	return EscapeString("D:" + t.UTC().Format("20060102150405") + "+00'00'")
}
