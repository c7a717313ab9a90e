package header

import "strings"

// Break represents the linebreak to use when working with an email.
type Break string

// Constants for use when selecting a line break. Parsing always works in CRLF.
const (
	CRLF Break = "\x0d\x0a" // \r\n - Network linebreak
	LF   Break = "\x0a"     // \n - Unix/Linux/BSD linebreak
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Separator returns the blank line that divides a header from a body.
func (b Break) Separator() string {
	return string(b) + string(b)
}

// NormalizeBreaks converts bare LF line endings to CRLF, but only when the
// text contains no CR at all. Text that already uses CR somewhere is returned
// unchanged since rewriting it could not be undone.
func NormalizeBreaks(s string) string {
	if strings.ContainsRune(s, '\r') {
		return s
	}
	return strings.ReplaceAll(s, LF.String(), CRLF.String())
}

// unfold joins continuation lines (lines beginning with a space or tab) onto
// the line before them.
func unfold(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' && i+2 < len(s) && s[i+1] == '\n' && (s[i+2] == ' ' || s[i+2] == '\t') {
			i++
			continue
		}
		if s[i] == '\n' && i+1 < len(s) && (s[i+1] == ' ' || s[i+1] == '\t') {
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
