package transfer

import (
	"encoding/base64"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits used by the encoding sniffers.
const (
	// MinBase64Length is the shortest run of base64 alphabet that AppearsBase64
	// will accept. Shorter runs are too likely to be ordinary words.
	MinBase64Length = 8

	// QuotedPrintableDensity is the maximum number of bytes per escape sequence
	// that AppearsQuotedPrintable will accept when the text has no soft line
	// breaks.
	QuotedPrintableDensity = 200

	// ConfidentBase64Length is the length of base64 alphabet at which
	// AppearsBase64 stops checking that the data decodes to text.
	ConfidentBase64Length = 40
)

func isBase64Char(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '+', c == '/':
		return true
	}
	return false
}

func isUpperHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')
}

// AppearsBase64 reports whether the text looks like a base64 encoded body. The
// check is permissive: line breaks and trailing blanks are ignored, every line
// but the last must share one length, padding may only close the final line,
// and the total alphabet length must be a multiple of four. Runs shorter than
// ConfidentBase64Length must also contain a digit, "+", or "/" and decode to
// printable UTF-8 text, so plain words are not mistaken for data.
func AppearsBase64(s string) bool {
	lines := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\r' || r == '\n'
	})
	if len(lines) == 0 {
		return false
	}

	var data strings.Builder
	total := 0
	signal := false
	width := 0
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		last := i == len(lines)-1

		if !last {
			if width == 0 {
				width = len(line)
			} else if len(line) != width {
				return false
			}
		} else if width > 0 && len(line) > width {
			return false
		}

		pad := 0
		for j := 0; j < len(line); j++ {
			c := line[j]
			switch {
			case c == '=':
				if !last {
					return false
				}
				pad++
			case pad > 0, !isBase64Char(c):
				return false
			case c == '+' || c == '/' || (c >= '0' && c <= '9'):
				signal = true
			}
		}
		if pad > 2 {
			return false
		}

		total += len(line)
		data.WriteString(line)
	}

	if total < MinBase64Length || total%4 != 0 {
		return false
	}

	if total >= ConfidentBase64Length {
		return true
	}

	return signal && decodesToText(data.String())
}

// decodesToText reports whether s decodes to UTF-8 text with no control
// characters other than tab and line breaks.
func decodesToText(s string) bool {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil || !utf8.Valid(b) {
		return false
	}

	for _, r := range string(b) {
		if unicode.IsControl(r) && r != '\t' && r != '\r' && r != '\n' {
			return false
		}
	}

	return true
}

// AppearsQuotedPrintable reports whether the text looks like a
// quoted-printable encoded body. Every "=" must start a soft line break or an
// upper-case hex escape; and unless soft line breaks are present, escapes must
// occur at least once per QuotedPrintableDensity bytes.
func AppearsQuotedPrintable(s string) bool {
	escapes, soft := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != '=' {
			continue
		}

		rest := s[i+1:]
		switch {
		case rest == "", strings.HasPrefix(rest, "\r\n"), strings.HasPrefix(rest, "\n"):
			soft++
		case len(rest) >= 2 && isUpperHex(rest[0]) && isUpperHex(rest[1]):
			escapes++
			i += 2
		default:
			return false
		}
	}

	if soft > 0 {
		return true
	}

	return escapes > 0 && escapes*QuotedPrintableDensity >= len(s)
}

// Sniff guesses the transfer encoding of text that arrived without a declared
// Content-transfer-encoding. Base64 is preferred when both sniffers fire. None
// is returned when neither does.
func Sniff(s string) string {
	switch {
	case AppearsBase64(s):
		return Base64
	case AppearsQuotedPrintable(s):
		return QuotedPrintable
	}
	return None
}
