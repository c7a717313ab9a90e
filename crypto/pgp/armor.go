package pgp

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// Armor markers.
const (
	MessageMarker       = "-----BEGIN PGP MESSAGE-----"
	MessageEndMarker    = "-----END PGP MESSAGE-----"
	SignedMessageMarker = "-----BEGIN PGP SIGNED MESSAGE-----"
	SignatureMarker     = "-----BEGIN PGP SIGNATURE-----"
	SignatureEndMarker  = "-----END PGP SIGNATURE-----"
)

// ErrNoBlock is returned when text holds no armored block of the kind
// requested.
var ErrNoBlock = errors.New("no armored block found")

// Block returns the text between the begin marker and the end marker, not
// including the line holding the begin marker. When the end marker is
// missing, everything after the begin marker is returned.
func Block(text, begin, end string) (string, bool) {
	ix := strings.Index(text, begin)
	if ix < 0 {
		return "", false
	}

	rest := text[ix+len(begin):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	} else {
		rest = ""
	}

	if jx := strings.Index(rest, end); jx >= 0 {
		rest = rest[:jx]
	}

	return rest, true
}

// StripArmorHeaders drops the armor header lines (such as "Hash: SHA256"
// or "Version: ...") and the blank line ending them. Text with no blank line
// is returned as is.
func StripArmorHeaders(block string) string {
	for i := 0; i < len(block); {
		nl := strings.IndexByte(block[i:], '\n')
		if nl < 0 {
			break
		}

		line := strings.TrimRight(block[i:i+nl], "\r")
		if line == "" {
			return block[i+nl+1:]
		}
		i += nl + 1
	}

	return block
}

// Dearmor decodes an armored payload of the given block type, such as
// "PGP MESSAGE", whose armor headers have already been stripped. The payload
// is wrapped back in its begin and end lines and read with the armor
// decoder, so a checksum line, when present, must match.
func Dearmor(blockType string, payload []byte) ([]byte, error) {
	body := strings.ReplaceAll(string(payload), "\r\n", "\n")
	if strings.TrimSpace(body) == "" {
		return nil, ErrNoBlock
	}
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	wrapped := "-----BEGIN " + blockType + "-----\n\n" + body + "-----END " + blockType + "-----\n"
	block, err := armor.Decode(strings.NewReader(wrapped))
	if err != nil {
		return nil, fmt.Errorf("unable to read armor: %w", err)
	}

	if block.Type != blockType {
		return nil, ErrNoBlock
	}

	b, err := io.ReadAll(block.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read armor: %w", err)
	}

	return b, nil
}

// Canonical turns clear-signed text into the form that was signed: dash
// escapes are removed, trailing whitespace is dropped from each line, and
// lines are joined with CRLF. One trailing line break, which belongs to the
// signature armor, is dropped.
func Canonical(text []byte) []byte {
	s := strings.TrimSuffix(string(text), "\n")
	s = strings.TrimSuffix(s, "\r")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		lines[i] = strings.TrimPrefix(line, "- ")
	}

	return []byte(strings.Join(lines, "\r\n"))
}
