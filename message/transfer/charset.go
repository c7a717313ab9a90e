package transfer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultCharset is assumed when a body must be turned into bytes and no
// charset has been given.
const DefaultCharset = "utf-8"

func lookupCharset(charset string) (encoding.Encoding, error) {
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return nil, err
	}

	if e == nil {
		return nil, fmt.Errorf("no encoding found for charset %q", charset)
	}

	return e, nil
}

// isPassThrough covers the charsets whose bytes are already a valid Go
// string: UTF-8 and its ASCII subset.
func isPassThrough(charset string) bool {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return true
	}
	return false
}

// DecodeCharset transforms bytes in the named charset into a native string.
// Every IANA registered charset known to golang.org/x/text is supported.
//
// When the charset is empty, valid UTF-8 is passed through and anything else
// is read as windows-1252, which is what unlabeled 8-bit mail almost always
// is. An unsupported charset returns an error along with that same best-effort
// decoding.
func DecodeCharset(charset string, b []byte) (string, error) {
	fallback := func() string {
		if utf8.Valid(b) {
			return string(b)
		}
		s, _ := charmap.Windows1252.NewDecoder().Bytes(b)
		return string(s)
	}

	if charset == "" || isPassThrough(charset) {
		return fallback(), nil
	}

	e, err := lookupCharset(charset)
	if err != nil {
		return fallback(), err
	}

	db, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return fallback(), err
	}

	return string(db), nil
}

// EncodeCharset transforms a native string into bytes of the named charset,
// using DefaultCharset when the charset is empty. An unsupported charset (or
// a string that cannot be represented in it) returns an error along with the
// UTF-8 bytes of the string.
func EncodeCharset(charset, s string) ([]byte, error) {
	if charset == "" || isPassThrough(charset) {
		return []byte(s), nil
	}

	e, err := lookupCharset(charset)
	if err != nil {
		return []byte(s), err
	}

	es, err := e.NewEncoder().String(s)
	if err != nil {
		return []byte(s), err
	}

	return []byte(es), nil
}
