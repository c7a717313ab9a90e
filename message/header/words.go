package header

import (
	"bytes"
	"io"
	"mime"
	"strings"

	"github.com/mailforge/mimecodec/message/transfer"
)

var wordDecoder = &mime.WordDecoder{
	CharsetReader: func(charset string, input io.Reader) (io.Reader, error) {
		b, err := io.ReadAll(input)
		if err != nil {
			return nil, err
		}

		// an unknown charset still yields a best-effort decoding
		s, _ := transfer.DecodeCharset(charset, b)
		return strings.NewReader(s), nil
	},
}

// DecodeWords decodes any RFC 2047 encoded-words in s. When the text cannot
// be decoded it is returned unchanged.
func DecodeWords(s string) string {
	d, err := wordDecoder.DecodeHeader(s)
	if err != nil {
		return s
	}

	return d
}

// EncodeWords returns s unchanged when it is plain ASCII and as a UTF-8
// B-encoded word otherwise.
func EncodeWords(s string) string {
	if isASCII(s) {
		return s
	}

	return mime.BEncoding.Encode(transfer.DefaultCharset, s)
}

func isASCII(s string) bool {
	return bytes.IndexFunc([]byte(s), func(r rune) bool { return r > 0x7f }) < 0
}
