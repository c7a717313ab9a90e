package transfer

import (
	"bytes"
	"io"
	"strings"
)

const (
	None            = ""                 // bytes will be left as-is
	Bit7            = "7bit"             // bytes will be left as-is
	Bit8            = "8bit"             // bytes will be left as-is
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // bytes will be transformed between quoted-printable and binary data
	Base64          = "base64"           // bytes will be transformed between base64 and binary data
)

// Transcoding is a pair of functions that can be used to transform to and from
// a transfer encoding.
type Transcoding struct {
	// Encoder returns an io.WriteCloser, which will encode binary data and
	// write the encoded form to the given io.Writer. You must call Close() on
	// the returned io.WriteCloser when you are finished.
	Encoder func(io.Writer) io.WriteCloser

	// Decoder returns an io.Reader, which will read from the given io.Reader
	// when read and decode the encoded data back into binary form the encoded
	// form.
	Decoder func(io.Reader) io.Reader
}

// AsIsTranscoder is just a shortcut to a no-op encoder/decoder.
var AsIsTranscoder = Transcoding{NewAsIsEncoder, NewAsIsDecoder}

// Transcodings defines the supported Content-transfer-encodings and how to
// handle them. It can be modified to change the global handling of transfer
// encodings.
var Transcodings = map[string]Transcoding{
	None:            AsIsTranscoder,
	Bit7:            AsIsTranscoder,
	Bit8:            AsIsTranscoder,
	Binary:          AsIsTranscoder,
	QuotedPrintable: {NewQuotedPrintableEncoder, NewQuotedPrintableDecoder},
	Base64:          {NewBase64Encoder, NewBase64Decoder},
}

// Normalize lower-cases and trims a Content-transfer-encoding value so it can
// be used to look up a Transcoding.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup returns the Transcoding for the named encoding. Unknown names get the
// AsIsTranscoder and false.
func Lookup(name string) (Transcoding, bool) {
	tc, known := Transcodings[Normalize(name)]
	if !known {
		return AsIsTranscoder, false
	}
	return tc, true
}

// Encode returns the given bytes in the named transfer encoding. Unknown
// encodings are treated as a pass through.
func Encode(b []byte, name string) string {
	tc, _ := Lookup(name)

	buf := &bytes.Buffer{}
	w := tc.Encoder(buf)
	_, _ = w.Write(b)
	_ = w.Close()

	return buf.String()
}

// Decode returns the bytes held in the transfer encoded text. Unknown
// encodings are treated as a pass through. When decoding fails part way, the
// error is returned along with whatever could be decoded.
func Decode(s, name string) ([]byte, error) {
	tc, _ := Lookup(name)
	return io.ReadAll(tc.Decoder(strings.NewReader(s)))
}
