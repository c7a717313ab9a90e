package transfer_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailforge/mimecodec/message/transfer"
)

const dec = `1 Timothy 6:10 - For the love of money is a root of all kinds of evils. It is through this craving that some have wandered away from the faith and pierced themselves with many pangs.`
const enc = `MSBUaW1vdGh5IDY6MTAgLSBGb3IgdGhlIGxvdmUgb2YgbW9uZXkgaXMgYSByb290IG9mIGFsbCBr
aW5kcyBvZiBldmlscy4gSXQgaXMgdGhyb3VnaCB0aGlzIGNyYXZpbmcgdGhhdCBzb21lIGhhdmUg
d2FuZGVyZWQgYXdheSBmcm9tIHRoZSBmYWl0aCBhbmQgcGllcmNlZCB0aGVtc2VsdmVzIHdpdGgg
bWFueSBwYW5ncy4=`

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func TestEncode_Base64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, crlf(enc)+"\r\n", transfer.Encode([]byte(dec), transfer.Base64))
}

func TestDecode_Base64(t *testing.T) {
	t.Parallel()

	b, err := transfer.Decode(crlf(enc), "BASE64")
	assert.NoError(t, err)
	assert.Equal(t, []byte(dec), b)
}

func TestNewBase64Encoder_SmallWrites(t *testing.T) {
	t.Parallel()

	w := &bytes.Buffer{}
	bw := transfer.NewBase64Encoder(w)
	for i := 0; i < len(dec); i += 7 {
		end := i + 7
		if end > len(dec) {
			end = len(dec)
		}
		_, err := bw.Write([]byte(dec[i:end]))
		require.NoError(t, err)
	}
	require.NoError(t, bw.Close())

	assert.Equal(t, crlf(enc)+"\r\n", w.String())
}

// we only need to test that qp is being applied, not that the encoding is
// working correctly... we'll trust the golang core team to have done that
// already

var qpEnc = []byte("=3D>?")
var qpDec = []byte{0x3d, 0x3e, 0x3f}

func TestNewQuotedPrintableDecoder(t *testing.T) {
	t.Parallel()

	r := bytes.NewReader(qpEnc)
	qpdr := transfer.NewQuotedPrintableDecoder(r)
	db, err := io.ReadAll(qpdr)
	assert.NoError(t, err)
	assert.Equal(t, qpDec, db)
}

func TestNewQuotedPrintableEncoder(t *testing.T) {
	t.Parallel()

	w := &bytes.Buffer{}
	qpewc := transfer.NewQuotedPrintableEncoder(w)
	n, err := qpewc.Write(qpDec)
	assert.Equal(t, len(qpDec), n)
	assert.NoError(t, err)

	err = qpewc.Close()
	assert.NoError(t, err)

	assert.Equal(t, qpEnc, w.Bytes())
}

func TestDecode_UnknownIsPassThrough(t *testing.T) {
	t.Parallel()

	b, err := transfer.Decode("=3D not touched", "x-uuencode")
	assert.NoError(t, err)
	assert.Equal(t, "=3D not touched", string(b))

	_, known := transfer.Lookup("x-uuencode")
	assert.False(t, known)
	_, known = transfer.Lookup(" Quoted-Printable ")
	assert.True(t, known)
}

func TestAppearsBase64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		expect bool
	}{
		{"wrapped", crlf(enc), true},
		{"single line", "SGVsbG8sIHdvcmxkIQ==", true},
		{"plain word", "test", false},
		{"short alphabet run", "abcdefgh", false},
		{"short run with digits", "test1234", false},
		{"short lines", "abcd\r\nefgh", false},
		{"short text", "aGVsbG8gMTIz", true},
		{"sentence", "Hello there, this is a message.", false},
		{"bad padding", "SGVs=bG8s", false},
		{"ragged lines", "SGVsbG8sIHdv\r\ncmxk\r\nIQ==", false},
		{"empty", "", false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.expect, transfer.AppearsBase64(test.in))
		})
	}
}

func TestAppearsQuotedPrintable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		expect bool
	}{
		{"escapes", "caf=C3=A9 au lait", true},
		{"soft break", "a long line that was wrapped=\r\nright here", true},
		{"no equals", "nothing to see", false},
		{"url", "https://example.com/?a=1&b=two", false},
		{"lower hex", "caf=c3=a9", false},
		{"sparse", "=3D" + strings.Repeat("x", 1000), false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.expect, transfer.AppearsQuotedPrintable(test.in))
		})
	}
}

func TestSniff(t *testing.T) {
	t.Parallel()

	assert.Equal(t, transfer.Base64, transfer.Sniff("SGVsbG8sIHdvcmxkIQ=="))
	assert.Equal(t, transfer.QuotedPrintable, transfer.Sniff("caf=C3=A9"))
	assert.Equal(t, transfer.None, transfer.Sniff("just text"))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	res := transfer.Resolve("caf=E9", "quoted-printable", "iso-8859-1")
	assert.Equal(t, "café", res.Text)
	assert.Equal(t, []byte("caf\xe9"), res.Bytes)
	assert.Equal(t, transfer.QuotedPrintable, res.Encoding)
	assert.False(t, res.Inferred)
	assert.True(t, res.Decoded)
	assert.NoError(t, res.Err)

	res = transfer.Resolve("SGVsbG8sIHdvcmxkIQ==", "", "")
	assert.Equal(t, "Hello, world!", res.Text)
	assert.Equal(t, transfer.Base64, res.Encoding)
	assert.True(t, res.Inferred)
	assert.True(t, res.Decoded)

	res = transfer.Resolve("Plain text.", "7bit", "us-ascii")
	assert.Equal(t, "Plain text.", res.Text)
	assert.False(t, res.Decoded)

	res = transfer.Resolve("!!!not base64!!!", "base64", "")
	assert.Equal(t, "!!!not base64!!!", res.Text)
	assert.False(t, res.Decoded)
	assert.Error(t, res.Err)
}

func TestCharsetRoundTrip(t *testing.T) {
	t.Parallel()

	b, err := transfer.EncodeCharset("iso-8859-1", "café")
	require.NoError(t, err)
	assert.Equal(t, []byte("caf\xe9"), b)

	s, err := transfer.DecodeCharset("ISO-8859-1", b)
	require.NoError(t, err)
	assert.Equal(t, "café", s)

	s, err = transfer.DecodeCharset("", []byte("caf\xe9"))
	assert.NoError(t, err)
	assert.Equal(t, "café", s)

	_, err = transfer.DecodeCharset("x-no-such-charset", []byte("abc"))
	assert.Error(t, err)
}
