package mime_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailforge/mimecodec/crypto/smime"
	"github.com/mailforge/mimecodec/message/mime"
	"github.com/mailforge/mimecodec/message/transfer"
)

const alternativeMsg = "This is a preamble\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Hello\r\n" +
	"--b1\r\n" +
	"Content-Type: text/html\r\n" +
	"\r\n" +
	"<p>Hello</p>\r\n" +
	"--b1--\r\n" +
	"epilogue"

const nestedMsg = "--outer\r\n" +
	"Content-Type: multipart/alternative; boundary=inner\r\n" +
	"\r\n" +
	"--inner\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"plain\r\n" +
	"--inner\r\n" +
	"Content-Type: text/html\r\n" +
	"\r\n" +
	"<b>html</b>\r\n" +
	"--inner--\r\n" +
	"--outer\r\n" +
	"Content-Type: application/octet-stream; name=\"data.bin\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"Content-ID: <data@example.com>\r\n" +
	"Content-Disposition: attachment; filename=\"data.bin\"\r\n" +
	"\r\n" +
	"AAECAwQFBgc=\r\n" +
	"--outer--\r\n"

func mediaTypes(parts []*mime.Part) []string {
	mts := make([]string, len(parts))
	for i, p := range parts {
		mts[i] = p.MediaType
	}
	return mts
}

func TestSplit_Alternative(t *testing.T) {
	t.Parallel()

	parts := mime.Split("multipart/alternative; boundary=b1", "", "", alternativeMsg, 0)
	require.Len(t, parts, 2)

	assert.Equal(t, "text/plain", parts[0].MediaType)
	assert.Equal(t, "utf-8", parts[0].CharSet)
	assert.Equal(t, "Hello", parts[0].Body)
	assert.True(t, parts[0].IsText())
	assert.False(t, parts[0].IsHTML())

	assert.Equal(t, "text/html", parts[1].MediaType)
	assert.Equal(t, "<p>Hello</p>", parts[1].Body)
	assert.True(t, parts[1].IsHTML())
}

func TestSplit_LF(t *testing.T) {
	t.Parallel()

	body := strings.ReplaceAll(alternativeMsg, "\r\n", "\n")
	parts := mime.Split("multipart/alternative; boundary=b1", "", "", body, 0)
	require.Len(t, parts, 2)
	assert.Equal(t, "Hello", parts[0].Body)
	assert.Equal(t, "<p>Hello</p>", parts[1].Body)
}

func TestSplit_Nested(t *testing.T) {
	t.Parallel()

	parts := mime.Split("multipart/mixed; boundary=outer", "", "", nestedMsg, 0)
	require.Len(t, parts, 3)
	assert.Equal(t, []string{"text/plain", "text/html", "application/octet-stream"}, mediaTypes(parts))

	att := parts[2]
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7}, att.Bytes)
	assert.Equal(t, "base64", att.TransferEncoding)
	assert.Equal(t, "data.bin", att.Name)
	assert.Equal(t, "data@example.com", att.ContentID)
	assert.Equal(t, "attachment", att.Disposition)
}

func TestSplit_MaxDepth(t *testing.T) {
	t.Parallel()

	parts := mime.Split("multipart/mixed; boundary=outer", "", "", nestedMsg, 0, mime.WithMaxDepth(1))
	assert.Equal(t, []string{"multipart/alternative", "application/octet-stream"}, mediaTypes(parts))

	parts = mime.Split("multipart/mixed; boundary=outer", "", "", nestedMsg, 0, mime.WithMaxDepth(0))
	assert.Empty(t, parts)
}

func TestSplit_Malformed(t *testing.T) {
	t.Parallel()

	assert.Empty(t, mime.Split("text/plain", "", "", "hello", 0))
	assert.Empty(t, mime.Split("multipart/mixed; boundary=zzz", "", "", "no boundaries here", 0))
	assert.Empty(t, mime.Split("multipart/mixed; boundary=zzz", "", "", "", 0))

	// missing closing boundary
	parts := mime.Split("multipart/mixed; boundary=b", "", "", "--b\r\nContent-Type: text/plain\r\n\r\none\r\n--b\r\nContent-Type: text/plain\r\n\r\ntwo\r\n", 0)
	require.Len(t, parts, 2)
	assert.Equal(t, "one", parts[0].Body)
	assert.Equal(t, "two", strings.TrimSpace(parts[1].Body))

	// part without a header
	parts = mime.Split("multipart/mixed; boundary=b", "", "", "--b\r\n\r\njust text\r\n--b--", 0)
	require.Len(t, parts, 1)
	assert.Equal(t, "", parts[0].MediaType)
	assert.Equal(t, "just text", parts[0].Body)
	assert.True(t, parts[0].IsText())
}

func TestSplit_CharsetInherited(t *testing.T) {
	t.Parallel()

	body := "--b\r\nContent-Type: text/plain\r\nContent-Transfer-Encoding: quoted-printable\r\n\r\ncaf=E9\r\n--b--\r\n"
	parts := mime.Split("multipart/mixed; boundary=b", "iso-8859-1", "", body, 0)
	require.Len(t, parts, 1)
	assert.Equal(t, "café", parts[0].Body)
	assert.Equal(t, "iso-8859-1", parts[0].CharSet)
}

func TestWalk(t *testing.T) {
	t.Parallel()

	root := mime.Tree("multipart/mixed; boundary=outer", "", "", nestedMsg, 0)
	require.NotNil(t, root)

	var depths []int
	err := mime.Walk(func(e *mime.Entity, parents []*mime.Entity) error {
		depths = append(depths, len(parents))
		return nil
	}, root)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 2, 1}, depths)
	assert.True(t, root.IsMultipart())
}

func newIdentity(t *testing.T) *smime.CMS {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(7),
		Subject:      pkix.Name{CommonName: "sterling@example.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	return &smime.CMS{Certificate: cert, PrivateKey: key}
}

func signedEntity(t *testing.T, cms *smime.CMS, boundary, content string) string {
	t.Helper()

	sig, err := cms.SignDetached([]byte(content))
	require.NoError(t, err)

	return "--" + boundary + "\r\n" +
		content + "\r\n" +
		"--" + boundary + "\r\n" +
		"Content-Type: application/pkcs7-signature; name=smime.p7s\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		transfer.Encode(sig, transfer.Base64) +
		"--" + boundary + "--\r\n"
}

const signedType = `multipart/signed; protocol="application/pkcs7-signature"; micalg=sha-256; boundary=`

func TestSplit_SMIMESigned(t *testing.T) {
	t.Parallel()

	cms := newIdentity(t)
	body := signedEntity(t, cms, "s", "Content-Type: text/plain\r\n\r\nsigned hello")

	parts := mime.Split(signedType+"s", "", "", body, 0, mime.WithSMIME(cms), mime.WithLogger(zerolog.Nop()))
	require.Len(t, parts, 2)
	assert.Equal(t, "signed hello", parts[0].Body)
	assert.True(t, parts[0].Signed)
	assert.False(t, parts[0].Encrypted)
	assert.False(t, parts[0].TripleWrapped)
	require.Len(t, parts[0].Certificates, 1)
	assert.True(t, parts[1].IsSignature())

	tampered := strings.Replace(body, "signed hello", "signed hellO", 1)
	parts = mime.Split(signedType+"s", "", "", tampered, 0, mime.WithSMIME(cms))
	require.Len(t, parts, 2)
	assert.False(t, parts[0].Signed)

	parts = mime.Split(signedType+"s", "", "", body, 0)
	require.Len(t, parts, 2)
	assert.False(t, parts[0].Signed)
}

func TestSplit_SMIMEEnveloped(t *testing.T) {
	t.Parallel()

	cms := newIdentity(t)
	der, err := smime.Envelope([]byte("Content-Type: text/plain\r\n\r\nsecret"), cms.Certificate)
	require.NoError(t, err)

	ct := "application/pkcs7-mime; smime-type=enveloped-data; name=smime.p7m"
	body := transfer.Encode(der, transfer.Base64)

	parts := mime.Split(ct, "", "base64", body, 0, mime.WithSMIME(cms))
	require.Len(t, parts, 2)
	assert.True(t, parts[0].IsEnvelope())
	assert.True(t, parts[0].Unwrapped)
	assert.Equal(t, "smime.p7m", parts[0].Name)
	assert.Equal(t, "secret", parts[1].Body)
	assert.True(t, parts[1].Encrypted)
	assert.False(t, parts[1].Signed)

	assert.Empty(t, mime.Split(ct, "", "base64", body, 0))
}

func TestSplit_SMIMETripleWrapped(t *testing.T) {
	t.Parallel()

	cms := newIdentity(t)

	inner := "Content-Type: " + signedType + "in\r\n\r\n" +
		signedEntity(t, cms, "in", "Content-Type: text/plain\r\n\r\ntriple")

	der, err := smime.Envelope([]byte(inner), cms.Certificate)
	require.NoError(t, err)

	sealed := "Content-Type: application/pkcs7-mime; smime-type=enveloped-data\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		strings.TrimSuffix(transfer.Encode(der, transfer.Base64), "\r\n")

	body := signedEntity(t, cms, "out", sealed)

	parts := mime.Split(signedType+"out", "", "", body, 0, mime.WithSMIME(cms))
	require.Len(t, parts, 4)
	assert.True(t, parts[0].IsEnvelope())
	assert.True(t, parts[0].Signed)
	assert.False(t, parts[0].Encrypted)

	text := parts[1]
	assert.Equal(t, "triple", text.Body)
	assert.True(t, text.Signed)
	assert.True(t, text.Encrypted)
	assert.True(t, text.TripleWrapped)
	assert.Len(t, text.Certificates, 2)

	assert.True(t, parts[2].IsSignature())
	assert.True(t, parts[3].IsSignature())
}
