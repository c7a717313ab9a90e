package message_test

import (
	"crypto"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailforge/mimecodec/crypto/pgp"
	"github.com/mailforge/mimecodec/message"
)

func newEntity(t *testing.T, name string) *openpgp.Entity {
	t.Helper()

	e, err := openpgp.NewEntity(name, "", name+"@example.com", &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA})
	require.NoError(t, err)
	return e
}

func TestPgp_SignVerify(t *testing.T) {
	t.Parallel()

	signer := newEntity(t, "sterling")
	keyring := openpgp.EntityList{signer}

	m := message.New()
	m.Body = "Hello World\n-- \nSterling"
	require.True(t, m.SignPgp(signer, crypto.SHA256))
	assert.True(t, m.PgpSigned)
	assert.True(t, strings.HasPrefix(m.Body, pgp.SignedMessageMarker))

	signed := m.Body
	tampered := message.New()
	tampered.Body = strings.Replace(signed, "Hello World", "Hello W0rld", 1)
	assert.False(t, tampered.VerifyPgpSignature(keyring))
	assert.Equal(t, strings.Replace(signed, "Hello World", "Hello W0rld", 1), tampered.Body)

	assert.False(t, m.VerifyPgpSignature(openpgp.EntityList{newEntity(t, "stranger")}))
	assert.Equal(t, signed, m.Body)

	require.True(t, m.VerifyPgpSignature(keyring))
	assert.Equal(t, "Hello World\n--\nSterling", m.Body)
}

func TestPgp_SignNoKey(t *testing.T) {
	t.Parallel()

	m := message.New()
	m.Body = "unsigned"
	assert.False(t, m.SignPgp(&openpgp.Entity{}, crypto.SHA256))
	assert.Equal(t, "unsigned", m.Body)
	assert.False(t, m.PgpSigned)
}

func TestPgp_ParsedClearSigned(t *testing.T) {
	t.Parallel()

	signer := newEntity(t, "sterling")

	m := message.New()
	m.Body = "Meet at noon."
	require.True(t, m.SignPgp(signer, crypto.SHA256))

	parsed := message.Parse("From: sterling@example.com\r\n" +
		"Subject: signed\r\n" +
		"Content-Transfer-Encoding: 7bit\r\n" +
		"\r\n" +
		m.Body)
	assert.True(t, parsed.PgpSigned)
	assert.False(t, parsed.PgpEncrypted)

	require.True(t, parsed.VerifyPgpSignature(openpgp.EntityList{signer}))
	assert.Equal(t, "Meet at noon.", parsed.Body)
}

func TestPgp_SignedParts(t *testing.T) {
	t.Parallel()

	signer := newEntity(t, "sterling")

	m := message.New()
	m.Body = "Split across parts."
	require.True(t, m.SignPgp(signer, crypto.SHA256))

	ix := strings.Index(m.Body, pgp.SignatureMarker)
	require.Positive(t, ix)
	content, sig := m.Body[:ix], m.Body[ix:]

	parsed := message.Parse("Subject: parts\r\n" +
		"Content-Type: multipart/mixed; boundary=p\r\n" +
		"\r\n" +
		"--p\r\n" +
		"Content-Type: text/plain\r\n" +
		"Content-Transfer-Encoding: 7bit\r\n" +
		"\r\n" +
		content + "\r\n" +
		"--p\r\n" +
		"Content-Type: application/pgp-signature; name=\"signature.asc\"\r\n" +
		"Content-Transfer-Encoding: 7bit\r\n" +
		"\r\n" +
		sig + "\r\n" +
		"--p--\r\n")

	assert.True(t, parsed.PgpSigned)
	require.True(t, parsed.VerifyPgpSignature(openpgp.EntityList{signer}))
	assert.Equal(t, "Split across parts.", parsed.Body)
}

func TestPgp_EncryptDecrypt(t *testing.T) {
	t.Parallel()

	recipient := newEntity(t, "recipient")
	keyring := openpgp.EntityList{recipient}

	m := message.New()
	m.Body = "top secret"
	m.Attachments = []*message.Attachment{
		{Name: "plans.txt", Content: []byte("the plans")},
		{Name: "sealed.pgp", Content: []byte("already sealed")},
	}

	require.True(t, m.EncryptPgp(recipient))
	assert.True(t, m.PgpEncrypted)
	assert.True(t, strings.HasPrefix(m.Body, pgp.MessageMarker))
	assert.Equal(t, "plans.txt.pgp", m.Attachments[0].Name)
	assert.True(t, strings.HasPrefix(string(m.Attachments[0].Content), pgp.MessageMarker))
	assert.Equal(t, "sealed.pgp", m.Attachments[1].Name)
	assert.Equal(t, "already sealed", string(m.Attachments[1].Content))

	encrypted := m.Body
	assert.False(t, m.DecryptPgp(openpgp.EntityList{newEntity(t, "stranger")}))
	assert.Equal(t, encrypted, m.Body)

	require.True(t, m.DecryptPgp(keyring))
	assert.Equal(t, "top secret", m.Body)
	assert.Equal(t, "plans.txt", m.Attachments[0].Name)
	assert.Equal(t, "the plans", string(m.Attachments[0].Content))
	assert.Equal(t, "sealed.pgp", m.Attachments[1].Name)
}

func TestPgp_EncryptNoRecipients(t *testing.T) {
	t.Parallel()

	m := message.New()
	m.Body = "open"
	assert.False(t, m.EncryptPgp())
	assert.Equal(t, "open", m.Body)
	assert.False(t, m.PgpEncrypted)
}

func TestPgp_ParsedEncrypted(t *testing.T) {
	t.Parallel()

	recipient := newEntity(t, "recipient")

	m := message.New()
	m.Body = "for your eyes"
	require.True(t, m.EncryptPgp(recipient))

	parsed := message.Parse("Subject: sealed\r\n" +
		"Content-Transfer-Encoding: 7bit\r\n" +
		"\r\n" +
		m.Body)
	assert.True(t, parsed.PgpEncrypted)

	require.True(t, parsed.DecryptPgp(openpgp.EntityList{recipient}))
	assert.Equal(t, "for your eyes", parsed.Body)
}

func TestPgp_DecryptNothing(t *testing.T) {
	t.Parallel()

	m := message.Parse("Subject: plain\r\n\r\njust words")
	assert.False(t, m.DecryptPgp(openpgp.EntityList{newEntity(t, "recipient")}))
	assert.Equal(t, "just words", m.Body)

	assert.False(t, m.VerifyPgpSignature(openpgp.EntityList{}))
	assert.Equal(t, "just words", m.Body)
}
