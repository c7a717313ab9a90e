package message

import (
	"crypto"
	"io"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"

	"github.com/mailforge/mimecodec/crypto/pgp"
	"github.com/mailforge/mimecodec/message/transfer"
)

// pgpSuffix marks the name of an encrypted attachment.
const pgpSuffix = ".pgp"

// SignPgp clear-signs the body with the signer's private key using hash.
// The body is signed in its charset, UTF-8 when it has none. On success the
// body is replaced by the signed message. It returns false, leaving the
// message alone, when signing fails.
func (m *Message) SignPgp(signer *openpgp.Entity, hash crypto.Hash) bool {
	plaintext, err := transfer.EncodeCharset(m.bodyCharset(), m.Body)
	if err != nil {
		m.log().Debug().Err(err).Msg("unable to encode body for signing")
		return false
	}

	signed, err := m.primitive().Sign(plaintext, signer, hash)
	if err != nil {
		m.log().Debug().Err(err).Msg("unable to sign body")
		return false
	}

	m.Body = string(signed)
	m.PgpSigned = true
	m.pgpSignedText, m.pgpSignatureText = "", ""
	return true
}

// VerifyPgpSignature checks a clear-signed message against keyring. The
// signed message and the signature are taken from the parts they were found
// in when the message was parsed, or from the body otherwise. On success the
// body is replaced by the text that was signed. It returns false, leaving the
// message alone, when either block is missing or the signature does not
// verify.
func (m *Message) VerifyPgpSignature(keyring openpgp.KeyRing) bool {
	signedText, sigText := m.pgpSignedText, m.pgpSignatureText
	if signedText == "" || sigText == "" {
		signedText, sigText = m.Body, m.Body
	}

	content, found := pgp.Block(signedText, pgp.SignedMessageMarker, pgp.SignatureMarker)
	if !found {
		m.log().Debug().Msg("no signed message to verify")
		return false
	}

	sig, found := pgp.Block(sigText, pgp.SignatureMarker, pgp.SignatureEndMarker)
	if !found {
		m.log().Debug().Msg("no signature to verify against")
		return false
	}

	content = pgp.StripArmorHeaders(content)
	sig = pgp.StripArmorHeaders(sig)
	if err := m.primitive().Verify([]byte(content), []byte(sig), keyring); err != nil {
		m.log().Debug().Err(err).Msg("signature did not verify")
		return false
	}

	m.Body = unescapeDashes(content)
	return true
}

// unescapeDashes removes the dash escaping and the final line break of
// clear-signed text.
func unescapeDashes(content string) string {
	content = strings.TrimSuffix(content, "\n")
	content = strings.TrimSuffix(content, "\r")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "- ")
	}

	return strings.Join(lines, "\n")
}

// EncryptPgp encrypts the body to the recipients and replaces the body with
// the armored result. Each attachment whose name does not already end in
// ".pgp" is then encrypted as well and gets that suffix. An attachment that
// fails to encrypt is left as it is. It returns false, leaving the message
// alone, when the body cannot be encrypted.
func (m *Message) EncryptPgp(recipients ...*openpgp.Entity) bool {
	plaintext, err := transfer.EncodeCharset(m.bodyCharset(), m.Body)
	if err != nil {
		m.log().Debug().Err(err).Msg("unable to encode body for encryption")
		return false
	}

	to := openpgp.EntityList(recipients)
	encrypted, err := m.primitive().Encrypt(plaintext, to)
	if err != nil {
		m.log().Debug().Err(err).Msg("unable to encrypt body")
		return false
	}

	m.Body = string(encrypted)
	m.PgpEncrypted = true
	m.pgpEncryptedText = ""

	for _, a := range m.Attachments {
		if strings.HasSuffix(strings.ToLower(a.Name), pgpSuffix) {
			continue
		}

		content, err := io.ReadAll(a.Open())
		if err != nil {
			m.log().Debug().Err(err).Str("name", a.Name).Msg("unable to read attachment")
			continue
		}

		out, err := m.primitive().Encrypt(content, to)
		if err != nil {
			m.log().Debug().Err(err).Str("name", a.Name).Msg("unable to encrypt attachment")
			continue
		}

		a.Content, a.Reader = out, nil
		a.Name += pgpSuffix
	}

	return true
}

// DecryptPgp decrypts the encrypted message found in the parts when the
// message was parsed, or in the body otherwise, and replaces the body with
// the plain text. Each attachment whose name ends in ".pgp" is then
// decrypted as well and loses that suffix. An attachment that fails to
// decrypt is left as it is. It returns false, leaving the message alone,
// when there is no encrypted message or it cannot be decrypted.
func (m *Message) DecryptPgp(keyring openpgp.KeyRing) bool {
	text := m.pgpEncryptedText
	if text == "" {
		text = m.Body
	}

	plaintext, err := m.decrypt(text, keyring)
	if err != nil {
		m.log().Debug().Err(err).Msg("unable to decrypt body")
		return false
	}

	body, err := transfer.DecodeCharset(m.CharSet, plaintext)
	if err != nil {
		m.log().Debug().Err(err).Str("charset", m.CharSet).Msg("decrypted body decoded on a best-effort basis")
	}

	m.Body = body
	m.pgpEncryptedText = ""

	for _, a := range m.Attachments {
		if !strings.HasSuffix(strings.ToLower(a.Name), pgpSuffix) {
			continue
		}

		content, err := io.ReadAll(a.Open())
		if err != nil {
			m.log().Debug().Err(err).Str("name", a.Name).Msg("unable to read attachment")
			continue
		}

		out, err := m.decrypt(string(content), keyring)
		if err != nil {
			m.log().Debug().Err(err).Str("name", a.Name).Msg("unable to decrypt attachment")
			continue
		}

		a.Content, a.Reader = out, nil
		a.Name = a.Name[:len(a.Name)-len(pgpSuffix)]
	}

	return true
}

// decrypt opens the first armored PGP message in text.
func (m *Message) decrypt(text string, keyring openpgp.KeyRing) ([]byte, error) {
	block, found := pgp.Block(text, pgp.MessageMarker, pgp.MessageEndMarker)
	if !found {
		return nil, pgp.ErrNoBlock
	}

	return m.primitive().Decrypt([]byte(pgp.StripArmorHeaders(block)), keyring)
}
