package pgp

import (
	"bytes"
	"crypto"
	"errors"
	"fmt"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/clearsign"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// Armor block types.
const (
	messageType   = "PGP MESSAGE"
	signatureType = "PGP SIGNATURE"
)

// Errors returned by OpenPGP.
var (
	// ErrNoPrivateKey is returned by Sign when the signer has no private key.
	ErrNoPrivateKey = errors.New("signer has no private key")

	// ErrNoRecipients is returned by Encrypt when given no recipients.
	ErrNoRecipients = errors.New("no recipients")
)

// Primitive performs the OpenPGP operations. Payloads handed to Verify and
// Decrypt have had their armor headers stripped already.
type Primitive interface {
	// Sign clear-signs plaintext and returns the armored signed message.
	Sign(plaintext []byte, signer *openpgp.Entity, hash crypto.Hash) ([]byte, error)

	// Verify checks signature over the clear-signed content.
	Verify(content, signature []byte, keyring openpgp.KeyRing) error

	// Encrypt encrypts plaintext to every recipient and returns an armored
	// message.
	Encrypt(plaintext []byte, recipients openpgp.EntityList) ([]byte, error)

	// Decrypt opens an encrypted message payload.
	Decrypt(payload []byte, keyring openpgp.KeyRing) ([]byte, error)
}

// OpenPGP is the Primitive built on github.com/ProtonMail/go-crypto. Config
// may be nil for the library defaults.
type OpenPGP struct {
	Config *packet.Config
}

var _ Primitive = (*OpenPGP)(nil)

// Sign clear-signs plaintext with the signer's private key.
func (o *OpenPGP) Sign(plaintext []byte, signer *openpgp.Entity, hash crypto.Hash) ([]byte, error) {
	if signer == nil || signer.PrivateKey == nil {
		return nil, ErrNoPrivateKey
	}

	cfg := &packet.Config{}
	if o.Config != nil {
		c := *o.Config
		cfg = &c
	}
	cfg.DefaultHash = hash

	buf := &bytes.Buffer{}
	w, err := clearsign.Encode(buf, signer.PrivateKey, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to start signature: %w", err)
	}

	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("unable to sign: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("unable to finish signature: %w", err)
	}

	return buf.Bytes(), nil
}

// Verify checks a clear-text signature. The content is canonicalized the way
// clear-signing does before it is checked.
func (o *OpenPGP) Verify(content, signature []byte, keyring openpgp.KeyRing) error {
	sig, err := Dearmor(signatureType, signature)
	if err != nil {
		return fmt.Errorf("unable to read signature: %w", err)
	}

	_, err = openpgp.CheckDetachedSignature(keyring, bytes.NewReader(Canonical(content)), bytes.NewReader(sig), o.Config)
	if err != nil {
		return fmt.Errorf("signature does not verify: %w", err)
	}

	return nil
}

// Encrypt encrypts plaintext to the recipients.
func (o *OpenPGP) Encrypt(plaintext []byte, recipients openpgp.EntityList) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	buf := &bytes.Buffer{}
	aw, err := armor.Encode(buf, messageType, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to start armor: %w", err)
	}

	pw, err := openpgp.Encrypt(aw, recipients, nil, nil, o.Config)
	if err != nil {
		return nil, fmt.Errorf("unable to start encryption: %w", err)
	}

	if _, err := pw.Write(plaintext); err != nil {
		return nil, fmt.Errorf("unable to encrypt: %w", err)
	}

	if err := pw.Close(); err != nil {
		return nil, fmt.Errorf("unable to finish encryption: %w", err)
	}

	if err := aw.Close(); err != nil {
		return nil, fmt.Errorf("unable to finish armor: %w", err)
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decrypt decrypts an encrypted message payload with a key from keyring.
func (o *OpenPGP) Decrypt(payload []byte, keyring openpgp.KeyRing) ([]byte, error) {
	raw, err := Dearmor(messageType, payload)
	if err != nil {
		return nil, fmt.Errorf("unable to read message: %w", err)
	}

	md, err := openpgp.ReadMessage(bytes.NewReader(raw), keyring, nil, o.Config)
	if err != nil {
		return nil, fmt.Errorf("unable to open message: %w", err)
	}

	plaintext, err := io.ReadAll(md.UnverifiedBody)
	if err != nil {
		return nil, fmt.Errorf("unable to decrypt: %w", err)
	}

	return plaintext, nil
}
