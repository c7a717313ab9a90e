package smime

import (
	"crypto"
	"crypto/x509"
	"errors"
	"fmt"

	"go.mozilla.org/pkcs7"
)

// Errors returned by CMS.
var (
	// ErrNoKey is returned by Decrypt and SignDetached when no certificate
	// and private key have been configured.
	ErrNoKey = errors.New("no certificate and private key configured")

	// ErrNotSigned is returned when opaque signed data carries no content.
	ErrNotSigned = errors.New("signed data has no content")
)

// Processor unwraps the S/MIME layers found while splitting a message.
type Processor interface {
	// VerifyDetached checks a detached signature over content and returns
	// the certificates carried by the signature.
	VerifyDetached(content, signature []byte) ([]*x509.Certificate, error)

	// VerifyOpaque checks an opaque signed-data blob and returns the signed
	// content with the certificates carried by the signature.
	VerifyOpaque(der []byte) ([]byte, []*x509.Certificate, error)

	// Decrypt opens an enveloped-data blob.
	Decrypt(der []byte) ([]byte, error)
}

// CMS is the Processor built on PKCS #7. The certificate and key are only
// needed to decrypt and sign. When Roots is set, signer chains must verify
// against it.
type CMS struct {
	Certificate *x509.Certificate
	PrivateKey  crypto.PrivateKey
	Roots       *x509.CertPool
}

var _ Processor = (*CMS)(nil)

func (c *CMS) verify(p7 *pkcs7.PKCS7) error {
	if c.Roots != nil {
		return p7.VerifyWithChain(c.Roots)
	}
	return p7.Verify()
}

// VerifyDetached checks a detached signature over content.
func (c *CMS) VerifyDetached(content, signature []byte) ([]*x509.Certificate, error) {
	p7, err := pkcs7.Parse(signature)
	if err != nil {
		return nil, fmt.Errorf("unable to parse signature: %w", err)
	}

	p7.Content = content
	if err := c.verify(p7); err != nil {
		return nil, fmt.Errorf("signature does not verify: %w", err)
	}

	return p7.Certificates, nil
}

// VerifyOpaque checks signed-data that carries its own content.
func (c *CMS) VerifyOpaque(der []byte) ([]byte, []*x509.Certificate, error) {
	p7, err := pkcs7.Parse(der)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to parse signed data: %w", err)
	}

	if len(p7.Content) == 0 {
		return nil, nil, ErrNotSigned
	}

	if err := c.verify(p7); err != nil {
		return nil, nil, fmt.Errorf("signature does not verify: %w", err)
	}

	return p7.Content, p7.Certificates, nil
}

// Decrypt opens enveloped-data addressed to the configured certificate.
func (c *CMS) Decrypt(der []byte) ([]byte, error) {
	if c.Certificate == nil || c.PrivateKey == nil {
		return nil, ErrNoKey
	}

	p7, err := pkcs7.Parse(der)
	if err != nil {
		return nil, fmt.Errorf("unable to parse envelope: %w", err)
	}

	content, err := p7.Decrypt(c.Certificate, c.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("unable to decrypt envelope: %w", err)
	}

	return content, nil
}

// SignDetached returns a DER detached signature of content made with the
// configured certificate and key using SHA-256.
func (c *CMS) SignDetached(content []byte) ([]byte, error) {
	if c.Certificate == nil || c.PrivateKey == nil {
		return nil, ErrNoKey
	}

	sd, err := pkcs7.NewSignedData(content)
	if err != nil {
		return nil, fmt.Errorf("unable to start signed data: %w", err)
	}

	sd.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)
	if err := sd.AddSigner(c.Certificate, c.PrivateKey, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, fmt.Errorf("unable to add signer: %w", err)
	}

	sd.Detach()
	return sd.Finish()
}

// Envelope encrypts content to the given recipients and returns DER
// enveloped-data. The content cipher is pkcs7.ContentEncryptionAlgorithm.
func Envelope(content []byte, recipients ...*x509.Certificate) ([]byte, error) {
	der, err := pkcs7.Encrypt(content, recipients)
	if err != nil {
		return nil, fmt.Errorf("unable to build envelope: %w", err)
	}

	return der, nil
}
