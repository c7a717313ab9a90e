package mime

import (
	"crypto/x509"
	"strings"
)

// Content types of the S/MIME containers.
const (
	PKCS7Signature  = "application/pkcs7-signature"
	XPKCS7Signature = "application/x-pkcs7-signature"
	PKCS7MIME       = "application/pkcs7-mime"
	XPKCS7MIME      = "application/x-pkcs7-mime"
)

// Part is one leaf of a split body.
type Part struct {
	// MediaType is the lower-cased content type without parameters. It is
	// empty when the part had no Content-Type.
	MediaType string
	Params    map[string]string
	CharSet   string

	// TransferEncoding is the declared encoding or, when none was declared,
	// the one inferred from the body.
	TransferEncoding string

	// Body is the decoded text of the part. Bytes holds the transfer-decoded
	// bytes before charset decoding.
	Body  string
	Bytes []byte

	// Decoded is true when Body differs from the text between the
	// boundaries.
	Decoded bool

	// Name comes from the Content-Type name parameter or the
	// Content-Disposition filename parameter.
	Name        string
	ContentID   string
	Disposition string

	Signed        bool
	Encrypted     bool
	TripleWrapped bool

	// Certificates are those of every signature layer that verified around
	// this part, outermost first.
	Certificates []*x509.Certificate

	// Unwrapped is set on an S/MIME container whose content was recovered
	// and split into the parts that follow it.
	Unwrapped bool
}

// IsText reports whether the part is text/* or has no content type at all.
func (p *Part) IsText() bool {
	return p.MediaType == "" || strings.HasPrefix(p.MediaType, "text/")
}

// IsHTML reports whether the part is text/html.
func (p *Part) IsHTML() bool {
	return strings.HasPrefix(p.MediaType, "text/html")
}

// IsSignature reports whether the part is a detached S/MIME signature.
func (p *Part) IsSignature() bool {
	return p.MediaType == PKCS7Signature || p.MediaType == XPKCS7Signature
}

// IsEnvelope reports whether the part is an S/MIME envelope or opaque
// signed-data container.
func (p *Part) IsEnvelope() bool {
	return p.MediaType == PKCS7MIME || p.MediaType == XPKCS7MIME
}
