package message

import (
	"bytes"
	"crypto/x509"
	"io"

	"github.com/rs/zerolog"

	"github.com/mailforge/mimecodec/crypto/pgp"
	"github.com/mailforge/mimecodec/message/header"
	"github.com/mailforge/mimecodec/message/mime"
)

// Attachment is a named blob carried alongside the body.
type Attachment struct {
	Name        string
	ContentType string
	ContentID   string

	// TransferEncoding is the encoding the attachment arrived in. The
	// encoder always writes attachments as base64.
	TransferEncoding string

	// Content holds the decoded bytes. When Reader is set, it is read
	// instead.
	Content []byte
	Reader  io.Reader
}

// Open returns a reader for the attachment content.
func (a *Attachment) Open() io.Reader {
	if a.Reader != nil {
		return a.Reader
	}
	return bytes.NewReader(a.Content)
}

// AlternateView is another rendering of the body, such as the plain text
// half of a text and HTML pair.
type AlternateView struct {
	ContentType string
	CharSet     string

	// TransferEncoding is the encoding the view arrived in. A view marked
	// base64 is written as base64, anything else as quoted-printable.
	TransferEncoding string

	// Content holds the bytes in CharSet. When Reader is set, it is read
	// instead.
	Content []byte
	Reader  io.Reader
}

// Open returns a reader for the view content.
func (v *AlternateView) Open() io.Reader {
	if v.Reader != nil {
		return v.Reader
	}
	return bytes.NewReader(v.Content)
}

// Message is a parsed or composed email message. The header fields are
// promoted from the embedded header.Header.
//
// A Message is not safe for concurrent use.
type Message struct {
	header.Header

	// Body is the text of the message. BodyContentType and CharSet describe
	// it.
	Body string

	// BodyDecoded is true when Body differs from the text it was decoded
	// from.
	BodyDecoded bool

	// BodyTransferEncoding is the declared or inferred transfer encoding the
	// body arrived in.
	BodyTransferEncoding string

	Attachments    []*Attachment
	AlternateViews []*AlternateView

	// MimeParts is only kept when parsed with IncludeMIMEParts.
	MimeParts []*mime.Part

	// RawHeaders and RawBody are only kept when parsed with
	// IncludeRawHeaders and IncludeRawBody.
	RawHeaders string
	RawBody    string

	Flags Flags

	SmimeSigned            bool
	SmimeEncryptedEnvelope bool
	SmimeTripleWrapped     bool

	// SmimeSigningCertificate is the first certificate found on a signed
	// part. SmimeSigningCertificateChain holds every distinct certificate
	// found, in the order found.
	SmimeSigningCertificate      *x509.Certificate
	SmimeSigningCertificateChain []*x509.Certificate

	PgpSigned    bool
	PgpEncrypted bool

	// PartialMessageID and PartialMessageNumber come from a message/partial
	// content type.
	PartialMessageID     string
	PartialMessageNumber int

	size    int64
	sizeSet bool

	deliveryNotification DeliveryNotification

	// armored blocks found in the parts, used by the PGP operations when
	// the body itself holds none
	pgpSignedText    string
	pgpSignatureText string
	pgpEncryptedText string

	pgp    pgp.Primitive
	logger *zerolog.Logger
}

// RawMessage returns the message as it is persisted: the raw header block, a
// blank line, and the raw body. Parsing the result reproduces the message.
func (m *Message) RawMessage() string {
	return m.RawHeaders + header.CRLF.Separator() + m.RawBody
}

// Size returns the size set by SetSize or by Parse, which records the length
// of its input. Without one, it estimates the size from the body, the
// alternate views, and the attachments.
func (m *Message) Size() int64 {
	if m.sizeSet {
		return m.size
	}

	n := int64(len(m.Body))
	for _, v := range m.AlternateViews {
		n += streamLen(v.Content, v.Reader)
	}
	for _, a := range m.Attachments {
		n += streamLen(a.Content, a.Reader)
	}

	return n
}

// SetSize sets an authoritative size.
func (m *Message) SetSize(n int64) {
	m.size = n
	m.sizeSet = true
}

// streamLen is the length of the content or, for a reader, the unread
// length when the reader knows it.
func streamLen(content []byte, r io.Reader) int64 {
	if r == nil {
		return int64(len(content))
	}

	if lr, ok := r.(interface{ Len() int }); ok {
		return int64(lr.Len())
	}

	return 0
}

func (m *Message) log() *zerolog.Logger {
	if m.logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return m.logger
}

func (m *Message) primitive() pgp.Primitive {
	if m.pgp == nil {
		return &pgp.OpenPGP{}
	}
	return m.pgp
}
