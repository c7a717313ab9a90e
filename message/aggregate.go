package message

import (
	"crypto/x509"
	"strings"

	"github.com/mailforge/mimecodec/crypto/pgp"
	"github.com/mailforge/mimecodec/message/header"
	"github.com/mailforge/mimecodec/message/mime"
	"github.com/mailforge/mimecodec/message/transfer"
)

// DefaultExemptContentTypes are the content type prefixes of the S/MIME
// signature and container parts, which do not count against the aggregate
// S/MIME state.
var DefaultExemptContentTypes = []string{
	mime.PKCS7Signature,
	mime.XPKCS7Signature,
	mime.PKCS7MIME,
	mime.XPKCS7MIME,
}

// subjectPrefix starts the line holding a protected subject.
const subjectPrefix = "Subject: "

// SMIMEState is the S/MIME state of a set of parts taken together.
type SMIMEState struct {
	Signed        bool
	Encrypted     bool
	TripleWrapped bool

	// Counted is the number of parts that were not exempt.
	Counted int
}

// fold combines the state with one more part.
func (s SMIMEState) fold(p *mime.Part) SMIMEState {
	return SMIMEState{
		Signed:        s.Signed && p.Signed,
		Encrypted:     s.Encrypted && p.Encrypted,
		TripleWrapped: s.TripleWrapped && p.TripleWrapped,
		Counted:       s.Counted + 1,
	}
}

// AggregateSMIME folds the S/MIME flags of the parts. A flag is true when
// every part not exempt carries it. Parts whose media type starts with one of
// the exempt prefixes are skipped; DefaultExemptContentTypes is used when
// none are given. When every part is exempt, or there are none, nothing is
// true.
func AggregateSMIME(parts []*mime.Part, exempt ...string) SMIMEState {
	if len(exempt) == 0 {
		exempt = DefaultExemptContentTypes
	}

	st := SMIMEState{Signed: true, Encrypted: true, TripleWrapped: true}
	for _, p := range parts {
		if isExempt(p.MediaType, exempt) {
			continue
		}
		st = st.fold(p)
	}

	if st.Counted == 0 {
		return SMIMEState{}
	}

	return st
}

func isExempt(mediaType string, exempt []string) bool {
	for _, prefix := range exempt {
		if strings.HasPrefix(mediaType, strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}

// aggregate turns the split parts into the body, the alternate views, and
// the attachments, and sets the crypto state of the message.
func (pr *parser) aggregate(m *Message, parts []*mime.Part) {
	var (
		bodyPart *mime.Part
		signedIx = -1
		sigIx    = -1
	)

	for i, p := range parts {
		if p.MediaType == "message/partial" {
			m.capturePartial(p.Params)
		}

		if p.Signed {
			for _, cert := range p.Certificates {
				if hasCertificate(m.SmimeSigningCertificateChain, cert) {
					continue
				}

				m.SmimeSigningCertificateChain = append(m.SmimeSigningCertificateChain, cert)
				if m.SmimeSigningCertificate == nil {
					m.SmimeSigningCertificate = cert
				}
			}
		}

		switch armorOf(p.Body) {
		case pgp.SignedMessageMarker:
			signedIx = i
			m.pgpSignedText = p.Body
			if strings.Contains(p.Body, pgp.SignatureMarker) {
				sigIx = i
				m.pgpSignatureText = p.Body
			}
		case pgp.SignatureMarker:
			sigIx = i
			m.pgpSignatureText = p.Body
		case pgp.MessageMarker:
			m.PgpEncrypted = true
			m.pgpEncryptedText = p.Body
		}

		switch {
		case p.IsSignature():
			if pr.flags.Has(IncludeSmimeSignedData) {
				m.Attachments = append(m.Attachments, attachmentOf(p, "smime.p7s"))
			}

		case p.IsEnvelope():
			if !p.Unwrapped || pr.flags.Has(IncludeSmimeEncryptedEnvelopeData) {
				m.Attachments = append(m.Attachments, attachmentOf(p, "smime.p7m"))
			}

		case !isBodyCandidate(p):
			m.Attachments = append(m.Attachments, attachmentOf(p, ""))

		case bodyPart == nil:
			bodyPart = p
			m.setBody(p)

		case p.IsHTML() && !m.IsBodyHTML():
			m.AlternateViews = append(m.AlternateViews, viewOf(bodyPart))
			bodyPart = p
			m.setBody(p)

		default:
			m.Attachments = append(m.Attachments, attachmentOf(p, ""))
		}
	}

	m.PgpSigned = signedIx >= 0 && sigIx >= 0

	st := AggregateSMIME(parts, pr.exempt...)
	m.SmimeSigned = st.Signed
	m.SmimeEncryptedEnvelope = st.Encrypted
	m.SmimeTripleWrapped = st.TripleWrapped

	if pr.flags.Has(IncludeMIMEParts) {
		m.MimeParts = parts
	}
}

// isBodyCandidate reports whether a part may become the body: it must be
// text and not a named attachment.
func isBodyCandidate(p *mime.Part) bool {
	if !p.IsText() {
		return false
	}
	return !(strings.EqualFold(p.Disposition, "attachment") && p.Name != "")
}

func hasCertificate(chain []*x509.Certificate, cert *x509.Certificate) bool {
	for _, c := range chain {
		if c.Equal(cert) {
			return true
		}
	}
	return false
}

func (m *Message) setBody(p *mime.Part) {
	m.Body = p.Body
	m.BodyDecoded = p.Decoded
	m.BodyTransferEncoding = p.TransferEncoding
	m.BodyContentType = p.MediaType
	if p.CharSet != "" {
		m.CharSet = p.CharSet
	}
	m.inferContentType()
}

func viewOf(p *mime.Part) *AlternateView {
	ct := p.MediaType
	if ct == "" {
		ct = "text/plain"
	}

	return &AlternateView{
		ContentType:      ct,
		CharSet:          p.CharSet,
		TransferEncoding: p.TransferEncoding,
		Content:          p.Bytes,
	}
}

func attachmentOf(p *mime.Part, defaultName string) *Attachment {
	name := p.Name
	if name == "" {
		name = defaultName
	}

	ct := p.MediaType
	if ct == "" {
		ct = "text/plain"
	}

	return &Attachment{
		Name:             name,
		ContentType:      ct,
		ContentID:        p.ContentID,
		TransferEncoding: p.TransferEncoding,
		Content:          p.Bytes,
	}
}

// unprotectSubject moves a "Subject: " first line of the body into the
// subject.
func (m *Message) unprotectSubject() {
	if !strings.HasPrefix(m.Body, subjectPrefix) {
		return
	}

	line, rest, _ := strings.Cut(m.Body, header.LF.String())
	line = strings.TrimSuffix(line, "\r")

	m.Subject = header.DecodeWords(strings.TrimSpace(strings.TrimPrefix(line, subjectPrefix)))
	m.Body = rest
}

// bodyCharset is the charset the body is written in.
func (m *Message) bodyCharset() string {
	if m.CharSet == "" {
		return transfer.DefaultCharset
	}
	return m.CharSet
}
