package message

import (
	"strconv"
	"strings"

	"github.com/mailforge/mimecodec/crypto/pgp"
	"github.com/mailforge/mimecodec/message/header"
	"github.com/mailforge/mimecodec/message/mime"
	"github.com/mailforge/mimecodec/message/transfer"
)

// resolveBody fills in the body, the alternate views, and the attachments.
// A multipart body, or an S/MIME container when there is a processor to open
// it, is split into parts and aggregated. Anything else, including a
// multipart body that cannot be split, is decoded directly.
func (pr *parser) resolveBody(m *Message, body string) {
	defer func() {
		if pr.subjectProtection || m.SubjectEncryption {
			m.unprotectSubject()
		}
	}()

	isPKCS7 := m.BodyContentType == mime.PKCS7MIME || m.BodyContentType == mime.XPKCS7MIME
	if m.Boundary != "" || (isPKCS7 && pr.smime != nil) {
		parts := mime.Split(m.ContentType, m.CharSet, m.ContentTransferEncoding, body, 0, pr.splitOptions()...)
		if len(parts) > 0 {
			pr.aggregate(m, parts)
			return
		}

		pr.logger.Debug().
			Str("content-type", m.ContentType).
			Msg("body could not be split, decoding it directly")
	}

	pr.decodeBody(m, body)
}

func (pr *parser) splitOptions() []mime.Option {
	opts := []mime.Option{
		mime.WithMaxDepth(pr.maxDepth),
		mime.WithLogger(pr.logger),
	}

	if pr.smime != nil {
		opts = append(opts, mime.WithSMIME(pr.smime))
	}

	return opts
}

// decodeBody decodes a body that is not split into parts.
func (pr *parser) decodeBody(m *Message, body string) {
	body = strings.TrimSuffix(body, ")")
	for strings.HasSuffix(body, header.CRLF.String()) {
		body = strings.TrimSuffix(body, header.CRLF.String())
	}

	res := transfer.Resolve(body, m.ContentTransferEncoding, m.CharSet)
	if res.Err != nil {
		pr.logger.Debug().
			Err(res.Err).
			Str("encoding", res.Encoding).
			Str("charset", m.CharSet).
			Msg("body decoded on a best-effort basis")
	}

	m.Body = res.Text
	m.BodyDecoded = res.Decoded
	m.BodyTransferEncoding = res.Encoding

	switch armorOf(m.Body) {
	case pgp.MessageMarker:
		m.PgpEncrypted = true
	case pgp.SignedMessageMarker:
		m.PgpSigned = true
	}

	m.inferContentType()
}

// inferContentType marks a body with no content type as HTML when it holds a
// body tag.
func (m *Message) inferContentType() {
	if m.BodyContentType == "" && strings.Contains(strings.ToLower(m.Body), "<body") {
		m.BodyContentType = "text/html"
	}
}

// armorOf returns the PGP armor marker the text starts with, ignoring
// leading white space, or an empty string when it starts with none.
func armorOf(text string) string {
	text = strings.TrimLeft(text, " \t\r\n")
	for _, marker := range []string{
		pgp.MessageMarker,
		pgp.SignedMessageMarker,
		pgp.SignatureMarker,
	} {
		if strings.HasPrefix(text, marker) {
			return marker
		}
	}

	return ""
}

// capturePartial records the id and number parameters of a message/partial
// content type.
func (m *Message) capturePartial(params map[string]string) {
	if id, ok := params["id"]; ok {
		m.PartialMessageID = id
	}

	if n, err := strconv.Atoi(strings.TrimSpace(params["number"])); err == nil {
		m.PartialMessageNumber = n
	}
}
