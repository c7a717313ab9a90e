package message

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mailforge/mimecodec/message/header"
	"github.com/mailforge/mimecodec/message/header/param"
	"github.com/mailforge/mimecodec/message/transfer"
)

// Notice is the line written ahead of the first part for readers that do not
// understand MIME.
const Notice = "This is a multi-part message in MIME format."

// MultipartHeader returns the MIME-Version and Content-Type fields, each
// ending in CRLF, that go with a body written by WriteMIME using boundary.
func MultipartHeader(boundary string) string {
	ct := param.New("multipart/mixed", map[string]string{param.Boundary: boundary})
	return "MIME-Version: 1.0\r\nContent-Type: " + ct.String() + "\r\n"
}

// TakeParts returns the alternate views and the attachments and clears them
// from the message.
func (m *Message) TakeParts() ([]*AlternateView, []*Attachment) {
	views, atts := m.AlternateViews, m.Attachments
	m.AlternateViews, m.Attachments = nil, nil
	return views, atts
}

// WriteMIME writes the body, the alternate views, and the attachments as a
// multipart body. The alternate views come first, then the body, then the
// attachments. The body is written in transferEncoding, quoted-printable
// when empty. When boundary is empty, the message Boundary is used, and a
// random one is made when that is empty as well.
//
// WriteMIME takes the alternate views and the attachments from the message
// with TakeParts before writing anything, so they are gone afterward even
// when writing fails. Readers behind them are read one at a time, in the
// order written.
func (m *Message) WriteMIME(w io.Writer, transferEncoding, boundary string) (int64, error) {
	if boundary == "" {
		boundary = m.Boundary
	}
	if boundary == "" {
		boundary = m.RandomizeBoundary()
	}

	if transferEncoding == "" {
		transferEncoding = transfer.QuotedPrintable
	}

	views, atts := m.TakeParts()

	pw := &partWriter{w: bufio.NewWriter(w), boundary: boundary}
	pw.writeString(Notice + header.CRLF.String())

	for _, v := range views {
		enc := transfer.QuotedPrintable
		if transfer.Normalize(v.TransferEncoding) == transfer.Base64 {
			enc = transfer.Base64
		}

		ps := map[string]string{}
		if v.CharSet != "" {
			ps[param.Charset] = v.CharSet
		}
		ct := param.ParseLenient(v.ContentType)
		for k, pv := range ct.Parameters() {
			ps[k] = pv
		}
		mt := ct.MediaType()
		if mt == "" {
			mt = "text/plain"
		}

		pw.part(param.New(mt, ps).String(), enc, nil)
		pw.content(v.Open(), enc)
	}

	bodyType := "text/plain"
	if m.IsBodyHTML() {
		bodyType = "text/html"
	}
	body, err := transfer.EncodeCharset(m.bodyCharset(), m.Body)
	if err != nil {
		m.log().Debug().Err(err).Str("charset", m.bodyCharset()).Msg("body written as UTF-8")
	}
	ct := param.New(bodyType, map[string]string{param.Charset: m.bodyCharset()})
	pw.part(ct.String(), transferEncoding, nil)
	pw.content(strings.NewReader(string(body)), transferEncoding)

	for _, a := range atts {
		ctype := param.New("application/octet-stream", map[string]string{param.Name: a.Name})
		if a.Name == "smime.p7m" {
			ctype = param.New("application/pkcs7-mime", map[string]string{
				"smime-type": "enveloped-data",
				param.Name:   a.Name,
			})
		}

		var extra []string
		if a.ContentID != "" {
			extra = append(extra, "Content-ID: <"+a.ContentID+">")
		}
		disp := param.New("attachment", map[string]string{param.Filename: a.Name})
		extra = append(extra, "Content-Disposition: "+disp.String())

		pw.part(ctype.String(), transfer.Base64, extra)
		pw.content(a.Open(), transfer.Base64)
	}

	pw.writeString(header.CRLF.String() + "--" + boundary + "--" + header.CRLF.String())
	if pw.err == nil {
		pw.err = pw.w.Flush()
	}

	return pw.n, pw.err
}

// EncodeMIME works like WriteMIME, but returns the multipart body as a
// string.
func (m *Message) EncodeMIME(transferEncoding, boundary string) (string, error) {
	var sb strings.Builder
	if _, err := m.WriteMIME(&sb, transferEncoding, boundary); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// partWriter keeps the first error and the byte count while writing parts.
type partWriter struct {
	w        *bufio.Writer
	boundary string
	n        int64
	err      error
}

func (pw *partWriter) writeString(s string) {
	if pw.err != nil {
		return
	}

	n, err := pw.w.WriteString(s)
	pw.n += int64(n)
	pw.err = err
}

// part writes the boundary and the header of the next part.
func (pw *partWriter) part(contentType, enc string, extra []string) {
	const crlf = "\r\n"

	pw.writeString(crlf + "--" + pw.boundary + crlf)
	pw.writeString("Content-Type: " + contentType + crlf)
	pw.writeString("Content-Transfer-Encoding: " + enc + crlf)
	for _, field := range extra {
		pw.writeString(field + crlf)
	}
	pw.writeString(crlf)
}

// content writes the encoded content of a part. Base64 output is written
// without its final line break, which would otherwise become part of the
// content.
func (pw *partWriter) content(r io.Reader, enc string) {
	if pw.err != nil {
		return
	}

	b, err := io.ReadAll(r)
	if err != nil {
		pw.err = fmt.Errorf("unable to read part content: %w", err)
		return
	}

	s := transfer.Encode(b, enc)
	if transfer.Normalize(enc) == transfer.Base64 {
		s = strings.TrimSuffix(s, "\r\n")
	}

	pw.writeString(s)
}
