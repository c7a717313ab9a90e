package message

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mailforge/mimecodec/crypto/pgp"
	"github.com/mailforge/mimecodec/crypto/smime"
	"github.com/mailforge/mimecodec/message/header"
	"github.com/mailforge/mimecodec/message/mime"
)

type parser struct {
	flags             Flags
	logger            zerolog.Logger
	maxDepth          int
	smime             smime.Processor
	pgp               pgp.Primitive
	subjectProtection bool
	exempt            []string
}

func (pr *parser) clone() *parser {
	p := *pr
	return &p
}

var defaultParser = &parser{
	logger:   zerolog.Nop(),
	maxDepth: mime.DefaultMaxDepth,
	exempt:   DefaultExemptContentTypes,
}

// ParseOption refers to options that may be passed to Parse or New to modify
// how the message is built.
type ParseOption func(pr *parser)

// WithFlags is a ParseOption that sets the Flags selecting what Parse keeps
// beyond the resolved message. No flags are set by default.
func WithFlags(f Flags) ParseOption {
	return func(pr *parser) { pr.flags = f }
}

// WithLogger is a ParseOption that sets the logger used to report input that
// was only partly understood and crypto operations that failed. Nothing is
// logged by default.
func WithLogger(l zerolog.Logger) ParseOption {
	return func(pr *parser) { pr.logger = l }
}

// WithMaxDepth is a ParseOption that controls how deep Parse will go in
// splitting nested multipart bodies. This is mime.DefaultMaxDepth by default.
// A negative value means no limit.
func WithMaxDepth(n int) ParseOption {
	return func(pr *parser) { pr.maxDepth = n }
}

// WithSMIME is a ParseOption that sets the Processor used to verify and
// decrypt S/MIME parts. Without one, S/MIME containers are treated as
// ordinary attachments and nothing is marked signed or encrypted.
func WithSMIME(p smime.Processor) ParseOption {
	return func(pr *parser) { pr.smime = p }
}

// WithPGP is a ParseOption that sets the primitive used by the PGP
// operations. It is pgp.OpenPGP with library defaults otherwise.
func WithPGP(p pgp.Primitive) ParseOption {
	return func(pr *parser) { pr.pgp = p }
}

// WithSubjectProtection is a ParseOption that recovers a subject embedded in
// the first line of the body. A message carrying "X-Subject-Encryption: true"
// gets this treatment whether the option is set or not.
func WithSubjectProtection() ParseOption {
	return func(pr *parser) { pr.subjectProtection = true }
}

// WithExemptContentTypes is a ParseOption that replaces the content type
// prefixes of parts that do not count against the aggregate S/MIME state.
// The default is DefaultExemptContentTypes.
func WithExemptContentTypes(prefixes ...string) ParseOption {
	return func(pr *parser) { pr.exempt = prefixes }
}

// New returns an empty message for composing. Only WithLogger and WithPGP
// have any effect.
func New(opts ...ParseOption) *Message {
	pr := defaultParser.clone()
	for _, opt := range opts {
		opt(pr)
	}

	return pr.newMessage()
}

func (pr *parser) newMessage() *Message {
	logger := pr.logger
	return &Message{
		Header: *header.Parse(""),
		Flags:  pr.flags,
		pgp:    pr.pgp,
		logger: &logger,
	}
}

// ParseReader reads all of r and then works like Parse. It only fails when
// reading fails.
func ParseReader(r io.Reader, opts ...ParseOption) (*Message, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read message: %w", err)
	}

	return Parse(string(b), opts...), nil
}

// Parse builds a Message from raw message text. It never fails: malformed
// header lines are skipped, unparseable dates are left zero, and bodies that
// cannot be decoded are kept as they are. What was skipped is listed in the
// header's Problems.
//
// Bare LF line endings are turned into CRLF when the input holds no CR at
// all. The header ends at the first blank line. When there is no blank line,
// the input is read as a header if it has a From or a Subject and as a body
// otherwise.
func Parse(raw string, opts ...ParseOption) *Message {
	pr := defaultParser.clone()
	for _, opt := range opts {
		opt(pr)
	}

	m := pr.newMessage()
	m.SetSize(int64(len(raw)))

	text := header.NormalizeBreaks(raw)
	hdr, body := pr.splitHeader(text)

	if pr.flags.Has(IncludeRawHeaders) {
		m.RawHeaders = hdr
	}
	if pr.flags.Has(IncludeRawBody) {
		m.RawBody = body
	}

	m.Header = *header.Parse(hdr, header.WithExtended(pr.flags.Has(ParseExtendedHeaders)))
	for _, p := range m.Problems {
		pr.logger.Debug().
			Str("field", p.Field).
			Str("value", p.Value).
			Err(p.Err).
			Msg("header field skipped")
	}

	if m.BodyContentType == "message/partial" {
		m.capturePartial(m.ContentTypeParams)
	}

	pr.resolveBody(m, body)
	return m
}

// splitHeader divides message text into its header block and body block.
func (pr *parser) splitHeader(text string) (string, string) {
	sep := header.CRLF.Separator()
	if ix := strings.Index(text, sep); ix >= 0 {
		return text[:ix], text[ix+len(sep):]
	}

	h := header.Parse(text)
	if len(h.From) == 0 && h.Subject == "" {
		pr.logger.Debug().Msg("no header found, reading input as a body")
		return "", text
	}

	return text, ""
}
