package mime

import (
	"crypto/x509"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mailforge/mimecodec/crypto/smime"
	"github.com/mailforge/mimecodec/message/header"
	"github.com/mailforge/mimecodec/message/transfer"
)

// DefaultMaxDepth is the default depth the splitter will recurse into nested
// multipart bodies.
const DefaultMaxDepth = 10

type splitter struct {
	maxDepth int
	smime    smime.Processor
	logger   zerolog.Logger
}

func (sp *splitter) clone() *splitter {
	s := *sp
	return &s
}

var defaultSplitter = &splitter{
	maxDepth: DefaultMaxDepth,
	logger:   zerolog.Nop(),
}

// Option refers to options that may be passed to Split to modify how it
// works.
type Option func(sp *splitter)

// WithMaxDepth is an Option that sets how deep Split recurses. A nested
// multipart deeper than this is returned as a single part. A negative value
// means no limit.
func WithMaxDepth(n int) Option {
	return func(sp *splitter) { sp.maxDepth = n }
}

// WithSMIME is an Option that sets the Processor used to verify and decrypt
// S/MIME layers. Without one, S/MIME containers are returned as plain parts.
func WithSMIME(p smime.Processor) Option {
	return func(sp *splitter) { sp.smime = p }
}

// WithLogger is an Option that sets the logger used to report parts that
// could not be fully understood.
func WithLogger(l zerolog.Logger) Option {
	return func(sp *splitter) { sp.logger = l }
}

// envelope tracks the S/MIME layers around an entity.
type envelope struct {
	signedOuter bool
	encrypted   bool
	signedInner bool
	certs       []*x509.Certificate
}

func (env envelope) signedBy(certs []*x509.Certificate) envelope {
	if env.encrypted {
		env.signedInner = true
	} else {
		env.signedOuter = true
	}

	all := make([]*x509.Certificate, 0, len(env.certs)+len(certs))
	all = append(all, env.certs...)
	env.certs = append(all, certs...)
	return env
}

func (env envelope) sealed() envelope {
	env.encrypted = true
	return env
}

// Split breaks a multipart body into its leaf parts, recursing into nested
// multipart bodies, and returns them depth first. The depth is that of the
// body being split; the top level is 0.
//
// A top-level S/MIME container is unwrapped as well and the parts inside it
// are returned after the container itself.
//
// Split never fails. When the content type has no boundary or the boundary
// never appears in the body, it returns nil.
func Split(contentType, charset, transferEncoding, body string, depth int, opts ...Option) []*Part {
	root := Tree(contentType, charset, transferEncoding, body, depth, opts...)
	if root == nil {
		return nil
	}

	return Flatten(root)
}

// Tree works like Split, but returns the entity tree rather than flattening
// it.
func Tree(contentType, charset, transferEncoding, body string, depth int, opts ...Option) *Entity {
	sp := defaultSplitter.clone()
	for _, opt := range opts {
		opt(sp)
	}

	root := newEntity(contentType, charset, transferEncoding, body)
	switch mt := root.ContentType.MediaType(); {
	case mt == PKCS7MIME || mt == XPKCS7MIME:
		sp.pkcs7(root, envelope{}, depth)
		if !root.unwrapped {
			return nil
		}
	case root.ContentType.Boundary() == "":
		sp.logger.Debug().Str("content-type", contentType).Msg("no boundary to split on")
		return nil
	case !sp.multipart(root, envelope{}, depth):
		return nil
	}

	return root
}

// expand fills in the children or the part of an entity.
func (sp *splitter) expand(e *Entity, env envelope, depth int) {
	switch mt := e.ContentType.MediaType(); {
	case e.IsMultipart():
		if !sp.multipart(e, env, depth) {
			e.Part = sp.leaf(e, env)
		}
	case mt == PKCS7MIME || mt == XPKCS7MIME:
		sp.pkcs7(e, env, depth)
	default:
		e.Part = sp.leaf(e, env)
	}
}

// multipart splits a multipart entity into its children. It returns false
// when the entity is too deep or cannot be split.
func (sp *splitter) multipart(e *Entity, env envelope, depth int) bool {
	if sp.maxDepth >= 0 && depth >= sp.maxDepth {
		return false
	}

	body := e.Body
	if enc := transfer.Normalize(e.TransferEncoding()); enc == transfer.Base64 || enc == transfer.QuotedPrintable {
		if b, err := transfer.Decode(body, enc); err == nil {
			body = string(b)
		}
	}

	brk := breakOf(body)
	raws, ok := splitBody(body, e.ContentType.Boundary(), brk)
	if !ok {
		sp.logger.Debug().
			Str("boundary", e.ContentType.Boundary()).
			Int("depth", depth).
			Msg("boundary not found in body")
		return false
	}

	children := make([]*Entity, 0, len(raws))
	for _, raw := range raws {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		children = append(children, parseEntity(raw, brk, e.CharSet))
	}
	e.Children = children

	if e.ContentType.Subtype() == "signed" && isPKCS7Signature(e.ContentType.Parameter("protocol")) && len(children) >= 2 {
		sp.signed(e, env, depth)
		return true
	}

	for _, child := range children {
		sp.expand(child, env, depth+1)
	}

	return true
}

func isPKCS7Signature(protocol string) bool {
	protocol = strings.ToLower(protocol)
	return protocol == PKCS7Signature || protocol == XPKCS7Signature
}

// signed handles a multipart/signed S/MIME entity. The first child is the
// signed content and the second is the detached signature over it.
func (sp *splitter) signed(e *Entity, env envelope, depth int) {
	content, sig := e.Children[0], e.Children[1]

	inner := env
	if sp.smime != nil {
		der, err := transfer.Decode(sig.Body, orBase64(sig.TransferEncoding()))
		if err == nil {
			var certs []*x509.Certificate
			certs, err = sp.smime.VerifyDetached([]byte(header.NormalizeBreaks(content.Raw)), der)
			if err == nil {
				inner = env.signedBy(certs)
			}
		}

		if err != nil {
			sp.logger.Debug().Err(err).Int("depth", depth).Msg("detached signature did not verify")
		}
	}

	sp.expand(content, inner, depth+1)
	sig.Part = sp.leaf(sig, inner)

	for _, child := range e.Children[2:] {
		sp.expand(child, env, depth+1)
	}
}

// pkcs7 handles an application/pkcs7-mime entity: an envelope to decrypt or
// opaque signed-data to unwrap. Whatever it holds is split as a child.
func (sp *splitter) pkcs7(e *Entity, env envelope, depth int) {
	defer func() { e.Part = sp.leaf(e, env) }()

	if sp.smime == nil {
		return
	}

	der, err := transfer.Decode(e.Body, orBase64(e.TransferEncoding()))
	if err != nil {
		sp.logger.Debug().Err(err).Msg("unable to decode S/MIME container")
		return
	}

	var (
		content []byte
		inner   envelope
	)

	smimeType := strings.ToLower(e.ContentType.Parameter("smime-type"))
	if smimeType != "signed-data" {
		content, err = sp.smime.Decrypt(der)
		inner = env.sealed()
	}

	if smimeType == "signed-data" || (smimeType == "" && err != nil) {
		var certs []*x509.Certificate
		content, certs, err = sp.smime.VerifyOpaque(der)
		inner = env.signedBy(certs)
	}

	if err != nil {
		sp.logger.Debug().Err(err).Str("smime-type", smimeType).Msg("unable to open S/MIME container")
		return
	}

	raw := string(content)
	child := parseEntity(raw, breakOf(raw), e.CharSet)
	e.Children = []*Entity{child}
	e.unwrapped = true
	sp.expand(child, inner, depth+1)
}

func orBase64(enc string) string {
	if enc == "" {
		return transfer.Base64
	}
	return enc
}

// leaf turns an entity into a part, decoding its body.
func (sp *splitter) leaf(e *Entity, env envelope) *Part {
	res := transfer.Resolve(e.Body, e.TransferEncoding(), e.CharSet)
	if res.Err != nil {
		sp.logger.Debug().Err(res.Err).Str("encoding", res.Encoding).Msg("part decoded on a best-effort basis")
	}

	return &Part{
		MediaType:        e.ContentType.MediaType(),
		Params:           e.ContentType.Parameters(),
		CharSet:          e.CharSet,
		TransferEncoding: res.Encoding,
		Body:             res.Text,
		Bytes:            res.Bytes,
		Decoded:          res.Decoded,
		Name:             e.name(),
		ContentID:        e.contentID(),
		Disposition:      e.disposition(),
		Signed:           env.signedOuter || env.signedInner,
		Encrypted:        env.encrypted,
		TripleWrapped:    env.signedOuter && env.encrypted && env.signedInner,
		Certificates:     env.certs,
		Unwrapped:        e.unwrapped,
	}
}
