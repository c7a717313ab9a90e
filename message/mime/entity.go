package mime

import (
	"strings"

	"github.com/mailforge/mimecodec/message/header"
	"github.com/mailforge/mimecodec/message/header/param"
)

// Entity is one node of a split body. Containers have Children, leaves have
// a Part. An unwrapped S/MIME container has both.
type Entity struct {
	Header      *header.Header
	ContentType *param.Value
	CharSet     string

	// Raw is the whole entity, header included, as it appeared between its
	// boundaries. Body is the part of Raw after the header.
	Raw  string
	Body string

	Children []*Entity
	Part     *Part

	unwrapped bool
}

// IsMultipart reports whether the entity is a multipart container.
func (e *Entity) IsMultipart() bool {
	return e.ContentType.Type() == "multipart"
}

// TransferEncoding returns the entity's lower-cased Content-Transfer-Encoding.
func (e *Entity) TransferEncoding() string {
	if e.Header == nil {
		return ""
	}
	return e.Header.ContentTransferEncoding
}

// newEntity builds an entity for the top of a split from what the caller
// already knows about it.
func newEntity(contentType, charset, transferEncoding, body string) *Entity {
	return &Entity{
		Header: &header.Header{
			ContentType:             contentType,
			ContentTransferEncoding: strings.ToLower(strings.TrimSpace(transferEncoding)),
			Raw:                     map[string]string{},
		},
		ContentType: param.ParseLenient(contentType),
		CharSet:     charset,
		Body:        body,
	}
}

// parseEntity reads an entity from its raw text. A part that starts with a
// blank line has an empty header. A part with no blank line at all is read
// as a header when it parses into at least one field and as a body
// otherwise.
func parseEntity(raw string, brk header.Break, charset string) *Entity {
	var hdr, body string
	switch {
	case strings.HasPrefix(raw, brk.String()):
		body = raw[len(brk):]
	default:
		if ix := strings.Index(raw, brk.Separator()); ix >= 0 {
			hdr, body = raw[:ix], raw[ix+len(brk.Separator()):]
		} else {
			hdr = raw
		}
	}

	h := header.Parse(hdr)
	if body == "" && len(h.Raw) == 0 {
		h, body = header.Parse(""), raw
	}

	e := &Entity{
		Header:      h,
		ContentType: param.ParseLenient(h.ContentType),
		CharSet:     h.CharSet,
		Raw:         raw,
		Body:        body,
	}

	if e.CharSet == "" {
		e.CharSet = charset
	}

	return e
}

// name returns the file name of the entity, if it has one.
func (e *Entity) name() string {
	if n := e.ContentType.Name(); n != "" {
		return header.DecodeWords(n)
	}

	if cd, found := e.Header.Get("content-disposition"); found {
		if n := param.ParseLenient(cd).Filename(); n != "" {
			return header.DecodeWords(n)
		}
	}

	return ""
}

func (e *Entity) disposition() string {
	if cd, found := e.Header.Get("content-disposition"); found {
		return param.ParseLenient(cd).Value()
	}
	return ""
}

func (e *Entity) contentID() string {
	id, _ := e.Header.Get("content-id")
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "<")
	return strings.TrimSuffix(id, ">")
}
