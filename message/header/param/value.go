package param

import (
	"mime"
	"sort"
	"strings"
)

// Names of the parameters this library reads.
const (
	// Charset is the name of the charset parameter that may be present in the
	// Content-type header.
	Charset = "charset"

	// Boundary is the name of the boundary parameter that may be present in
	// the Content-type header.
	Boundary = "boundary"

	// Name is the name of the name parameter that may be present in the
	// Content-type header of an attachment.
	Name = "name"

	// Filename is the name of the filename parameter that may be present in
	// the Content-disposition header.
	Filename = "filename"

	// Protocol is the name of the protocol parameter of multipart/signed and
	// multipart/encrypted.
	Protocol = "protocol"

	// SMIMEType is the name of the smime-type parameter of
	// application/pkcs7-mime.
	SMIMEType = "smime-type"

	// ID and Number are the message/partial parameters.
	ID     = "id"
	Number = "number"
)

// Value represents a parsed parameterized header field, such as is used in the
// Content-type and Content-disposition headers. A Value object is immutable:
// You cannot change it in place.
type Value struct {
	v  string
	ps map[string]string
}

// Parse takes a header field body, parses it as a Value and returns it. If an
// error occurs in the process, it returns an error.
func Parse(v string) (*Value, error) {
	mt, ps, err := mime.ParseMediaType(v)
	if err != nil {
		return nil, err
	}

	return &Value{mt, ps}, nil
}

// ParseLenient works like Parse, but never fails. When the strict parse
// rejects the value, the value is split on semicolons by hand: the first
// piece becomes the lower-cased primary value and each later "key=value"
// piece becomes a parameter with surrounding quotes removed. Pieces without
// an "=" are dropped.
func ParseLenient(v string) *Value {
	if pv, err := Parse(v); err == nil {
		return pv
	}

	pieces := strings.Split(v, ";")
	pv := &Value{
		v:  strings.ToLower(strings.TrimSpace(pieces[0])),
		ps: make(map[string]string, len(pieces)-1),
	}

	for _, piece := range pieces[1:] {
		k, val, found := strings.Cut(piece, "=")
		if !found {
			continue
		}

		k = strings.ToLower(strings.TrimSpace(k))
		val = strings.TrimSpace(val)
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = val[1 : len(val)-1]
		}

		if k != "" {
			pv.ps[k] = val
		}
	}

	return pv
}

// New creates a new parameterized header field with the given parameters,
// which may be nil.
func New(v string, ps map[string]string) *Value {
	cps := make(map[string]string, len(ps))
	for k, pval := range ps {
		cps[strings.ToLower(k)] = pval
	}
	return &Value{v, cps}
}

// Value returns the primary value of the Value. This is the value before the
// first semi-colon.
func (pv *Value) Value() string {
	return pv.v
}

// MediaType is a synonym for Value() and returns the Content-type value, e.g.,
// "text/html", "image/jpeg", "multipart/mixed", etc.
func (pv *Value) MediaType() string {
	return pv.v
}

// Type is only intended for use with the Content-type header. It searches the
// MediaType() for a slash. If found, it will return the string before that
// slash. If no slash is found, it returns an empty string.
//
// For example, if MediaType() returns "image/jpeg", this method will return
// "image".
func (pv *Value) Type() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[:ix]
	}
	return ""
}

// Subtype is only intended for use with the Content-type header. It searches
// the MediaType() for a slash. If found, it will return the string after that
// slash. If no slash is found, it returns an empty string.
func (pv *Value) Subtype() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[ix+1:]
	}
	return ""
}

// Parameters returns the parameters encoded on this Value as a map. Do not
// modify this map.
func (pv *Value) Parameters() map[string]string {
	return pv.ps
}

// Parameter returns the value of the parameter with the given name.
func (pv *Value) Parameter(k string) string {
	return pv.ps[strings.ToLower(k)]
}

// Charset returns the value of the "charset" parameter.
func (pv *Value) Charset() string {
	return pv.ps[Charset]
}

// Boundary returns the value of the "boundary" parameter.
func (pv *Value) Boundary() string {
	return pv.ps[Boundary]
}

// Name returns the value of the "name" parameter.
func (pv *Value) Name() string {
	return pv.ps[Name]
}

// Filename returns the value of the "filename" parameter. It is intended for
// use with the Content-disposition header.
func (pv *Value) Filename() string {
	return pv.ps[Filename]
}

// String returns the serialized value including the primary value and all
// parameters, quoting parameter values where needed.
func (pv *Value) String() string {
	if s := mime.FormatMediaType(pv.v, pv.ps); s != "" {
		return s
	}

	pks := make([]string, 0, len(pv.ps))
	for k := range pv.ps {
		pks = append(pks, k)
	}
	sort.Strings(pks)

	var sb strings.Builder
	sb.WriteString(pv.v)
	for _, k := range pks {
		sb.WriteString("; ")
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(strings.ReplaceAll(pv.ps[k], `"`, `\"`))
		sb.WriteString(`"`)
	}

	return sb.String()
}
