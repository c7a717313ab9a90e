package header

import (
	"strings"
)

type parser struct {
	extended bool
}

func (pr *parser) clone() *parser {
	p := *pr
	return &p
}

var defaultParser = &parser{
	extended: false,
}

// Option refers to options that may be passed to Parse to modify how the
// header is parsed.
type Option func(pr *parser)

// WithExtended is an Option that enables or disables the extended field
// table. When enabled, Header.Extended is always non-nil.
func WithExtended(on bool) Option {
	return func(pr *parser) { pr.extended = on }
}

// Parse parses a header block. Bare LF line breaks are accepted when the
// block has no CR in it. Folded lines are unfolded first and then each line
// is split at its first colon.
//
// Parse never fails. Lines that are not fields are skipped and recorded in
// Header.Problems along with any value that could only be partly understood.
func Parse(block string, opts ...Option) *Header {
	pr := defaultParser.clone()
	for _, opt := range opts {
		opt(pr)
	}

	h := &Header{Raw: map[string]string{}}
	if pr.extended {
		h.Extended = &ExtendedProperties{}
	}

	block = unfold(NormalizeBreaks(block))
	for _, line := range strings.Split(block, CRLF.String()) {
		if line == "" {
			continue
		}

		pr.parseLine(h, line)
	}

	h.parseAddresses()

	return h
}

func (pr *parser) parseLine(h *Header, line string) {
	ix := strings.IndexByte(line, ':')
	if ix < 0 {
		h.Problems = append(h.Problems, Problem{Value: line, Err: ErrMalformedField})
		return
	}

	// a field with nothing but blanks after the colon is as empty as one
	// with nothing at all
	name := strings.ToLower(strings.TrimSpace(line[:ix]))
	value := strings.TrimSpace(line[ix+1:])
	if name == "" || value == "" {
		h.Problems = append(h.Problems, Problem{Field: name, Value: line, Err: ErrMalformedField})
		return
	}

	prev, found := h.Raw[name]
	switch {
	case found && firstWins[name]:
	case found && accumulating[name]:
		h.Raw[name] = prev + ", " + value
	default:
		h.Raw[name] = value
	}

	if handle, found := coreFields[name]; found {
		if err := handle(h, value); err != nil {
			h.Problems = append(h.Problems, Problem{Field: name, Value: value, Err: err})
		}
		return
	}

	if pr.extended {
		if handle, found := extendedFields[name]; found {
			handle(h.Extended, value)
		}
	}
}

// parseAddresses fills in the address fields from their raw values. The
// recipient lists are made unique.
func (h *Header) parseAddresses() {
	if v, found := h.Raw[From]; found {
		h.From = ParseAddressList(v)
	}
	if v, found := h.Raw[Sender]; found {
		h.Sender = ParseAddressList(v)
	}
	if v, found := h.Raw[ReplyTo]; found {
		h.ReplyTo = Unique(ParseAddressList(v))
	}
	if v, found := h.Raw[To]; found {
		h.To = Unique(ParseAddressList(v))
	}
	if v, found := h.Raw[Cc]; found {
		h.CC = Unique(ParseAddressList(v))
	}
	if v, found := h.Raw[Bcc]; found {
		h.Bcc = Unique(ParseAddressList(v))
	}
}
