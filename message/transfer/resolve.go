package transfer

// Resolved is the outcome of decoding one body.
type Resolved struct {
	// Text is the body after transfer decoding and charset decoding.
	Text string

	// Bytes is the body after transfer decoding only.
	Bytes []byte

	// Encoding is the declared transfer encoding (normalized) or, when none
	// was declared, the encoding inferred by Sniff.
	Encoding string

	// Inferred is true when Encoding came from Sniff.
	Inferred bool

	// Decoded is true when Text differs from the raw input.
	Decoded bool

	// Err holds the first decoding problem encountered. The other fields are
	// still usable when it is set: a failed transfer decoding leaves the raw
	// input in place and a failed charset decoding falls back to a best-effort
	// reading of the bytes.
	Err error
}

// Resolve decodes a body given its declared transfer encoding and charset.
// When no transfer encoding is declared, the raw text is sniffed first. An
// encoding name this package does not know is treated as a pass through.
func Resolve(raw, cte, charset string) Resolved {
	res := Resolved{Encoding: Normalize(cte)}
	if res.Encoding == None {
		res.Encoding = Sniff(raw)
		res.Inferred = res.Encoding != None
	}

	b, err := Decode(raw, res.Encoding)
	if err != nil {
		b = []byte(raw)
		res.Err = err
	}
	res.Bytes = b

	text, err := DecodeCharset(charset, b)
	if err != nil && res.Err == nil {
		res.Err = err
	}
	res.Text = text
	res.Decoded = text != raw

	return res
}
