package message

// Flags select what Parse keeps beyond the resolved message.
type Flags uint

// Flag values. They may be combined with |.
const (
	// IncludeRawHeaders keeps the original header block in RawHeaders.
	IncludeRawHeaders Flags = 1 << iota

	// IncludeRawBody keeps the original body block in RawBody.
	IncludeRawBody

	// IncludeMIMEParts keeps the flattened parts in MimeParts after they
	// have been aggregated.
	IncludeMIMEParts

	// ParseExtendedHeaders fills in the header's Extended properties.
	ParseExtendedHeaders

	// IncludeSmimeSignedData keeps detached S/MIME signatures as
	// attachments.
	IncludeSmimeSignedData

	// IncludeSmimeEncryptedEnvelopeData keeps S/MIME containers that were
	// opened as attachments. Containers that could not be opened are always
	// kept.
	IncludeSmimeEncryptedEnvelopeData

	// IncludeRaw is shorthand for keeping both raw blocks, which is what
	// RawMessage needs.
	IncludeRaw = IncludeRawHeaders | IncludeRawBody
)

// Has reports whether every flag in f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}
