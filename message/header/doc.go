// Package header parses the header block of an email message into a Header:
// typed storage for the fields a mail client cares about plus a raw,
// case-insensitive map of every field seen.
//
// Parsing is forgiving. A line with no colon, an empty field, or a date that
// will not parse never stops the parse. Such problems are recorded on
// Header.Problems so callers can tell a degraded header from a clean one.
//
// Dispatch from field name to handler is table driven. The core table is
// always consulted; the extended table, which fills ExtendedProperties with
// rarely needed values such as DKIM signatures and list headers, is consulted
// only when WithExtended is given.
package header
