package header

import (
	"errors"
	"strings"
	"time"

	"github.com/zostay/go-addr/pkg/addr"
)

// Problems recorded while parsing a header.
var (
	// ErrMalformedField is recorded for a header line with no colon or with
	// nothing after the colon. Such lines are skipped.
	ErrMalformedField = errors.New("header line is not a field")

	// ErrBadDate is recorded when a date field could not be parsed. The
	// corresponding time.Time field is left as the zero value.
	ErrBadDate = errors.New("unparseable date")
)

// These are the lower-cased names of the fields the core dispatch table
// handles.
const (
	Bcc                       = "bcc"
	Cc                        = "cc"
	ContentTransferEncoding   = "content-transfer-encoding"
	ContentType               = "content-type"
	Date                      = "date"
	DeliveredTo               = "delivered-to"
	DispositionNotificationTo = "disposition-notification-to"
	From                      = "from"
	Importance                = "importance"
	InReplyTo                 = "in-reply-to"
	MessageID                 = "message-id"
	Received                  = "received"
	References                = "references"
	ReplyTo                   = "reply-to"
	ResentDate                = "resent-date"
	ReturnPath                = "return-path"
	Sender                    = "sender"
	Subject                   = "subject"
	To                        = "to"
	XOriginalArrivalTime      = "x-originalarrivaltime"
	XPriority                 = "x-priority"
	XReceived                 = "x-received"
	XSubjectEncryption        = "x-subject-encryption"
)

// Priority is the sender-assigned priority of a message.
type Priority int

// Priority values. PriorityNormal is the zero value.
const (
	PriorityNormal Priority = iota
	PriorityLow
	PriorityHigh
)

// String returns the priority name as it appears in an X-Priority header.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	default:
		return "Normal"
	}
}

// Problem describes a header line that could not be fully understood. The
// rest of the header is unaffected by it.
type Problem struct {
	Field string // lower-cased field name, empty when the line had none
	Value string // the offending value or line
	Err   error
}

// Header holds the parsed fields of a message header. The address, date, and
// identifier fields are typed. Every field seen, recognized or not, is also
// kept in Raw.
type Header struct {
	From    addr.AddressList
	Sender  addr.AddressList
	ReplyTo addr.AddressList

	// To, CC, and Bcc are ordered and free of duplicates. Repeated fields
	// are merged.
	To  addr.AddressList
	CC  addr.AddressList
	Bcc addr.AddressList

	DeliveredTo               string
	DispositionNotificationTo string

	Subject string

	// Date, ResentDate, and OriginalArrivalTime are zero when absent or
	// unparseable.
	Date                time.Time
	ResentDate          time.Time
	OriginalArrivalTime time.Time

	// MessageID and ReturnPath have their angle brackets removed.
	MessageID  string
	ReturnPath string

	// InReplyTo and References hold message IDs without angle brackets, in
	// the order they appear.
	InReplyTo  []string
	References []string

	// Received holds the last Received (or X-Received) field seen.
	// ReceivedChain holds the ones before it, in header order.
	Received      string
	ReceivedChain []string

	// ContentType is the first Content-Type field as written. The remaining
	// content fields are derived from it: BodyContentType is its lower-cased
	// media type without parameters.
	ContentType       string
	ContentTypeParams map[string]string
	BodyContentType   string
	CharSet           string
	Boundary          string

	// ContentTransferEncoding is lower-cased.
	ContentTransferEncoding string

	Priority Priority

	// SubjectEncryption is set by an "X-Subject-Encryption: true" field and
	// asks for the protected subject inside the body to be recovered.
	SubjectEncryption bool

	// Raw maps each lower-cased field name to its value. Later fields
	// replace earlier ones except for address fields, which are joined with
	// ", ".
	Raw map[string]string

	// Extended is nil unless the header was parsed with WithExtended.
	Extended *ExtendedProperties

	// Problems lists the lines that were skipped or only partly understood.
	Problems []Problem
}

// IsBodyHTML reports whether BodyContentType is text/html.
func (h *Header) IsBodyHTML() bool {
	return strings.HasPrefix(h.BodyContentType, "text/html")
}

// AllReceived returns every Received field in header order.
func (h *Header) AllReceived() []string {
	if h.Received == "" {
		return h.ReceivedChain
	}

	all := make([]string, 0, len(h.ReceivedChain)+1)
	all = append(all, h.ReceivedChain...)
	return append(all, h.Received)
}

// Get returns the raw value of the named field, matching the name without
// regard to case.
func (h *Header) Get(name string) (string, bool) {
	v, found := h.Raw[strings.ToLower(name)]
	return v, found
}

// AllRecipients returns the union of To, CC, and Bcc with duplicates removed,
// in the order each address was first seen.
func (h *Header) AllRecipients() addr.AddressList {
	return Unique(h.To, h.CC, h.Bcc)
}
