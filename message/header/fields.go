package header

import (
	"regexp"
	"strings"
	"time"

	"github.com/mailforge/mimecodec/message/header/param"
)

// fieldHandler stores the value of one field on the header. A returned error
// is recorded as a Problem and never stops the parse.
type fieldHandler func(h *Header, v string) error

// accumulating lists the fields whose repeated occurrences are joined with
// ", " rather than replaced.
var accumulating = map[string]bool{
	To:      true,
	Cc:      true,
	Bcc:     true,
	ReplyTo: true,
}

// firstWins lists the fields whose first occurrence is kept, in Raw as well
// as in the typed field.
var firstWins = map[string]bool{
	ContentType: true,
}

var messageIDToken = regexp.MustCompile(`<[^<>]*>`)

// coreFields maps lower-cased field names to the handler for that field.
// Address fields are missing on purpose: they are parsed once from Raw after
// every line has been seen.
var coreFields = map[string]fieldHandler{
	Subject: func(h *Header, v string) error {
		h.Subject = stripBreaks(DecodeWords(v))
		return nil
	},
	Date:                 dateHandler(func(h *Header) *time.Time { return &h.Date }),
	ResentDate:           dateHandler(func(h *Header) *time.Time { return &h.ResentDate }),
	XOriginalArrivalTime: dateHandler(func(h *Header) *time.Time { return &h.OriginalArrivalTime }),
	MessageID: func(h *Header, v string) error {
		h.MessageID = stripAngles(v)
		return nil
	},
	ReturnPath: func(h *Header, v string) error {
		h.ReturnPath = stripAngles(v)
		return nil
	},
	InReplyTo: func(h *Header, v string) error {
		h.InReplyTo = messageIDs(v)
		if len(h.InReplyTo) == 0 && strings.TrimSpace(v) != "" {
			h.InReplyTo = []string{strings.TrimSpace(v)}
		}
		return nil
	},
	References: func(h *Header, v string) error {
		h.References = messageIDs(v)
		return nil
	},
	Received:  receivedHandler,
	XReceived: receivedHandler,
	ContentType: func(h *Header, v string) error {
		if h.ContentType != "" {
			return nil
		}

		pv := param.ParseLenient(v)
		h.ContentType = v
		h.ContentTypeParams = pv.Parameters()
		h.BodyContentType = pv.MediaType()
		h.CharSet = pv.Charset()
		h.Boundary = pv.Boundary()
		return nil
	},
	ContentTransferEncoding: func(h *Header, v string) error {
		h.ContentTransferEncoding = strings.ToLower(strings.TrimSpace(v))
		return nil
	},
	DeliveredTo: func(h *Header, v string) error {
		h.DeliveredTo = v
		return nil
	},
	DispositionNotificationTo: func(h *Header, v string) error {
		h.DispositionNotificationTo = v
		return nil
	},
	XPriority: func(h *Header, v string) error {
		if p, ok := ParsePriority(v); ok {
			h.Priority = p
		}
		return nil
	},
	Importance: func(h *Header, v string) error {
		if p, ok := ParsePriority(v); ok {
			h.Priority = p
		}
		return nil
	},
	XSubjectEncryption: func(h *Header, v string) error {
		h.SubjectEncryption = strings.EqualFold(strings.TrimSpace(v), "true")
		return nil
	},
}

func dateHandler(field func(h *Header) *time.Time) fieldHandler {
	return func(h *Header, v string) error {
		t, err := ParseTime(v)
		*field(h) = t
		return err
	}
}

func receivedHandler(h *Header, v string) error {
	if h.Received != "" {
		h.ReceivedChain = append(h.ReceivedChain, h.Received)
	}
	h.Received = v
	return nil
}

// ParsePriority reads an X-Priority or Importance value. It accepts the
// words low, normal, and high in any case as well as the numeric X-Priority
// scale, where 1 and 2 are high, 3 is normal, and 4 and 5 are low. The
// boolean is false when the value is not recognized.
func ParsePriority(v string) (Priority, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return PriorityNormal, false
	}

	switch v[0] {
	case '1', '2':
		return PriorityHigh, true
	case '3':
		return PriorityNormal, true
	case '4', '5':
		return PriorityLow, true
	}

	switch strings.ToLower(v) {
	case "low":
		return PriorityLow, true
	case "normal":
		return PriorityNormal, true
	case "high":
		return PriorityHigh, true
	}

	return PriorityNormal, false
}

func stripAngles(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "<")
	return strings.TrimSuffix(v, ">")
}

func stripBreaks(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}

// messageIDs returns every bracketed token in v, brackets removed, in order.
func messageIDs(v string) []string {
	toks := messageIDToken.FindAllString(v, -1)
	if len(toks) == 0 {
		return nil
	}

	ids := make([]string, len(toks))
	for i, tok := range toks {
		ids[i] = tok[1 : len(tok)-1]
	}
	return ids
}
