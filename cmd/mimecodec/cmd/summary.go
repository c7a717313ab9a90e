package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/zostay/go-addr/pkg/addr"

	"github.com/mailforge/mimecodec/message"
)

// summarize writes a readable description of a parsed message.
func summarize(w io.Writer, m *message.Message) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	row := func(name string, value any) {
		_, _ = fmt.Fprintf(tw, "%s:\t%v\n", name, value)
	}

	row("From", addresses(m.From))
	row("To", addresses(m.To))
	if len(m.CC) > 0 {
		row("Cc", addresses(m.CC))
	}
	row("Subject", m.Subject)
	row("Date", formatDate(m.Date))
	row("Message-ID", m.MessageID)
	row("Size", m.Size())
	row("Body", fmt.Sprintf("%s; charset=%s; %d bytes", orNone(m.BodyContentType), orNone(m.CharSet), len(m.Body)))
	row("Transfer encoding", orNone(m.BodyTransferEncoding))

	for _, v := range m.AlternateViews {
		row("Alternate view", fmt.Sprintf("%s; %d bytes", v.ContentType, len(v.Content)))
	}
	for _, a := range m.Attachments {
		row("Attachment", fmt.Sprintf("%s (%s); %d bytes", a.Name, a.ContentType, len(a.Content)))
	}

	row("S/MIME", cryptoState(m.SmimeSigned, m.SmimeEncryptedEnvelope, m.SmimeTripleWrapped))
	row("PGP", cryptoState(m.PgpSigned, m.PgpEncrypted, false))

	for _, p := range m.Problems {
		row("Problem", fmt.Sprintf("%s: %v", orNone(p.Field), p.Err))
	}

	return tw.Flush()
}

func addresses(al addr.AddressList) string {
	out := make([]string, len(al))
	for i, a := range al {
		out[i] = a.Address()
	}
	return orNone(strings.Join(out, ", "))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "(none)"
	}
	return t.Format(time.RFC1123Z)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func cryptoState(signed, encrypted, tripleWrapped bool) string {
	var states []string
	if signed {
		states = append(states, "signed")
	}
	if encrypted {
		states = append(states, "encrypted")
	}
	if tripleWrapped {
		states = append(states, "triple-wrapped")
	}
	return orNone(strings.Join(states, ", "))
}
