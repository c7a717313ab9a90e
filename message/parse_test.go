package message_test

import (
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailforge/mimecodec/message"
	"github.com/mailforge/mimecodec/message/header"
)

const simpleMsg = "From: Sterling <sterling@example.com>\r\n" +
	"To: a@x.com, b@y.com\r\n" +
	"Cc: b@y.com\r\n" +
	"garbage line\r\n" +
	"Subject: =?utf-8?q?Caf=C3=A9?= menu\r\n" +
	"Date: Mon, 1 Jan 2024 00:00:00 -0500 (EST)\r\n" +
	"Message-ID: <menu@example.com>\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Soup of the day.\r\n"

func addresses(t *testing.T, m *message.Message) []string {
	t.Helper()

	all := m.AllRecipients()
	out := make([]string, len(all))
	for i, a := range all {
		out[i] = a.Address()
	}
	return out
}

func TestParse_Simple(t *testing.T) {
	t.Parallel()

	m := message.Parse(simpleMsg)

	assert.Equal(t, "Café menu", m.Subject)
	assert.Equal(t, "menu@example.com", m.MessageID)
	assert.Equal(t, "sterling@example.com", m.From[0].Address())
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, addresses(t, m))

	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("", -5*60*60))
	assert.True(t, want.Equal(m.Date), "date is %v", m.Date)

	assert.Equal(t, "Soup of the day.", m.Body)
	assert.Equal(t, "text/plain", m.BodyContentType)
	assert.Equal(t, "utf-8", m.CharSet)
	assert.False(t, m.IsBodyHTML())
	assert.Empty(t, m.Attachments)
	assert.Empty(t, m.AlternateViews)

	require.Len(t, m.Problems, 1)
	assert.ErrorIs(t, m.Problems[0].Err, header.ErrMalformedField)
	assert.Equal(t, int64(len(simpleMsg)), m.Size())
}

func TestParse_RawRoundTrip(t *testing.T) {
	t.Parallel()

	m := message.Parse(simpleMsg, message.WithFlags(message.IncludeRaw))
	assert.Equal(t, simpleMsg, m.RawMessage())

	again := message.Parse(m.RawMessage(), message.WithFlags(message.IncludeRaw))
	assert.Equal(t, m.Body, again.Body)
	assert.Equal(t, m.Subject, again.Subject)

	bare := message.Parse(simpleMsg)
	assert.Empty(t, bare.RawHeaders)
	assert.Empty(t, bare.RawBody)
}

func TestParse_LF(t *testing.T) {
	t.Parallel()

	m := message.Parse(strings.ReplaceAll(simpleMsg, "\r\n", "\n"))
	assert.Equal(t, "Café menu", m.Subject)
	assert.Equal(t, "Soup of the day.", m.Body)
}

func TestParse_NoBlankLine(t *testing.T) {
	t.Parallel()

	m := message.Parse("From: sterling@example.com\r\nSubject: just a header\r\n")
	assert.Equal(t, "just a header", m.Subject)
	assert.Empty(t, m.Body)

	m = message.Parse("nothing here looks like a header\r\nat all")
	assert.Empty(t, m.Subject)
	assert.Equal(t, "nothing here looks like a header\r\nat all", m.Body)
}

func TestParse_DirectDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		header    string
		body      string
		want      string
		decoded   bool
		encoding  string
		mediaType string
	}{
		{
			name:     "declared quoted-printable",
			header:   "Content-Transfer-Encoding: quoted-printable\r\n",
			body:     "Caf=C3=A9 au lait=\r\n and more\r\n\r\n",
			want:     "Café au lait and more",
			decoded:  true,
			encoding: "quoted-printable",
		},
		{
			name:     "inferred base64",
			body:     "SGVsbG8sIFdvcmxkISBUaGlzIGlzIGEgdGVzdC4=\r\n",
			want:     "Hello, World! This is a test.",
			decoded:  true,
			encoding: "base64",
		},
		{
			name: "short word left alone",
			body: "test1234",
			want: "test1234",
		},
		{
			name: "short lines left alone",
			body: "abcd\r\nefgh\r\n",
			want: "abcd\r\nefgh",
		},
		{
			name:     "trailing comment artifact",
			header:   "Content-Transfer-Encoding: 7bit\r\n",
			body:     "plain words\r\n\r\n)",
			want:     "plain words",
			encoding: "7bit",
		},
		{
			name:      "html inferred",
			header:    "Content-Transfer-Encoding: 7bit\r\n",
			body:      "<html><BODY>hi</BODY></html>",
			want:      "<html><BODY>hi</BODY></html>",
			encoding:  "7bit",
			mediaType: "text/html",
		},
		{
			name:     "unknown encoding passes through",
			header:   "Content-Transfer-Encoding: x-uuencode\r\n",
			body:     "begin 644 file",
			want:     "begin 644 file",
			encoding: "x-uuencode",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := message.Parse("Subject: test\r\n" + tc.header + "\r\n" + tc.body)
			assert.Equal(t, tc.want, m.Body)
			assert.Equal(t, tc.decoded, m.BodyDecoded)
			assert.Equal(t, tc.encoding, m.BodyTransferEncoding)
			assert.Equal(t, tc.mediaType, m.BodyContentType)
		})
	}
}

func TestParse_Extended(t *testing.T) {
	t.Parallel()

	raw := "Subject: x\r\nList-Unsubscribe: <mailto:leave@example.com>\r\n\r\nbody"

	m := message.Parse(raw)
	assert.Nil(t, m.Extended)

	m = message.Parse(raw, message.WithFlags(message.ParseExtendedHeaders))
	require.NotNil(t, m.Extended)
	assert.Equal(t, "<mailto:leave@example.com>", m.Extended.ListUnsubscribe)
}

func TestParse_Partial(t *testing.T) {
	t.Parallel()

	m := message.Parse("Subject: part two\r\n" +
		"Content-Type: message/partial; id=\"abc@example.com\"; number=2; total=3\r\n" +
		"\r\n" +
		"Content-Transfer-Encoding: 7bit\r\n")
	assert.Equal(t, "abc@example.com", m.PartialMessageID)
	assert.Equal(t, 2, m.PartialMessageNumber)
}

func TestParse_SubjectProtection(t *testing.T) {
	t.Parallel()

	raw := "Subject: ...\r\n" +
		"Content-Type: text/plain\r\n" +
		"Content-Transfer-Encoding: 7bit\r\n" +
		"\r\n" +
		"Subject: The real subject\r\n" +
		"Meet at noon."

	m := message.Parse(raw)
	assert.Equal(t, "...", m.Subject)

	m = message.Parse(raw, message.WithSubjectProtection())
	assert.Equal(t, "The real subject", m.Subject)
	assert.Equal(t, "Meet at noon.", m.Body)

	m = message.Parse("X-Subject-Encryption: true\r\n" + raw)
	assert.Equal(t, "The real subject", m.Subject)
}

func TestParseReader(t *testing.T) {
	t.Parallel()

	m, err := message.ParseReader(strings.NewReader(simpleMsg))
	require.NoError(t, err)
	assert.Equal(t, "Café menu", m.Subject)

	_, err = message.ParseReader(iotest.ErrReader(assert.AnError))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestMessage_Size(t *testing.T) {
	t.Parallel()

	m := message.New()
	m.Body = "12345"
	m.Attachments = []*message.Attachment{
		{Name: "a", Content: []byte("123")},
		{Name: "b", Reader: strings.NewReader("1234")},
	}
	assert.Equal(t, int64(12), m.Size())

	m.SetSize(100)
	assert.Equal(t, int64(100), m.Size())
}
