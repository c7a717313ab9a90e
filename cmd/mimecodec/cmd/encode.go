package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mailforge/mimecodec/message"
	"github.com/mailforge/mimecodec/message/header"
)

var (
	encodeTransfer string
	encodeBoundary string
)

// replacedFields are the header fields encode writes anew.
var replacedFields = map[string]bool{
	"mime-version":                 true,
	header.ContentType:             true,
	header.ContentTransferEncoding: true,
}

var encodeCmd = &cobra.Command{
	Use:   "encode message",
	Short: "Writes a message back out as multipart MIME",
	Args:  cobra.ExactArgs(1),
	RunE:  RunEncode,
}

func init() {
	encodeCmd.Flags().StringVar(&encodeTransfer, "transfer-encoding", "quoted-printable", "transfer encoding of the body")
	encodeCmd.Flags().StringVar(&encodeBoundary, "boundary", "", "boundary to use, random when empty")
	rootCmd.AddCommand(encodeCmd)
}

func RunEncode(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open message: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, err := message.ParseReader(f, parseOptions(message.IncludeRawHeaders)...)
	if err != nil {
		return err
	}

	return encode(cmd.OutOrStdout(), m, encodeTransfer, encodeBoundary)
}

// encode writes the message with its original header, less the content
// fields, followed by the multipart body.
func encode(w io.Writer, m *message.Message, transferEncoding, boundary string) error {
	if boundary == "" {
		boundary = m.RandomizeBoundary()
	}

	hdr := stripFields(m.RawHeaders, replacedFields)
	if _, err := io.WriteString(w, hdr+message.MultipartHeader(boundary)+header.CRLF.String()); err != nil {
		return err
	}

	_, err := m.WriteMIME(w, transferEncoding, boundary)
	return err
}

// stripFields removes the named fields, continuation lines included, from a
// raw header block. The result ends in CRLF unless it is empty.
func stripFields(raw string, names map[string]bool) string {
	var sb strings.Builder

	skipping := false
	for _, line := range strings.Split(raw, header.CRLF.String()) {
		if line == "" {
			continue
		}

		if line[0] != ' ' && line[0] != '\t' {
			name, _, _ := strings.Cut(line, ":")
			skipping = names[strings.ToLower(strings.TrimSpace(name))]
		}

		if !skipping {
			sb.WriteString(line)
			sb.WriteString(header.CRLF.String())
		}
	}

	return sb.String()
}
