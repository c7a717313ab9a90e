package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/emersion/go-mbox"
	"github.com/spf13/cobra"

	"github.com/mailforge/mimecodec/message"
)

var mboxFull bool

var mboxCmd = &cobra.Command{
	Use:   "mbox archive",
	Short: "Describes every message in an mbox archive",
	Args:  cobra.ExactArgs(1),
	RunE:  RunMbox,
}

func init() {
	mboxCmd.Flags().BoolVar(&mboxFull, "full", false, "describe each message in full")
	rootCmd.AddCommand(mboxCmd)
}

func RunMbox(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open mbox: %w", err)
	}
	defer func() { _ = f.Close() }()

	return eachMessage(f, parseOptions(0), func(n int, m *message.Message) error {
		w := cmd.OutOrStdout()
		if !mboxFull {
			_, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d attachments\n",
				n, formatDate(m.Date), addresses(m.From), m.Subject, len(m.Attachments))
			return err
		}

		if _, err := fmt.Fprintf(w, "Message %d\n", n); err != nil {
			return err
		}
		if err := summarize(w, m); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	})
}

// eachMessage parses each message of an mbox archive in turn. Messages are
// numbered from 1.
func eachMessage(r io.Reader, opts []message.ParseOption, fn func(n int, m *message.Message) error) error {
	mr := mbox.NewReader(r)
	for n := 1; ; n++ {
		msg, err := mr.NextMessage()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("read mbox message %d: %w", n, err)
		}

		m, err := message.ParseReader(msg, opts...)
		if err != nil {
			return fmt.Errorf("read mbox message %d: %w", n, err)
		}

		logger.Debug().Int("message", n).Str("subject", m.Subject).Msg("parsed")
		if err := fn(n, m); err != nil {
			return err
		}
	}
}
