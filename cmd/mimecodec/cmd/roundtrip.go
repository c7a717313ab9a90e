package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/mailforge/mimecodec/message"
)

// ErrRoundTrip is returned when a message does not survive being parsed and
// put back together.
var ErrRoundTrip = errors.New("message changed in the round trip")

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip message",
	Short: "Shows the diff of a single message round-trip",
	Args:  cobra.ExactArgs(1),
	RunE:  RunRoundtrip,
}

func init() {
	rootCmd.AddCommand(roundtripCmd)
}

func RunRoundtrip(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read message: %w", err)
	}

	m := message.Parse(string(src), parseOptions(message.IncludeRaw)...)

	diff, same := lineDiff(string(src), m.RawMessage())
	if same {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: identical\n", args[0])
		return nil
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), diff)
	return ErrRoundTrip
}

// lineDiff compares two texts line by line. The diff is empty and the
// boolean true when the texts are the same.
func lineDiff(before, after string) (string, bool) {
	if before == after {
		return "", true
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	return dmp.DiffPrettyText(diffs), false
}
