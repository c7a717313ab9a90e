package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mailforge/mimecodec/message"
)

var parseCmd = &cobra.Command{
	Use:   "parse message",
	Short: "Describes the header, body, and attachments of a message",
	Args:  cobra.ExactArgs(1),
	RunE:  RunParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func RunParse(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open message: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, err := message.ParseReader(f, parseOptions(0)...)
	if err != nil {
		return err
	}

	return summarize(cmd.OutOrStdout(), m)
}
