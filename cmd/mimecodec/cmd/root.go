package cmd

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mailforge/mimecodec/internal/config"
	"github.com/mailforge/mimecodec/message"
)

var (
	cfg    *config.Root
	logger = zerolog.Nop()

	logLevel          string
	extended          bool
	subjectProtection bool
	maxDepth          int
)

var rootCmd = &cobra.Command{
	Use:               "mimecodec",
	Short:             "Tools for parsing, checking, and re-encoding email messages",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "", "log level, overrides MIMECODEC_LOGLEVEL")
	flags.BoolVar(&extended, "extended", false, "parse extended header fields")
	flags.BoolVar(&subjectProtection, "subject-protection", false, "recover subjects protected in the body")
	flags.IntVar(&maxDepth, "max-depth", 0, "deepest nested multipart to split, -1 for no limit")
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the configuration, lets the flags override it, and builds the
// logger.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Process()
	if err != nil {
		_ = config.Usage(os.Stderr)
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("extended") {
		c.Parse.ExtendedHeaders = extended
	}
	if flags.Changed("subject-protection") {
		c.Parse.SubjectProtection = subjectProtection
	}
	if flags.Changed("max-depth") {
		c.Parse.MaxDepth = maxDepth
	}

	lvl, err := c.Level()
	if err != nil {
		return err
	}

	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     cmd.ErrOrStderr(),
		NoColor: runtime.GOOS == "windows",
	}).Level(lvl).With().Timestamp().Logger()

	cfg = c
	return nil
}

// parseOptions returns the parse options for the loaded configuration, with
// extra flags added.
func parseOptions(extra message.Flags) []message.ParseOption {
	p := cfg.Parse
	opts := p.Options(logger)
	return append(opts, message.WithFlags(p.Flags()|extra))
}
