// Package config loads the mimecodec command configuration from the
// environment.
package config

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/mailforge/mimecodec/message"
)

const (
	prefix      = "mimecodec"
	tableFormat = `mimecodec is configured via the environment. The following environment
variables can be used:

KEY	DEFAULT	REQUIRED	DESCRIPTION
{{range .}}{{usage_key .}}	{{usage_default .}}	{{usage_required .}}	{{usage_description .}}
{{end}}`
)

// Root wraps all other configurations.
type Root struct {
	LogLevel string `required:"true" default:"warn" desc:"debug, info, warn, or error"`
	Parse    Parse
}

// Parse contains the message parsing configuration.
type Parse struct {
	RawHeaders        bool `default:"true" desc:"Keep the raw header block"`
	RawBody           bool `default:"true" desc:"Keep the raw body block"`
	MIMEParts         bool `default:"false" desc:"Keep the split MIME parts"`
	ExtendedHeaders   bool `default:"false" desc:"Parse extended header fields"`
	SubjectProtection bool `default:"false" desc:"Recover subjects protected in the body"`
	SmimeSignedData   bool `default:"false" desc:"Keep S/MIME signatures as attachments"`
	SmimeEnvelopeData bool `default:"false" desc:"Keep opened S/MIME envelopes as attachments"`
	MaxDepth          int  `default:"10" desc:"Deepest nested multipart to split, -1 for no limit"`
}

// Flags returns the message flags selected by the configuration.
func (p Parse) Flags() message.Flags {
	var f message.Flags
	for _, sel := range []struct {
		on   bool
		flag message.Flags
	}{
		{p.RawHeaders, message.IncludeRawHeaders},
		{p.RawBody, message.IncludeRawBody},
		{p.MIMEParts, message.IncludeMIMEParts},
		{p.ExtendedHeaders, message.ParseExtendedHeaders},
		{p.SmimeSignedData, message.IncludeSmimeSignedData},
		{p.SmimeEnvelopeData, message.IncludeSmimeEncryptedEnvelopeData},
	} {
		if sel.on {
			f |= sel.flag
		}
	}
	return f
}

// Options returns the parse options selected by the configuration.
func (p Parse) Options(logger zerolog.Logger) []message.ParseOption {
	opts := []message.ParseOption{
		message.WithFlags(p.Flags()),
		message.WithMaxDepth(p.MaxDepth),
		message.WithLogger(logger),
	}

	if p.SubjectProtection {
		opts = append(opts, message.WithSubjectProtection())
	}

	return opts
}

// Level returns the configured log level.
func (r *Root) Level() (zerolog.Level, error) {
	switch strings.ToLower(r.LogLevel) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}

	return zerolog.NoLevel, fmt.Errorf("log level %q not one of: debug, info, warn, error", r.LogLevel)
}

// Process loads and parses configuration from the environment.
func Process() (*Root, error) {
	c := &Root{}
	err := envconfig.Process(prefix, c)
	return c, err
}

// Usage writes the envconfig usage table to w.
func Usage(w io.Writer) error {
	tabs := tabwriter.NewWriter(w, 1, 0, 4, ' ', 0)
	if err := envconfig.Usagef(prefix, &Root{}, tabs, tableFormat); err != nil {
		return fmt.Errorf("unable to describe configuration: %w", err)
	}
	return tabs.Flush()
}
