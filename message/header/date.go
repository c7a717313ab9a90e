package header

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Even more custom date formats, built from those seen in the wild that the
// usual parsers have trouble with.
const (
	// UnixDateWithEarlyYear is a weird one, eh?
	UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"
)

var (
	dateComment  = regexp.MustCompile(`\([^)]*\)`)
	trailingZone = regexp.MustCompile(`([+-]\d{4})\s+[A-Za-z]{1,5}$`)
)

// ParseTime parses a date field body. It cleans up the common decorations
// first: parenthetical comments, the FILETIME suffix of
// X-OriginalArrivalTime, and a zone name following a numeric offset. Then it
// tries the RFC 5322 format and falls back to parsing it in many other
// formats. The numeric offset, when present, is kept as the zone of the
// result.
func ParseTime(body string) (time.Time, error) {
	clean := cleanDate(body)

	t, err := mail.ParseDate(clean)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(clean)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, clean)
	if err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, body)
}

func cleanDate(body string) string {
	if i := strings.Index(body, " FILETIME="); i > -1 {
		body = body[:i]
	}

	body = dateComment.ReplaceAllString(body, "")
	body = strings.Join(strings.Fields(body), " ")
	return trailingZone.ReplaceAllString(body, "$1")
}
