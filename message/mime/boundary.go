package mime

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/mailforge/mimecodec/internal/scanner"
	"github.com/mailforge/mimecodec/message/header"
)

// splitBody breaks a multipart body into the raw text of its parts. The
// preamble before the first boundary and the epilogue after the closing
// boundary are dropped. The boolean is false when no opening boundary was
// found.
//
// A missing closing boundary is tolerated: everything after the last
// boundary becomes the final part.
func splitBody(body, boundary string, brk header.Break) ([]string, bool) {
	// Every boundary but the very first must begin with a line break, but the
	// first might not have one. The line breaks around the boundaries belong
	// to the boundaries, not the parts.
	sb := []byte("--" + boundary + brk.String())
	mb := []byte(brk.String() + "--" + boundary + brk.String())
	fb := []byte(brk.String() + "--" + boundary + "--")

	const (
		modeStart = iota
		modeMiddle
		modeEnd
	)

	mode := modeStart
	awaitingPrefix := true
	split := func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		switch mode {
		case modeStart:
			if atEOF || len(data) >= len(sb) {
				if bytes.HasPrefix(data, sb) {
					awaitingPrefix = false
					advance = len(sb)
				}
				mode = modeMiddle
				err = scanner.ErrContinue
			}

		case modeMiddle:
			if ix := bytes.Index(data, mb); ix >= 0 {
				advance = ix + len(mb)
				if awaitingPrefix {
					awaitingPrefix = false
				} else {
					token = data[:ix]
				}
			} else if atEOF {
				mode = modeEnd
				err = scanner.ErrContinue
			}

		case modeEnd:
			switch {
			case awaitingPrefix:
				token = []byte{}
			case bytes.Contains(data, fb):
				token = data[:bytes.Index(data, fb)]
			default:
				token = data
			}
			advance = len(data)
			err = bufio.ErrFinalToken
		}
		return
	}

	sc := bufio.NewScanner(strings.NewReader(body))
	sc.Buffer(make([]byte, 0, 4096), len(body)+len(sb)+1)
	sc.Split(scanner.MakeSplitFuncExitByAdvance(split))

	var parts []string
	for sc.Scan() {
		parts = append(parts, sc.Text())
	}

	if awaitingPrefix || sc.Err() != nil {
		return nil, false
	}

	return parts, true
}

// breakOf returns the line break a body uses.
func breakOf(body string) header.Break {
	if strings.Contains(body, header.CRLF.String()) {
		return header.CRLF
	}
	return header.LF
}
