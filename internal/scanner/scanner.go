// Package scanner adjusts bufio.Scanner so a split function can consume input
// without producing a token.
package scanner

import (
	"bufio"
	"errors"
)

// ErrContinue may be returned by a split function wrapped with
// MakeSplitFuncExitByAdvance to be called again on the same data, usually
// after it has changed its own state.
var ErrContinue = errors.New("split func continue")

// MakeSplitFuncExitByAdvance wraps a bufio.SplitFunc so that returning an
// advance without a token consumes that data and calls the split function
// again instead of ending the scan.
//
// A bare bufio.Scanner stops when a split function returns no token at EOF,
// even though unread data remains. The wrapper keeps looping until the split
// function returns a token, an error, asks for more data (advance of 0), or
// consumes everything it was given. The advances made along the way are
// summed so the scanner moves forward by the right amount.
func MakeSplitFuncExitByAdvance(split bufio.SplitFunc) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		totalAdvance := 0
		for {
			advance, token, err := split(data, atEOF)

			continuing := errors.Is(err, ErrContinue)
			if !continuing && (token != nil || advance == 0 || len(data)-advance <= 0 || err != nil) {
				return totalAdvance + advance, token, err
			}

			data = data[advance:]
			totalAdvance += advance
		}
	}
}
