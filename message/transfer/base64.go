package transfer

import (
	"encoding/base64"
	"io"
)

const defaultBase64LineLength = 76

var defaultBase64LineBreak = []byte("\r\n")

// newlineWriter inserts a line break after every "every" bytes written through
// it. acc tracks how many bytes have been written on the current line.
type newlineWriter struct {
	every int
	acc   int
	lbr   []byte
	w     io.Writer
}

func (nw *newlineWriter) Write(b []byte) (int, error) {
	n := 0
	for len(b)+nw.acc > nw.every {
		chunk := nw.every - nw.acc
		ln, err := nw.w.Write(b[:chunk])
		n += ln
		if err != nil {
			return n, err
		}

		if _, err = nw.w.Write(nw.lbr); err != nil {
			return n, err
		}

		b = b[chunk:]
		nw.acc = 0
	}

	ln, err := nw.w.Write(b)
	n += ln
	nw.acc += ln
	return n, err
}

func (nw *newlineWriter) Close() error {
	if nw.acc == 0 {
		return nil
	}
	_, err := nw.w.Write(nw.lbr)
	nw.acc = 0
	return err
}

// base64Writer closes the encoder first, flushing any partial block, and then
// terminates the final line.
type base64Writer struct {
	enc io.WriteCloser
	nw  *newlineWriter
}

func (bw *base64Writer) Write(b []byte) (int, error) {
	return bw.enc.Write(b)
}

func (bw *base64Writer) Close() error {
	if err := bw.enc.Close(); err != nil {
		return err
	}
	return bw.nw.Close()
}

// NewBase64Encoder will translate all bytes written to the returned
// io.WriteCloser into base64 encoding and write those to the give io.Writer.
// Lines are broken with CRLF every 76 characters.
func NewBase64Encoder(w io.Writer) io.WriteCloser {
	nw := &newlineWriter{
		every: defaultBase64LineLength,
		lbr:   defaultBase64LineBreak,
		w:     w,
	}
	return &base64Writer{base64.NewEncoder(base64.StdEncoding, nw), nw}
}

// NewBase64Decoder will translate all bytes read from the given io.Reader as
// base64 and return the binary data to the returned io.Reader. Line breaks in
// the input are ignored.
func NewBase64Decoder(r io.Reader) io.Reader {
	return base64.NewDecoder(base64.StdEncoding, r)
}
