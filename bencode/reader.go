package bencode

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// ErrShortInput is returned by the Readers in this package when fewer bytes
// remain than were requested.
var ErrShortInput = errors.New("bencode: short input")

// A Reader is a forward-only cursor over bencoded input.
//
// Implementations must not be shared between concurrent parse calls.
type Reader interface {
	// Peek returns the next byte without consuming it.
	Peek() (byte, error)

	// Next consumes and returns exactly n bytes. The returned slice is only
	// valid until the next call on the Reader.
	Next(n int) ([]byte, error)
}

// BytesReader is a Reader over an in-memory byte slice. It never copies.
type BytesReader struct {
	buf []byte
	off int
}

// NewBytesReader returns a Reader positioned at the start of buf.
func NewBytesReader(buf []byte) *BytesReader {
	return &BytesReader{buf: buf}
}

// Peek implements Reader.
func (r *BytesReader) Peek() (byte, error) {
	if r.off >= len(r.buf) {
		return 0, ErrShortInput
	}
	return r.buf[r.off], nil
}

// Next implements Reader.
func (r *BytesReader) Next(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.off {
		return nil, ErrShortInput
	}
	b := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return b, nil
}

// Len returns the number of unread bytes.
func (r *BytesReader) Len() int {
	return len(r.buf) - r.off
}

// StreamReader is a Reader over an io.Reader.
type StreamReader struct {
	r       *bufio.Reader
	scratch bytes.Buffer
}

// NewStreamReader returns a Reader that reads from r.
func NewStreamReader(r io.Reader) *StreamReader {
	if br, ok := r.(*bufio.Reader); ok {
		return &StreamReader{r: br}
	}
	return &StreamReader{r: bufio.NewReader(r)}
}

// Peek implements Reader.
func (r *StreamReader) Peek() (byte, error) {
	b, err := r.r.Peek(1)
	if err != nil {
		return 0, streamErr(err)
	}
	return b[0], nil
}

// Next implements Reader.
//
// Requests that fit the buffer are served without copying. Larger requests
// are accumulated in a scratch buffer that only grows as input arrives, so a
// huge declared length cannot force a huge allocation up front.
func (r *StreamReader) Next(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrShortInput
	}

	if n <= r.r.Size() {
		b, err := r.r.Peek(n)
		if err != nil {
			return nil, streamErr(err)
		}
		_, _ = r.r.Discard(n)
		return b, nil
	}

	r.scratch.Reset()
	if _, err := io.CopyN(&r.scratch, r.r, int64(n)); err != nil {
		return nil, streamErr(err)
	}
	return r.scratch.Bytes(), nil
}

func streamErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrShortInput
	}
	return err
}
