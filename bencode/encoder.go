package bencode

import (
	"io"

	"github.com/chihaya/benc/bufferpool"
)

var encodePool = bufferpool.New(64, 512, 64<<10)

// An Encoder writes bencoded values to an output stream.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the bencoding of v to the stream.
//
// The value is serialized into a pooled buffer first and handed to the
// underlying writer in a single Write, so a value is never half written by
// the encoder itself. The writer's error is returned unchanged.
func (enc *Encoder) Encode(v Value) error {
	buf := encodePool.Take()
	defer encodePool.Give(buf)

	// bytes.Buffer only fails by panicking.
	_ = Serialize(buf, v)

	_, err := enc.w.Write(buf.Bytes())
	return err
}

// Marshal returns the bencoding of v.
func Marshal(v Value) ([]byte, error) {
	buf := encodePool.Take()
	defer encodePool.Give(buf)

	if err := Serialize(buf, v); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}
