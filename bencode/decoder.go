package bencode

import (
	"io"
)

// A Decoder reads bencoded values from an input stream.
type Decoder struct {
	r     *StreamReader
	codec Codec
	alloc Allocator
}

// NewDecoder returns a new decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: NewStreamReader(r), alloc: HeapAllocator{}}
}

// SetAllocator sets the Allocator used for subsequent calls to Decode.
func (dec *Decoder) SetAllocator(a Allocator) {
	dec.alloc = a
}

// SetMaxDepth sets the nesting limit used for subsequent calls to Decode.
func (dec *Decoder) SetMaxDepth(depth int) {
	dec.codec.MaxDepth = depth
}

// Decode parses the next bencoded value in the stream.
func (dec *Decoder) Decode() (Value, error) {
	return dec.codec.Parse(dec.r, dec.alloc)
}

// Unmarshal parses the single bencoded value in buf. Bytes left over after
// the value are Malformed.
func Unmarshal(buf []byte) (Value, error) {
	return UnmarshalWith(DefaultCodec, buf, HeapAllocator{})
}

// UnmarshalWith is like Unmarshal but uses the given Codec and Allocator.
func UnmarshalWith(c Codec, buf []byte, a Allocator) (Value, error) {
	r := NewBytesReader(buf)
	v, err := c.Parse(r, a)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, &Error{
			Kind:   Malformed,
			Offset: int64(len(buf) - r.Len()),
			Reason: "trailing data after value",
		}
	}
	return v, nil
}
