package bencode

import (
	"fmt"
	"io"
)

// DefaultMaxDepth is the nesting limit used when Codec.MaxDepth is zero.
const DefaultMaxDepth = 512

// Serializer is the set of operations implemented by the codec: a parse and
// a serialize operation for each of the four bencode types.
type Serializer interface {
	ParseString(r Reader, a Allocator) (String, error)
	SerializeString(w io.Writer, s String) error

	ParseInteger(r Reader) (Integer, error)
	SerializeInteger(w io.Writer, i Integer) error

	ParseList(r Reader, a Allocator) (List, error)
	SerializeList(w io.Writer, l List) error

	ParseDict(r Reader, a Allocator) (Dict, error)
	SerializeDict(w io.Writer, d Dict) error
}

// Codec parses and serializes bencoded values.
//
// The zero value is ready to use. A Codec holds no per-call state and can be
// used concurrently as long as each call gets its own Reader and Allocator.
type Codec struct {
	// MaxDepth bounds the nesting of lists and dictionaries. Input nested
	// deeper fails with Overflow. Zero means DefaultMaxDepth.
	MaxDepth int
}

var _ Serializer = Codec{}

// DefaultCodec is the Codec used by the package-level functions.
var DefaultCodec = Codec{}

func (c Codec) newCursor(r Reader, a Allocator) *cursor {
	if a == nil {
		a = HeapAllocator{}
	}
	depth := c.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &cursor{r: r, a: a, maxDepth: depth}
}

// Parse parses the next value from r, whichever type it is.
func (c Codec) Parse(r Reader, a Allocator) (Value, error) {
	cur := c.newCursor(r, a)
	tok, err := cur.peek()
	if err != nil {
		return nil, err
	}
	return cur.parseValue(tok)
}

// ParseString implements Serializer. r must be positioned on the first digit
// of the length prefix; on success it is left just past the string body.
func (c Codec) ParseString(r Reader, a Allocator) (String, error) {
	return c.newCursor(r, a).parseString()
}

// ParseInteger implements Serializer. r must be positioned on the 'i'; on
// success it is left just past the terminating 'e'.
func (c Codec) ParseInteger(r Reader) (Integer, error) {
	return c.newCursor(r, nil).parseInteger()
}

// ParseList implements Serializer. r must be positioned on the 'l'; on
// success it is left just past the terminating 'e'.
func (c Codec) ParseList(r Reader, a Allocator) (List, error) {
	return c.newCursor(r, a).parseList()
}

// ParseDict implements Serializer. r must be positioned on the 'd'; on
// success it is left just past the terminating 'e'.
func (c Codec) ParseDict(r Reader, a Allocator) (Dict, error) {
	return c.newCursor(r, a).parseDict()
}

// SerializeString implements Serializer.
func (Codec) SerializeString(w io.Writer, s String) error { return SerializeString(w, s) }

// SerializeInteger implements Serializer.
func (Codec) SerializeInteger(w io.Writer, i Integer) error { return SerializeInteger(w, i) }

// SerializeList implements Serializer.
func (Codec) SerializeList(w io.Writer, l List) error { return SerializeList(w, l) }

// SerializeDict implements Serializer.
func (Codec) SerializeDict(w io.Writer, d Dict) error { return SerializeDict(w, d) }

// Parse parses the next value from r using DefaultCodec.
func Parse(r Reader, a Allocator) (Value, error) { return DefaultCodec.Parse(r, a) }

// ParseString parses a byte string from r using DefaultCodec.
func ParseString(r Reader, a Allocator) (String, error) { return DefaultCodec.ParseString(r, a) }

// ParseInteger parses an integer from r using DefaultCodec.
func ParseInteger(r Reader) (Integer, error) { return DefaultCodec.ParseInteger(r) }

// ParseList parses a list from r using DefaultCodec.
func ParseList(r Reader, a Allocator) (List, error) { return DefaultCodec.ParseList(r, a) }

// ParseDict parses a dictionary from r using DefaultCodec.
func ParseDict(r Reader, a Allocator) (Dict, error) { return DefaultCodec.ParseDict(r, a) }

// Serialize writes the bencoding of v to w. The first error returned by w is
// returned unchanged and nothing more is written.
//
// It panics if v, or any value nested in it, is nil.
func Serialize(w io.Writer, v Value) error {
	switch v := v.(type) {
	case String:
		return SerializeString(w, v)
	case Integer:
		return SerializeInteger(w, v)
	case List:
		return SerializeList(w, v)
	case Dict:
		return SerializeDict(w, v)
	case nil:
		panic("bencode: cannot serialize a nil Value")
	default:
		panic(fmt.Sprintf("bencode: unknown Value type %T", v))
	}
}

// cursor carries the state of a single top-level parse call.
type cursor struct {
	r        Reader
	a        Allocator
	off      int64
	depth    int
	maxDepth int
}

func (c *cursor) fail(kind ErrorKind, reason string, err error) *Error {
	return &Error{Kind: kind, Offset: c.off, Reason: reason, Err: err}
}

func (c *cursor) malformed(format string, args ...interface{}) error {
	return c.fail(Malformed, fmt.Sprintf(format, args...), nil)
}

func (c *cursor) overflow(err error) error {
	return c.fail(Overflow, "allocation failed", err)
}

func (c *cursor) peek() (byte, error) {
	b, err := c.r.Peek()
	if err != nil {
		return 0, c.fail(Underflow, "", err)
	}
	return b, nil
}

func (c *cursor) next(n int) ([]byte, error) {
	b, err := c.r.Next(n)
	if err != nil {
		return nil, c.fail(Underflow, "", err)
	}
	c.off += int64(n)
	return b, nil
}

func (c *cursor) readByte() (byte, error) {
	b, err := c.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) expect(tag byte) error {
	b, err := c.readByte()
	if err != nil {
		return err
	}
	if b != tag {
		return c.malformed("expected %q, got %q", tag, b)
	}
	return nil
}

// enter accounts for one more level of list or dictionary nesting.
func (c *cursor) enter() error {
	if c.depth >= c.maxDepth {
		return c.fail(Overflow, "maximum nesting depth exceeded", nil)
	}
	c.depth++
	return nil
}

// parseValue selects the codec for the value starting with tok, which has
// been peeked but not consumed.
func (c *cursor) parseValue(tok byte) (Value, error) {
	switch {
	case isDigit(tok):
		s, err := c.parseString()
		if err != nil {
			return nil, err
		}
		return s, nil
	case tok == 'i':
		i, err := c.parseInteger()
		if err != nil {
			return nil, err
		}
		return i, nil
	case tok == 'l':
		l, err := c.parseList()
		if err != nil {
			return nil, err
		}
		return l, nil
	case tok == 'd':
		d, err := c.parseDict()
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, c.malformed("unexpected byte %q", tok)
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
