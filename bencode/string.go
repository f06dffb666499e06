package bencode

import (
	"io"
	"strconv"
)

const maxInt = int(^uint(0) >> 1)

func (c *cursor) parseString() (String, error) {
	n, err := c.parseLength()
	if err != nil {
		return nil, err
	}

	body, err := c.next(n)
	if err != nil {
		return nil, err
	}

	s, err := c.a.Bytes(n)
	if err != nil {
		return nil, c.overflow(err)
	}
	copy(s, body)

	return String(s), nil
}

// parseLength reads a canonical decimal length terminated by ':'.
func (c *cursor) parseLength() (int, error) {
	b, err := c.readByte()
	if err != nil {
		return 0, err
	}
	if b == '-' {
		return 0, c.malformed("negative string length")
	}
	if !isDigit(b) {
		return 0, c.malformed("string length must start with a digit, got %q", b)
	}

	leadingZero := b == '0'
	n := int(b - '0')
	for {
		b, err = c.readByte()
		if err != nil {
			return 0, err
		}
		if b == ':' {
			return n, nil
		}
		if !isDigit(b) {
			return 0, c.malformed("expected ':' after string length, got %q", b)
		}
		if leadingZero {
			return 0, c.malformed("string length has a leading zero")
		}

		d := int(b - '0')
		if n > (maxInt-d)/10 {
			return 0, c.malformed("string length out of range")
		}
		n = n*10 + d
	}
}

// SerializeString writes s to w as <length>:<bytes>.
func SerializeString(w io.Writer, s String) error {
	var hdr [24]byte
	b := strconv.AppendInt(hdr[:0], int64(len(s)), 10)
	b = append(b, ':')
	if _, err := w.Write(b); err != nil {
		return err
	}

	if len(s) == 0 {
		return nil
	}
	_, err := w.Write(s)
	return err
}
