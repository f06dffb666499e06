package bencode

import (
	"io"
	"math"
	"strconv"
)

func (c *cursor) parseInteger() (Integer, error) {
	if err := c.expect('i'); err != nil {
		return 0, err
	}

	b, err := c.readByte()
	if err != nil {
		return 0, err
	}

	neg := b == '-'
	if neg {
		if b, err = c.readByte(); err != nil {
			return 0, err
		}
	}

	switch {
	case b == 'e':
		return 0, c.malformed("empty integer")
	case !isDigit(b):
		return 0, c.malformed("invalid integer digit %q", b)
	case b == '0':
		if neg {
			return 0, c.malformed("negative integer starts with zero")
		}
		if b, err = c.readByte(); err != nil {
			return 0, err
		}
		if isDigit(b) {
			return 0, c.malformed("integer has a leading zero")
		}
		if b != 'e' {
			return 0, c.malformed("expected 'e' after integer, got %q", b)
		}
		return 0, nil
	}

	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}

	u := uint64(b - '0')
	for {
		if b, err = c.readByte(); err != nil {
			return 0, err
		}
		if b == 'e' {
			break
		}
		if !isDigit(b) {
			return 0, c.malformed("expected 'e' after integer, got %q", b)
		}

		d := uint64(b - '0')
		if u > (limit-d)/10 {
			return 0, c.malformed("integer out of range")
		}
		u = u*10 + d
	}

	if neg {
		// Wraps correctly for math.MinInt64.
		return Integer(-int64(u)), nil
	}
	return Integer(u), nil
}

// SerializeInteger writes i to w as i<decimal>e.
func SerializeInteger(w io.Writer, i Integer) error {
	var buf [24]byte
	b := append(buf[:0], 'i')
	b = strconv.AppendInt(b, int64(i), 10)
	b = append(b, 'e')
	_, err := w.Write(b)
	return err
}
