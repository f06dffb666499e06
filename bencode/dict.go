package bencode

import (
	"bytes"
	"io"
)

func (c *cursor) parseDict() (Dict, error) {
	if err := c.expect('d'); err != nil {
		return nil, err
	}
	if err := c.enter(); err != nil {
		return nil, err
	}

	dict, err := c.a.Entries(0)
	if err != nil {
		return nil, c.overflow(err)
	}

	for {
		tok, err := c.peek()
		if err != nil {
			return nil, err
		}
		if tok == 'e' {
			break
		}
		if !isDigit(tok) {
			return nil, c.malformed("dictionary key must be a byte string, got %q", tok)
		}

		key, err := c.parseString()
		if err != nil {
			return nil, err
		}
		if n := len(dict); n > 0 {
			switch cmp := bytes.Compare(key, dict[n-1].Key); {
			case cmp == 0:
				return nil, c.malformed("duplicate dictionary key %q", []byte(key))
			case cmp < 0:
				return nil, c.malformed("dictionary key %q out of order", []byte(key))
			}
		}

		if tok, err = c.peek(); err != nil {
			return nil, err
		}
		v, err := c.parseValue(tok)
		if err != nil {
			return nil, err
		}

		if len(dict) == cap(dict) {
			grown, err := c.a.Entries(growCap(cap(dict)))
			if err != nil {
				return nil, c.overflow(err)
			}
			dict = append(grown, dict...)
		}
		dict = append(dict, Entry{Key: key, Value: v})
	}

	if _, err := c.next(1); err != nil {
		return nil, err
	}
	c.depth--

	return dict, nil
}

// SerializeDict writes d to w as d<key><value>...e. Entries are written in
// the order they are stored; d is expected to be sorted already.
func SerializeDict(w io.Writer, d Dict) error {
	if _, err := w.Write([]byte{'d'}); err != nil {
		return err
	}

	for _, e := range d {
		if err := SerializeString(w, e.Key); err != nil {
			return err
		}
		if err := Serialize(w, e.Value); err != nil {
			return err
		}
	}

	_, err := w.Write([]byte{'e'})
	return err
}
