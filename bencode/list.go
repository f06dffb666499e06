package bencode

import "io"

func (c *cursor) parseList() (List, error) {
	if err := c.expect('l'); err != nil {
		return nil, err
	}
	if err := c.enter(); err != nil {
		return nil, err
	}

	list, err := c.a.Values(0)
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

		v, err := c.parseValue(tok)
		if err != nil {
			return nil, err
		}

		if len(list) == cap(list) {
			grown, err := c.a.Values(growCap(cap(list)))
			if err != nil {
				return nil, c.overflow(err)
			}
			list = append(grown, list...)
		}
		list = append(list, v)
	}

	if _, err := c.next(1); err != nil {
		return nil, err
	}
	c.depth--

	return list, nil
}

func growCap(n int) int {
	if n < 4 {
		return 4
	}
	return 2 * n
}

// SerializeList writes l to w as l<values>e, preserving element order.
func SerializeList(w io.Writer, l List) error {
	if _, err := w.Write([]byte{'l'}); err != nil {
		return err
	}

	for _, v := range l {
		if err := Serialize(w, v); err != nil {
			return err
		}
	}

	_, err := w.Write([]byte{'e'})
	return err
}
