// Package jsonview converts between bencoded values and JSON for display and
// for authoring bencode by hand.
//
// Byte strings that are valid UTF-8 render as JSON strings; any other byte
// string renders as {"hex": "<hex digits>"}. Dictionary keys render as
// "hex:<hex digits>" when they are not valid UTF-8, when they start with
// "hex:" themselves, or when the key is "hex" in a single-entry dictionary,
// so no dictionary renders in a form Decode would read back as a byte string.
// Dictionaries keep their key order.
package jsonview

import (
	"bytes"
	"encoding/hex"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/chihaya/benc/bencode"
)

type hexString struct {
	Hex string `json:"hex"`
}

// object is a Dict rendered with its keys in stored order.
type object bencode.Dict

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(keyString(e.Key, len(o) == 1))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(view(e.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

const hexKeyPrefix = "hex:"

func keyString(k bencode.String, only bool) string {
	switch {
	case !utf8.Valid(k),
		bytes.HasPrefix(k, []byte(hexKeyPrefix)),
		only && string(k) == "hex":
		return hexKeyPrefix + hex.EncodeToString(k)
	}
	return string(k)
}

func view(v bencode.Value) interface{} {
	switch v := v.(type) {
	case bencode.String:
		if utf8.Valid(v) {
			return string(v)
		}
		return hexString{Hex: hex.EncodeToString(v)}
	case bencode.Integer:
		return int64(v)
	case bencode.List:
		out := make([]interface{}, 0, len(v))
		for _, elem := range v {
			out = append(out, view(elem))
		}
		return out
	case bencode.Dict:
		return object(v)
	}
	return nil
}

// Marshal renders v as JSON. A non-empty indent pretty-prints the output.
func Marshal(v bencode.Value, indent string) ([]byte, error) {
	if indent == "" {
		return json.Marshal(view(v))
	}
	return json.MarshalIndent(view(v), "", indent)
}

// unview reverses the hex renderings produced by Marshal.
func unview(doc interface{}) (interface{}, error) {
	switch doc := doc.(type) {
	case []interface{}:
		for i, elem := range doc {
			v, err := unview(elem)
			if err != nil {
				return nil, err
			}
			doc[i] = v
		}
		return doc, nil

	case map[string]interface{}:
		if len(doc) == 1 {
			if s, ok := doc["hex"].(string); ok {
				if b, err := hex.DecodeString(s); err == nil {
					return b, nil
				}
			}
		}

		dict := make(bencode.Dict, 0, len(doc))
		for key, elem := range doc {
			ev, err := unview(elem)
			if err != nil {
				return nil, err
			}
			v, err := bencode.From(ev)
			if err != nil {
				return nil, err
			}

			k := bencode.String(key)
			if strings.HasPrefix(key, hexKeyPrefix) {
				if b, err := hex.DecodeString(key[len(hexKeyPrefix):]); err == nil {
					k = b
				}
			}
			dict = append(dict, bencode.Entry{Key: k, Value: v})
		}

		sort.Slice(dict, func(i, j int) bool {
			return bytes.Compare(dict[i].Key, dict[j].Key) < 0
		})
		for i := 1; i < len(dict); i++ {
			if bytes.Equal(dict[i-1].Key, dict[i].Key) {
				return nil, errors.Errorf("jsonview: key %q given twice", []byte(dict[i].Key))
			}
		}
		return dict, nil
	}
	return doc, nil
}

// Decode reads one JSON document from r and converts it into a Value.
// Numbers must be integers; objects become sorted Dicts. The hex forms
// written by Marshal decode back into the original byte strings.
func Decode(r io.Reader) (bencode.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode JSON")
	}

	doc, err := unview(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert JSON")
	}

	v, err := bencode.From(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert JSON")
	}
	return v, nil
}
