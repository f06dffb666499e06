package jsonview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chihaya/benc/bencode"
)

func TestMarshal(t *testing.T) {
	var table = []struct {
		input    string
		expected string
	}{
		{"i42e", `42`},
		{"4:spam", `"spam"`},
		{"2:\xff\x00", `{"hex":"ff00"}`},
		{"l4:spami42ee", `["spam",42]`},
		{"le", `[]`},
		{"de", `{}`},
		{"d1:bi1e1:cl1:xee", `{"b":1,"c":["x"]}`},
		{"d1:\xffi1ee", `{"hex:ff":1}`},
		{"d3:hex2:ffe", `{"hex:686578":"ff"}`},
		{"d3:hexi1e1:xi2ee", `{"hex":1,"x":2}`},
		{"d6:hex:ffi1ee", `{"hex:6865783a6666":1}`},
	}

	for _, tt := range table {
		t.Run(tt.expected, func(t *testing.T) {
			v, err := bencode.Unmarshal([]byte(tt.input))
			require.Nil(t, err)

			got, err := Marshal(v, "")
			require.Nil(t, err)
			require.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalKeepsDictOrder(t *testing.T) {
	d := bencode.Dict{
		{Key: bencode.String("z"), Value: bencode.Integer(1)},
		{Key: bencode.String("a"), Value: bencode.Integer(2)},
	}
	got, err := Marshal(d, "")
	require.Nil(t, err)
	require.Equal(t, `{"z":1,"a":2}`, string(got))
}

func TestDecode(t *testing.T) {
	v, err := Decode(strings.NewReader(`{"name": "x", "size": 9007199254740993, "tags": ["a", "b"]}`))
	require.Nil(t, err)

	got, err := bencode.Marshal(v)
	require.Nil(t, err)
	require.Equal(t, "d4:name1:x4:sizei9007199254740993e4:tagsl1:a1:bee", string(got))
}

func TestDecodeErrors(t *testing.T) {
	for _, input := range []string{`{"a": 1.5}`, `null`, `[true]`, `{`} {
		_, err := Decode(strings.NewReader(input))
		require.Error(t, err, input)
	}
}

func TestDecodeHexForms(t *testing.T) {
	var table = []struct {
		input    string
		expected string
	}{
		{`{"hex":"ff00"}`, "2:\xff\x00"},
		{`{"hex":"6869"}`, "2:hi"},
		{`{"hex":"zz"}`, "d3:hex2:zze"},
		{`{"hex":1}`, "d3:hexi1ee"},
		{`{"hex:ff":1,"a":[{"hex":"80"}]}`, "d1:al1:\x80e1:\xffi1ee"},
		{`{"hex:6869":1}`, "d2:hii1ee"},
		{`{"hex:zz":1}`, "d6:hex:zzi1ee"},
	}

	for _, tt := range table {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Decode(strings.NewReader(tt.input))
			require.Nil(t, err)

			got, err := bencode.Marshal(v)
			require.Nil(t, err)
			require.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalDecodeRoundTrip(t *testing.T) {
	var table = []string{
		"d4:spamd4:eggs0:e1:\xffl2:\x00\xffi-1eee",
		"d3:hex2:ffe",
		"d3:hex1:xe",
		"d3:hexd3:hex2:ffee",
		"d3:hexi1e1:xi2ee",
		"d6:hex:ffi1ee",
		"d3:hexi2e4:hex:i1ee",
		"l2:\xff\x00d3:hex4:00ffee",
	}

	for _, input := range table {
		t.Run(input, func(t *testing.T) {
			v, err := bencode.Unmarshal([]byte(input))
			require.Nil(t, err)

			buf, err := Marshal(v, "  ")
			require.Nil(t, err)

			back, err := Decode(strings.NewReader(string(buf)))
			require.Nil(t, err)
			require.Equal(t, v, back, string(buf))

			again, err := bencode.Marshal(back)
			require.Nil(t, err)
			require.Equal(t, input, string(again))
		})
	}
}

func TestDecodeDuplicateKeys(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"a":1,"hex:61":2}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), `key "a" given twice`)
}
