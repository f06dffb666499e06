package bencode

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var marshalTests = []struct {
	input    Value
	expected string
}{
	{Integer(42), "i42e"},
	{Integer(-42), "i-42e"},
	{Integer(0), "i0e"},
	{Integer(math.MinInt64), "i-9223372036854775808e"},

	{String("example"), "7:example"},
	{String{}, "0:"},
	{String(nil), "0:"},

	{List{String("one"), String("two")}, "l3:one3:twoe"},
	{List{}, "le"},
	{List{String("spam"), Integer(42)}, "l4:spami42ee"},

	{Dict{{String("one"), String("aa")}, {String("two"), String("bb")}}, "d3:one2:aa3:two2:bbe"},
	{Dict{}, "de"},
}

func TestMarshal(t *testing.T) {
	for _, tt := range marshalTests {
		t.Run(tt.expected, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.Nil(t, err, "marshal should not fail")
			require.Equal(t, tt.expected, string(got))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, tt := range unmarshalTests {
		t.Run(tt.input, func(t *testing.T) {
			buf, err := Marshal(tt.expected)
			require.Nil(t, err)
			require.Equal(t, tt.input, string(buf), "canonical input should reserialize identically")

			got, err := Unmarshal(buf)
			require.Nil(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestSerializeDictKeepsStoredOrder(t *testing.T) {
	d := Dict{{String("b"), Integer(1)}, {String("a"), Integer(2)}}
	require.False(t, d.Sorted())

	var buf bytes.Buffer
	require.Nil(t, SerializeDict(&buf, d))
	require.Equal(t, "d1:bi1e1:ai2ee", buf.String())
}

// failWriter accepts n writes and then fails with err.
type failWriter struct {
	n      int
	err    error
	writes int
	buf    bytes.Buffer
}

func (w *failWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > w.n {
		return 0, w.err
	}
	return w.buf.Write(p)
}

func TestSerializeForwardsWriterError(t *testing.T) {
	v := List{String("spam"), Dict{{String("k"), Integer(1)}}, Integer(7)}
	werr := errors.New("disk full")

	for n := 0; n < 8; n++ {
		w := &failWriter{n: n, err: werr}
		err := Serialize(w, v)
		require.True(t, err == werr, "writer error must be returned unmodified (n=%d)", n)
		require.Equal(t, n+1, w.writes, "no writes after the first failure")
	}

	w := &failWriter{n: 100}
	require.Nil(t, Serialize(w, v))
	require.Equal(t, "l4:spamd1:ki1eei7ee", w.buf.String())
}

func TestEncoderSingleWrite(t *testing.T) {
	w := &failWriter{n: 1}
	enc := NewEncoder(w)
	require.Nil(t, enc.Encode(List{String("a"), Integer(1)}))
	require.Equal(t, 1, w.writes)
	require.Equal(t, "l1:ai1ee", w.buf.String())

	werr := errors.New("closed")
	w = &failWriter{n: 0, err: werr}
	require.True(t, NewEncoder(w).Encode(Integer(1)) == werr)
}

func TestSerializeNilPanics(t *testing.T) {
	require.Panics(t, func() { _ = Serialize(&bytes.Buffer{}, nil) })
	require.Panics(t, func() { _ = Serialize(&bytes.Buffer{}, List{nil}) })
}

func TestCodecImplementsSerializer(t *testing.T) {
	var s Serializer = Codec{MaxDepth: 8}

	var buf bytes.Buffer
	require.Nil(t, s.SerializeDict(&buf, Dict{{String("aa"), Integer(1)}, {String("bb"), Integer(2)}}))
	require.Equal(t, "d2:aai1e2:bbi2ee", buf.String())

	d, err := s.ParseDict(NewBytesReader(buf.Bytes()), HeapAllocator{})
	require.Nil(t, err)
	v, ok := d.Get("bb")
	require.True(t, ok)
	require.Equal(t, Integer(2), v)
}

func BenchmarkMarshalScalar(b *testing.B) {
	buf := &bytes.Buffer{}
	encoder := NewEncoder(buf)

	for i := 0; i < b.N; i++ {
		_ = encoder.Encode(String("test"))
		_ = encoder.Encode(Integer(123))
	}
}

func BenchmarkMarshalLarge(b *testing.B) {
	data, _ := From(map[string]interface{}{
		"k1": []string{"a", "b", "c"},
		"k2": 42,
		"k3": "val",
		"k4": uint(42),
	})

	buf := &bytes.Buffer{}
	encoder := NewEncoder(buf)

	for i := 0; i < b.N; i++ {
		_ = encoder.Encode(data)
	}
}
