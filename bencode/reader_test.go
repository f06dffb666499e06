package bencode

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesReader(t *testing.T) {
	r := NewBytesReader([]byte("abcdef"))

	b, err := r.Peek()
	require.Nil(t, err)
	require.Equal(t, byte('a'), b)

	got, err := r.Next(4)
	require.Nil(t, err)
	require.Equal(t, "abcd", string(got))
	require.Equal(t, 2, r.Len())

	_, err = r.Next(3)
	require.True(t, errors.Is(err, ErrShortInput))
	require.Equal(t, 2, r.Len(), "a failed Next must not consume")

	got, err = r.Next(2)
	require.Nil(t, err)
	require.Equal(t, "ef", string(got))

	_, err = r.Peek()
	require.True(t, errors.Is(err, ErrShortInput))
}

func TestStreamReader(t *testing.T) {
	long := strings.Repeat("z", 3*4096)
	r := NewStreamReader(strings.NewReader("ab" + long + "c"))

	got, err := r.Next(2)
	require.Nil(t, err)
	require.Equal(t, "ab", string(got))

	got, err = r.Next(len(long))
	require.Nil(t, err)
	require.Equal(t, long, string(got))

	b, err := r.Peek()
	require.Nil(t, err)
	require.Equal(t, byte('c'), b)

	_, err = r.Next(2)
	require.True(t, errors.Is(err, ErrShortInput))
}

func TestStreamReaderReusesBufio(t *testing.T) {
	br := bufio.NewReaderSize(strings.NewReader("i1e"), 64)
	r := NewStreamReader(br)
	require.True(t, r.r == br)

	i, err := ParseInteger(r)
	require.Nil(t, err)
	require.Equal(t, Integer(1), i)
}

type brokenReader struct{}

var errBroken = errors.New("connection reset")

func (brokenReader) Read([]byte) (int, error) { return 0, errBroken }

func TestStreamReaderForwardsCause(t *testing.T) {
	_, err := NewDecoder(brokenReader{}).Decode()
	require.Equal(t, Underflow, KindOf(err))
	require.True(t, errors.Is(err, errBroken))
}
