package bufferpool_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chihaya/benc/bufferpool"
)

func TestTakeFromEmpty(t *testing.T) {
	bp := bufferpool.New(1, 16, 64)
	buf := bp.Take()
	require.Equal(t, 0, buf.Len())
	require.Equal(t, 16, buf.Cap())
}

func TestTakeFromFilled(t *testing.T) {
	bp := bufferpool.New(1, 1, 64)
	given := bytes.NewBuffer([]byte("X"))
	require.True(t, bp.Give(given))

	reused := bp.Take()
	require.True(t, reused == given, "expected the pooled buffer back")
	require.Equal(t, 0, reused.Len(), "recycled buffer should be reset")
}

func TestGiveRejects(t *testing.T) {
	bp := bufferpool.New(1, 4, 8)

	require.False(t, bp.Give(nil))
	require.False(t, bp.Give(bytes.NewBuffer(make([]byte, 0, 9))), "oversized buffer")
	require.True(t, bp.Give(bytes.NewBuffer(make([]byte, 0, 8))))
	require.False(t, bp.Give(bytes.NewBuffer(make([]byte, 0, 4))), "full pool")
}

func ExampleNew() {
	bp := bufferpool.New(10, 64, 4096)
	buf := bp.Take()
	buf.WriteString("4:spam")
	fmt.Println(buf)
	bp.Give(buf)
	// Output:
	// 4:spam
}
