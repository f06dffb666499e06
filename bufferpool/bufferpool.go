// Package bufferpool implements a limited-size pool of reusable buffers for
// serialized output.
package bufferpool

import (
	"bytes"
)

// BufferPool allows one to easily reuse a limited-size pool of buffers.
//
// Buffers that grew beyond maxSize are dropped instead of pooled, so one huge
// value does not pin its memory for the lifetime of the pool.
type BufferPool struct {
	bufSize int
	maxSize int
	pool    chan *bytes.Buffer
}

// New returns a newly allocated BufferPool holding at most size buffers.
// Fresh buffers start with bufSize bytes of capacity; buffers whose capacity
// exceeds maxSize are not taken back.
func New(size, bufSize, maxSize int) *BufferPool {
	if maxSize < bufSize {
		maxSize = bufSize
	}
	return &BufferPool{
		bufSize: bufSize,
		maxSize: maxSize,
		pool:    make(chan *bytes.Buffer, size),
	}
}

// Take is used to obtain an empty buffer. This may or may not have been
// recycled from the pool depending on factors such as pool being empty.
func (pool *BufferPool) Take() (buf *bytes.Buffer) {
	select {
	case buf = <-pool.pool:
		buf.Reset()
	default:
		buf = bytes.NewBuffer(make([]byte, 0, pool.bufSize))
	}
	return
}

// Give returns buf to the pool. It reports whether buf was kept; a buffer is
// dropped when it is oversized or the pool is full.
func (pool *BufferPool) Give(buf *bytes.Buffer) bool {
	if buf == nil || buf.Cap() > pool.maxSize {
		return false
	}

	select {
	case pool.pool <- buf:
		return true
	default:
		return false
	}
}
