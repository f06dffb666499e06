package arena

import "sync"

// Pool is a cached pool of equally sized chunks shared by many Arenas.
type Pool struct {
	size int
	pool sync.Pool
}

// NewPool allocates a new Pool of chunks of the given size.
func NewPool(size int) *Pool {
	p := &Pool{size: size}
	p.pool.New = func() interface{} {
		b := make([]byte, size)
		return &b
	}
	return p
}

// ChunkSize returns the size of the chunks handed out by p.
func (p *Pool) ChunkSize() int {
	return p.size
}

func (p *Pool) get() *[]byte {
	return p.pool.Get().(*[]byte)
}

func (p *Pool) put(b *[]byte) {
	*b = (*b)[:cap(*b)]

	// Parsed values from one request must not leak into the next.
	// This specific expression is optimized by the compiler:
	// https://github.com/golang/go/issues/5373.
	for i := range *b {
		(*b)[i] = 0
	}

	p.pool.Put(b)
}
