package bencode

// An Allocator provides the memory for parsed values. Any call may fail, in
// which case the parse reports Overflow.
//
// Memory handed out during a failed parse is not returned by the codec; an
// Allocator that needs reclamation must do it in bulk once the top-level call
// returns.
type Allocator interface {
	// Bytes returns a slice of length n to hold a byte string.
	Bytes(n int) ([]byte, error)

	// Values returns an empty List with capacity for at least n elements.
	Values(n int) (List, error)

	// Entries returns an empty Dict with capacity for at least n entries.
	Entries(n int) (Dict, error)
}

// HeapAllocator is an Allocator backed by the Go heap. It never fails.
type HeapAllocator struct{}

var _ Allocator = HeapAllocator{}

// Bytes implements Allocator.
func (HeapAllocator) Bytes(n int) ([]byte, error) {
	return make([]byte, n), nil
}

// Values implements Allocator.
func (HeapAllocator) Values(n int) (List, error) {
	return make(List, 0, n), nil
}

// Entries implements Allocator.
func (HeapAllocator) Entries(n int) (Dict, error) {
	return make(Dict, 0, n), nil
}
