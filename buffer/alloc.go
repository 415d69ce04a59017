package buffer

import "fmt"

// Allocator hands out zeroed byte blocks. Implementations report failure
// with an error wrapping ErrAllocation instead of panicking.
type Allocator interface {
	Alloc(n int) ([]byte, error)
}

// HeapAllocator allocates from the Go heap. Requests above Max (when
// non-zero) fail without touching the heap.
type HeapAllocator struct {
	Max int
}

// Alloc returns a zeroed slice of length n.
func (h HeapAllocator) Alloc(n int) (b []byte, err error) {
	if n < 0 || (h.Max > 0 && n > h.Max) {
		return nil, fmt.Errorf("%w: %d bytes requested", ErrAllocation, n)
	}
	defer func() {
		// make panics on lengths the runtime cannot satisfy
		if r := recover(); r != nil {
			b = nil
			err = fmt.Errorf("%w: %d bytes requested: %v", ErrAllocation, n, r)
		}
	}()
	return make([]byte, n), nil
}
