package buffer

import (
	"errors"
	"fmt"

	"github.com/rubiojr/cstr/log"
)

// Errors returned by buffer operations.
var (
	ErrAllocation = errors.New("allocation failed")
	ErrShrink     = errors.New("shrink failed")
)

// Buffer is growable byte storage whose capacity only ever takes values
// produced by its Policy. It does not track a logical length; the owner
// passes lengths in and keeps the sentinel byte in place.
type Buffer struct {
	data   []byte
	policy Policy
	alloc  Allocator
}

// New allocates a buffer with the given capacity. A nil allocator selects
// the heap, capped at the policy's MaxCapacity.
func New(capacity int, policy Policy, alloc Allocator) (*Buffer, error) {
	policy = policy.Normalize()
	if alloc == nil {
		alloc = HeapAllocator{Max: policy.MaxCapacity}
	}
	b := &Buffer{policy: policy, alloc: alloc}
	data, err := b.allocate(capacity)
	if err != nil {
		return nil, err
	}
	b.data = data
	return b, nil
}

// Cap returns the allocated byte count.
func (b *Buffer) Cap() int { return len(b.data) }

// Bytes returns the whole storage, sentinel and slack included. The slice
// is only valid until the next capacity change.
func (b *Buffer) Bytes() []byte { return b.data }

// Policy returns the capacity policy in effect.
func (b *Buffer) Policy() Policy { return b.policy }

// Released reports whether Release has dropped the storage.
func (b *Buffer) Released() bool { return b.data == nil }

// Ensure grows the buffer until it holds at least minRequired bytes.
// Existing bytes are preserved. On failure the buffer is left untouched.
func (b *Buffer) Ensure(minRequired int) error {
	if len(b.data) >= minRequired {
		return nil
	}
	target := b.policy.Grow(len(b.data), minRequired)
	if target < 0 {
		return fmt.Errorf("%w: capacity for %d bytes overflows", ErrAllocation, minRequired)
	}
	return b.resize(target)
}

// Shrink applies the shrink policy once for a content of length bytes.
// Failing to reallocate is reported as ErrShrink and leaves the buffer
// valid at its previous capacity.
func (b *Buffer) Shrink(length int) error {
	return b.shrinkTo(b.policy.ShrinkTo(len(b.data), length))
}

// Compact shrinks to the smallest capacity the shrink policy reaches for
// length bytes, in a single reallocation. Failures are reported like
// Shrink.
func (b *Buffer) Compact(length int) error {
	return b.shrinkTo(b.policy.CompactTo(len(b.data), length))
}

func (b *Buffer) shrinkTo(target int) error {
	if target == len(b.data) {
		return nil
	}
	if err := b.resize(target); err != nil {
		return fmt.Errorf("%w: %w", ErrShrink, err)
	}
	return nil
}

// Reset replaces the storage with a zeroed block of exactly the floor.
func (b *Buffer) Reset() error {
	data, err := b.allocate(b.policy.Floor)
	if err != nil {
		return err
	}
	log.Debug().Int("from", len(b.data)).Int("to", len(data)).Msg("buffer reset")
	b.data = data
	return nil
}

// Release drops the storage. Calling it again is a no-op.
func (b *Buffer) Release() {
	b.data = nil
}

// resize swaps in a block of n bytes holding the first n bytes of the
// current storage.
func (b *Buffer) resize(n int) error {
	data, err := b.allocate(n)
	if err != nil {
		return err
	}
	copy(data, b.data)
	log.Debug().Int("from", len(b.data)).Int("to", n).Msg("buffer resize")
	b.data = data
	return nil
}

func (b *Buffer) allocate(n int) ([]byte, error) {
	if b.policy.MaxCapacity > 0 && n > b.policy.MaxCapacity {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrAllocation, n, b.policy.MaxCapacity)
	}
	data, err := b.alloc.Alloc(n)
	if err != nil {
		if !errors.Is(err, ErrAllocation) {
			err = fmt.Errorf("%w: %w", ErrAllocation, err)
		}
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: allocator returned %d bytes, want %d", ErrAllocation, len(data), n)
	}
	return data, nil
}
