// Package buffer provides the raw growable storage behind a cstr string:
// allocation, amortized growth, best-effort shrinking and the NUL sentinel
// that keeps the content usable as a C string.
package buffer

import "fmt"

// Default policy constants.
const (
	DefaultFloor          = 16
	DefaultTaperThreshold = 128
	DefaultCreateSlack    = 1.5
)

// Policy holds the constants that drive capacity decisions. The zero value
// is not usable directly; call Normalize or start from DefaultPolicy.
type Policy struct {
	// Floor is the initial capacity and the smallest capacity a shrink
	// may ever produce.
	Floor int
	// TaperThreshold is the capacity from which growth slows from x2 to x1.5.
	TaperThreshold int
	// CreateSlack is the headroom factor used when sizing a value built
	// from existing content.
	CreateSlack float64
	// MaxCapacity caps every allocation. Zero means no limit.
	MaxCapacity int
	// LazyShrink disables shrinking on single byte removals (Pop, RemoveAt).
	LazyShrink bool
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		Floor:          DefaultFloor,
		TaperThreshold: DefaultTaperThreshold,
		CreateSlack:    DefaultCreateSlack,
	}
}

// Normalize fills unset fields with their defaults.
func (p Policy) Normalize() Policy {
	if p.Floor <= 0 {
		p.Floor = DefaultFloor
	}
	if p.TaperThreshold <= 0 {
		p.TaperThreshold = DefaultTaperThreshold
	}
	if p.CreateSlack < 1 {
		p.CreateSlack = DefaultCreateSlack
	}
	return p
}

// Validate reports policies that cannot hold the capacity invariants.
func (p Policy) Validate() error {
	switch {
	case p.Floor < 2:
		return fmt.Errorf("capacity floor must be at least 2, got %d", p.Floor)
	case p.TaperThreshold < p.Floor:
		return fmt.Errorf("taper threshold %d is below the floor %d", p.TaperThreshold, p.Floor)
	case p.CreateSlack < 1:
		return fmt.Errorf("create slack must be at least 1, got %g", p.CreateSlack)
	case p.MaxCapacity != 0 && p.MaxCapacity < p.Floor:
		return fmt.Errorf("max capacity %d is below the floor %d", p.MaxCapacity, p.Floor)
	}
	return nil
}

// next returns the capacity that follows c in the growth sequence.
func (p Policy) next(c int) int {
	if c < p.TaperThreshold {
		return c * 2
	}
	return c + c/2
}

// Grow returns the smallest capacity in the growth sequence starting at
// capacity that is at least minRequired. Capacities below the floor start
// from the floor. The result is -1 if the sequence overflows int.
func (p Policy) Grow(capacity, minRequired int) int {
	if capacity < p.Floor {
		capacity = p.Floor
	}
	for capacity < minRequired {
		n := p.next(capacity)
		if n <= capacity {
			return -1
		}
		capacity = n
	}
	return capacity
}

// SizeFor returns the capacity for a fresh value holding n bytes: the
// first capacity reachable from the floor that holds n*CreateSlack bytes
// plus the sentinel.
func (p Policy) SizeFor(n int) int {
	want := int(float64(n)*p.CreateSlack) + 1
	if want < n+1 {
		// float rounding on very large n
		want = n + 1
	}
	return p.Grow(p.Floor, want)
}

// ShrinkTo returns the capacity a buffer of the given capacity should
// shrink to once it holds length bytes: half the capacity when the content
// plus sentinel fills less than half of it and the halved value stays at
// or above the floor, the capacity unchanged otherwise. It halves at most
// once per call.
func (p Policy) ShrinkTo(capacity, length int) int {
	if length+1 < capacity/2 && capacity/2 >= p.Floor {
		return capacity / 2
	}
	return capacity
}

// CompactTo applies ShrinkTo until it stops halving.
func (p Policy) CompactTo(capacity, length int) int {
	for {
		next := p.ShrinkTo(capacity, length)
		if next == capacity {
			return capacity
		}
		capacity = next
	}
}
