package str

import "github.com/rubiojr/cstr/buffer"

// EmptyPattern selects what Replace does with an empty search pattern.
type EmptyPattern uint8

const (
	EmptyPatternError EmptyPattern = iota // fail with ErrEmptyPattern
	EmptyPatternNoop                      // succeed without changes
)

type settings struct {
	policy       buffer.Policy
	alloc        buffer.Allocator
	emptyPattern EmptyPattern
}

// Option configures a String at construction.
type Option func(*settings)

// WithPolicy sets the capacity policy. Unset fields take their defaults.
func WithPolicy(p buffer.Policy) Option {
	return func(s *settings) {
		s.policy = p
	}
}

// WithAllocator routes every allocation through a.
func WithAllocator(a buffer.Allocator) Option {
	return func(s *settings) {
		s.alloc = a
	}
}

// WithEmptyPattern sets the empty search pattern behavior of Replace.
func WithEmptyPattern(mode EmptyPattern) Option {
	return func(s *settings) {
		s.emptyPattern = mode
	}
}

func newSettings(opts []Option) settings {
	s := settings{policy: buffer.DefaultPolicy()}
	for _, opt := range opts {
		opt(&s)
	}
	s.policy = s.policy.Normalize()
	return s
}
