package str

import (
	"bytes"
	"fmt"
	"math"
	"unsafe"

	"github.com/valyala/bytebufferpool"

	"github.com/rubiojr/cstr/scanner"
)

// Replace substitutes every non-overlapping occurrence of old with new in
// a single left-to-right pass over the current content and returns the
// number of substitutions. Substituted bytes are never rescanned. When old
// does not occur the content and capacity are left as they are.
//
// An empty old fails with ErrEmptyPattern unless the String was built
// WithEmptyPattern(EmptyPatternNoop). On ErrAllocation nothing changed.
func (s *String) Replace(old, new []byte) (int, error) {
	if err := s.live(); err != nil {
		return 0, err
	}
	if len(old) == 0 {
		if s.cfg.emptyPattern == EmptyPatternNoop {
			return 0, nil
		}
		return 0, ErrEmptyPattern
	}

	matches := scanner.FindAll(s.Data(), old)
	k := len(matches)
	if k == 0 {
		return 0, nil
	}

	if len(new) > len(old) {
		grow := len(new) - len(old)
		if k > (math.MaxInt-s.n-1)/grow {
			return 0, fmt.Errorf("%w: replacement result overflows", ErrAllocation)
		}
		if err := s.replaceGrow(matches, len(old), new, s.n+k*grow); err != nil {
			return 0, err
		}
		return k, nil
	}
	s.replaceInPlace(matches, len(old), new)
	return k, nil
}

// ReplaceString is Replace for Go strings.
func (s *String) ReplaceString(old, new string) (int, error) {
	return s.Replace([]byte(old), []byte(new))
}

// replaceGrow handles replacements longer than the pattern. Capacity is
// secured first; the result is then assembled in a scratch buffer because
// writing it in place would overrun bytes not yet copied.
func (s *String) replaceGrow(matches []int, oldLen int, new []byte, newLen int) error {
	if err := s.buf.Ensure(newLen + 1); err != nil {
		return err
	}

	scratch := bytebufferpool.Get()
	defer bytebufferpool.Put(scratch)

	src := s.Data()
	prev := 0
	for _, at := range matches {
		scratch.Write(src[prev:at])
		scratch.Write(new)
		prev = at + oldLen
	}
	scratch.Write(src[prev:])

	data := s.buf.Bytes()
	s.n = copy(data, scratch.B)
	data[s.n] = 0
	return nil
}

// replaceInPlace handles replacements no longer than the pattern. The
// write cursor never passes the end of the match being replaced, so the
// forward copy only overwrites bytes that were already consumed.
func (s *String) replaceInPlace(matches []int, oldLen int, new []byte) {
	data := s.buf.Bytes()
	if overlaps(data, new) {
		new = bytes.Clone(new)
	}

	src := data[:s.n]
	w, prev := 0, 0
	for _, at := range matches {
		w += copy(data[w:], src[prev:at])
		w += copy(data[w:], new)
		prev = at + oldLen
	}
	w += copy(data[w:], src[prev:])

	s.n = w
	data[s.n] = 0
	s.shrink()
}

// overlaps reports whether a and b share backing bytes.
func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	a0 := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	b0 := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return a0 < b0+uintptr(len(b)) && b0 < a0+uintptr(len(a))
}
