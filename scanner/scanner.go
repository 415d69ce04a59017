// Package scanner finds occurrences of a byte pattern in a byte slice the
// way the replace routine consumes them: left to right, each occurrence
// claimed at the earliest position, the scan resuming after the claimed
// region so matches never overlap.
package scanner

import "bytes"

// MatchScanner walks src claiming non-overlapping occurrences of a
// pattern. Callers that rewrite src while scanning must only write at
// offsets below Pos(); bytes from Pos() on are still read.
type MatchScanner struct {
	src []byte
	pat []byte
	pos int // offset where the next search starts
}

// New creates a MatchScanner for pattern over src. An empty pattern never
// matches.
func New(src, pattern []byte) *MatchScanner {
	return &MatchScanner{src: src, pat: pattern}
}

// Next advances to the next occurrence and returns its start offset, or
// (-1, false) when no occurrence remains.
func (s *MatchScanner) Next() (int, bool) {
	if len(s.pat) == 0 || s.pos > len(s.src) {
		return -1, false
	}
	i := bytes.Index(s.src[s.pos:], s.pat)
	if i < 0 {
		s.pos = len(s.src) + 1
		return -1, false
	}
	at := s.pos + i
	s.pos = at + len(s.pat)
	return at, true
}

// Pos returns the offset right after the last match, 0 before the first
// call to Next.
func (s *MatchScanner) Pos() int {
	if s.pos > len(s.src) {
		return len(s.src)
	}
	return s.pos
}

// Count returns the number of non-overlapping occurrences of pattern in
// src. An empty pattern counts zero.
func Count(src, pattern []byte) int {
	n := 0
	s := New(src, pattern)
	for _, ok := s.Next(); ok; _, ok = s.Next() {
		n++
	}
	return n
}

// FindAll returns the start offsets of all non-overlapping occurrences,
// in ascending order. Replace rewrites from these offsets.
func FindAll(src, pattern []byte) []int {
	var positions []int
	s := New(src, pattern)
	for at, ok := s.Next(); ok; at, ok = s.Next() {
		positions = append(positions, at)
	}
	return positions
}

// Contains reports whether pattern occurs in src. The empty pattern is
// contained in every input.
func Contains(src, pattern []byte) bool {
	return bytes.Contains(src, pattern)
}
