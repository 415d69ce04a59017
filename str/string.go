// Package str implements String, an owned, growable byte string whose
// storage always ends in a NUL sentinel. Capacity follows the growth and
// shrink policy of package buffer; every fallible operation returns an
// error and leaves the value unchanged when it fails.
//
// A String belongs to a single goroutine. Release it with Destroy (or
// Close), typically deferred right after construction.
package str

import (
	"bytes"
	"fmt"
	"io"
	"unsafe"

	"github.com/rubiojr/cstr/buffer"
	"github.com/rubiojr/cstr/log"
	"github.com/rubiojr/cstr/scanner"
)

// minRead is the free space ReadFrom guarantees before each Read call.
const minRead = 512

// Text is the set of operations a String offers.
type Text interface {
	Append(src []byte) error
	AppendString(s string) error
	Push(c byte) error
	Pop() (byte, error)
	Replace(old, new []byte) (int, error)
	Data() []byte
	CString() []byte
	Len() int
	Cap() int
	Equal(b []byte) bool
	EqualTo(o Text) bool
	Contains(pattern []byte) bool
	Clear() error
	Slice(first, last int) (*String, error)
	At(i int) (byte, error)
	Set(i int, c byte) error
	RemoveAt(i int) error
	Destroy() bool
}

// Statically check that *String implements the interfaces it claims.
var (
	_ Text            = (*String)(nil)
	_ io.Writer       = (*String)(nil)
	_ io.ByteWriter   = (*String)(nil)
	_ io.StringWriter = (*String)(nil)
	_ io.ReaderFrom   = (*String)(nil)
	_ io.WriterTo     = (*String)(nil)
	_ io.Closer       = (*String)(nil)
	_ fmt.Stringer    = (*String)(nil)
)

// String is an owned byte string. The zero value has no storage and
// behaves like a destroyed String; use New, From or FromString.
type String struct {
	buf *buffer.Buffer
	n   int
	cfg settings
}

// New returns an empty String with the policy's floor capacity.
func New(opts ...Option) (*String, error) {
	cfg := newSettings(opts)
	return build(cfg, cfg.policy.Floor, "")
}

// From returns a String holding a copy of b, sized with the policy's
// create slack.
func From(b []byte, opts ...Option) (*String, error) {
	cfg := newSettings(opts)
	return build(cfg, cfg.policy.SizeFor(len(b)), b)
}

// FromString is From for a Go string.
func FromString(s string, opts ...Option) (*String, error) {
	cfg := newSettings(opts)
	return build(cfg, cfg.policy.SizeFor(len(s)), s)
}

// Concat returns a String holding the concatenation of parts.
func Concat(parts []string, opts ...Option) (*String, error) {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	cfg := newSettings(opts)
	s, err := build(cfg, cfg.policy.SizeFor(n), "")
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		if err := appendData(s, p); err != nil {
			s.Destroy()
			return nil, err
		}
	}
	return s, nil
}

func build[T ~string | ~[]byte](cfg settings, capacity int, src T) (*String, error) {
	if err := cfg.policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity for %d bytes overflows", ErrAllocation, len(src))
	}
	buf, err := buffer.New(capacity, cfg.policy, cfg.alloc)
	if err != nil {
		return nil, err
	}
	s := &String{buf: buf, cfg: cfg}
	s.n = copy(buf.Bytes(), src)
	buf.Bytes()[s.n] = 0
	return s, nil
}

func (s *String) live() error {
	if s == nil || s.buf == nil {
		return ErrReleased
	}
	return nil
}

// Len returns the content length, sentinel excluded.
func (s *String) Len() int {
	if s.live() != nil {
		return 0
	}
	return s.n
}

// Cap returns the allocated capacity, sentinel included.
func (s *String) Cap() int {
	if s.live() != nil {
		return 0
	}
	return s.buf.Cap()
}

// Data returns a read-only view of the content. The view shares the
// String's storage and is invalid after the next mutating call.
func (s *String) Data() []byte {
	if s.live() != nil {
		return nil
	}
	return s.buf.Bytes()[:s.n:s.n]
}

// CString returns the content followed by its NUL terminator, suitable
// for passing unsafe.SliceData of the result to C. Same validity rules as
// Data.
func (s *String) CString() []byte {
	if s.live() != nil {
		return nil
	}
	return s.buf.Bytes()[: s.n+1 : s.n+1]
}

// UnsafeString returns the content as a string without copying. The
// string must not be used after the next mutating call.
func (s *String) UnsafeString() string {
	d := s.Data()
	return unsafe.String(unsafe.SliceData(d), len(d))
}

// String returns a copy of the content.
func (s *String) String() string {
	return string(s.Data())
}

// Bytes returns a copy of the content.
func (s *String) Bytes() []byte {
	return bytes.Clone(s.Data())
}

// Append copies src after the current content.
func (s *String) Append(src []byte) error {
	return appendData(s, src)
}

// AppendString copies src after the current content.
func (s *String) AppendString(src string) error {
	return appendData(s, src)
}

func appendData[T ~string | ~[]byte](s *String, src T) error {
	if err := s.live(); err != nil {
		return err
	}
	if err := s.buf.Ensure(s.n + len(src) + 1); err != nil {
		return err
	}
	data := s.buf.Bytes()
	copy(data[s.n:], src)
	s.n += len(src)
	data[s.n] = 0
	return nil
}

// Write appends p, making String an io.Writer.
func (s *String) Write(p []byte) (int, error) {
	if err := s.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString appends p.
func (s *String) WriteString(p string) (int, error) {
	if err := s.AppendString(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteByte is Push.
func (s *String) WriteByte(c byte) error {
	return s.Push(c)
}

// ReadFrom appends everything read from r until EOF, growing the storage
// by the regular policy. The read slack is given back through the shrink
// policy once r is drained.
func (s *String) ReadFrom(r io.Reader) (int64, error) {
	if err := s.live(); err != nil {
		return 0, err
	}
	var total int64
	for {
		if s.buf.Cap()-s.n-1 < minRead {
			if err := s.buf.Ensure(s.n + minRead + 1); err != nil {
				return total, err
			}
		}
		data := s.buf.Bytes()
		m, err := r.Read(data[s.n : len(data)-1])
		if m < 0 || m > len(data)-1-s.n {
			data[s.n] = 0
			return total, fmt.Errorf("%w: reader returned invalid count %d", ErrInvalidArgument, m)
		}
		s.n += m
		total += int64(m)
		data[s.n] = 0
		if err == io.EOF {
			if !s.cfg.policy.LazyShrink {
				s.compact()
			}
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// WriteTo writes the content to w.
func (s *String) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Data())
	return int64(n), err
}

// Push appends a single byte.
func (s *String) Push(c byte) error {
	if err := s.live(); err != nil {
		return err
	}
	if err := s.buf.Ensure(s.n + 2); err != nil {
		return err
	}
	data := s.buf.Bytes()
	data[s.n] = c
	s.n++
	data[s.n] = 0
	return nil
}

// Pop removes and returns the last byte.
func (s *String) Pop() (byte, error) {
	if err := s.live(); err != nil {
		return 0, err
	}
	if s.n == 0 {
		return 0, ErrUnderflow
	}
	data := s.buf.Bytes()
	c := data[s.n-1]
	s.n--
	data[s.n] = 0
	if !s.cfg.policy.LazyShrink {
		s.shrink()
	}
	return c, nil
}

// Equal reports whether the content equals b byte for byte.
func (s *String) Equal(b []byte) bool {
	return bytes.Equal(s.Data(), b)
}

// EqualTo reports whether s and o hold the same bytes. A destroyed or nil
// value compares like an empty one.
func (s *String) EqualTo(o Text) bool {
	if o == nil {
		return s.Len() == 0
	}
	return bytes.Equal(s.Data(), o.Data())
}

// EqualString reports whether the content equals b byte for byte.
func (s *String) EqualString(b string) bool {
	return string(s.Data()) == b
}

// Contains reports whether pattern occurs in the content.
func (s *String) Contains(pattern []byte) bool {
	return scanner.Contains(s.Data(), pattern)
}

// ContainsString reports whether pattern occurs in the content.
func (s *String) ContainsString(pattern string) bool {
	return scanner.Contains(s.Data(), []byte(pattern))
}

// Count returns the number of non-overlapping occurrences of pattern, the
// same count Replace would substitute.
func (s *String) Count(pattern []byte) int {
	return scanner.Count(s.Data(), pattern)
}

// Clear empties the String, wipes the old content and reallocates the
// storage down to the floor.
func (s *String) Clear() error {
	if err := s.live(); err != nil {
		return err
	}
	old := s.buf.Bytes()
	if err := s.buf.Reset(); err != nil {
		return err
	}
	clear(old)
	s.n = 0
	return nil
}

// Slice returns a new String holding a copy of the inclusive range
// [first, last].
func (s *String) Slice(first, last int) (*String, error) {
	if err := s.live(); err != nil {
		return nil, err
	}
	if first < 0 || first > last || last >= s.n {
		return nil, fmt.Errorf("%w: slice [%d, %d] of length %d", ErrIndexOutOfRange, first, last, s.n)
	}
	part := s.buf.Bytes()[first : last+1]
	return build(s.cfg, s.cfg.policy.SizeFor(len(part)), part)
}

// At returns the byte at index i.
func (s *String) At(i int) (byte, error) {
	if err := s.checkIndex(i); err != nil {
		return 0, err
	}
	return s.buf.Bytes()[i], nil
}

// Set overwrites the byte at index i.
func (s *String) Set(i int, c byte) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.buf.Bytes()[i] = c
	return nil
}

// RemoveAt deletes the byte at index i, shifting the rest left.
func (s *String) RemoveAt(i int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	data := s.buf.Bytes()
	// moves the sentinel along
	copy(data[i:], data[i+1:s.n+1])
	s.n--
	if !s.cfg.policy.LazyShrink {
		s.shrink()
	}
	return nil
}

func (s *String) checkIndex(i int) error {
	if err := s.live(); err != nil {
		return err
	}
	if i < 0 || i >= s.n {
		return fmt.Errorf("%w: index %d of length %d", ErrIndexOutOfRange, i, s.n)
	}
	return nil
}

// Compact halves the capacity as many times as the shrink policy allows
// for the current length, in one reallocation. With a lazy policy this is
// the only way single byte removals give memory back.
func (s *String) Compact() error {
	if err := s.live(); err != nil {
		return err
	}
	return s.buf.Compact(s.n)
}

// shrink applies one step of the shrink policy, reporting failures to the
// logger. The String stays valid at its old capacity if reallocation fails.
func (s *String) shrink() {
	if err := s.buf.Shrink(s.n); err != nil {
		log.Warn().Err(err).Int("len", s.n).Int("cap", s.buf.Cap()).Msg("shrink failed")
	}
}

// compact is Compact with failures logged instead of returned.
func (s *String) compact() {
	if err := s.buf.Compact(s.n); err != nil {
		log.Warn().Err(err).Int("len", s.n).Int("cap", s.buf.Cap()).Msg("compact failed")
	}
}

// Destroyed reports whether the String holds no storage.
func (s *String) Destroyed() bool {
	return s.live() != nil
}

// Destroy releases the storage. It returns true on the call that released
// it; later calls, and calls on a nil or zero String, are no-ops that
// return false.
func (s *String) Destroy() bool {
	if s.live() != nil {
		return false
	}
	s.buf.Release()
	s.buf = nil
	s.n = 0
	return true
}

// Close is Destroy for use as an io.Closer. It never fails.
func (s *String) Close() error {
	s.Destroy()
	return nil
}
