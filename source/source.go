// Package source builds cstr strings from files and readers and writes
// them back. Input that starts with a zstd frame is decompressed on the
// fly; output paths ending in .zst are compressed.
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/rubiojr/cstr/log"
	"github.com/rubiojr/cstr/str"
)

// CompressedExt marks output paths that WriteFile compresses.
const CompressedExt = ".zst"

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Read consumes r until EOF into a new String.
func Read(r io.Reader, opts ...str.Option) (*str.String, error) {
	br := bufio.NewReader(r)
	var in io.Reader = br
	if magic, _ := br.Peek(len(zstdMagic)); bytes.Equal(magic, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd: failed to initialize decoder: %w", err)
		}
		defer dec.Close()
		in = dec
		log.Debug().Msg("reading zstd compressed input")
	}

	s, err := str.New(opts...)
	if err != nil {
		return nil, err
	}
	if _, err := s.ReadFrom(in); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return s, nil
}

// ReadFile reads the file at path into a new String.
func ReadFile(path string, opts ...str.Option) (*str.String, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()
	s, err := Read(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("len", s.Len()).Int("cap", s.Cap()).Msg("file loaded")
	return s, nil
}

// Write writes the content of s to w, compressed when compress is set.
func Write(w io.Writer, s *str.String, compress bool) error {
	if !compress {
		_, err := s.WriteTo(w)
		return err
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("zstd: failed to initialize encoder: %w", err)
	}
	if _, err := s.WriteTo(enc); err != nil {
		_ = enc.Close()
		return fmt.Errorf("zstd: failed to write data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("zstd: failed to close writer: %w", err)
	}
	return nil
}

// WriteFile writes s to path, compressing when path ends in .zst.
func WriteFile(path string, s *str.String) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := Write(f, s, strings.HasSuffix(path, CompressedExt)); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
