package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/cstr/log"
	"github.com/rubiojr/cstr/source"
	"github.com/rubiojr/cstr/str"
)

// run executes the CLI with stdin as input and returns what it wrote.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(log.Disable)

	var stdout, stderr bytes.Buffer
	root := newApp("test")
	root.Reader = strings.NewReader(stdin)
	root.Writer = &stdout
	root.ErrWriter = &stderr

	err := root.Run(context.Background(), append([]string{"cstr"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestReplaceCommand(t *testing.T) {
	stdout, stderr, err := run(t, "word word word text", "replace", "word", "X")
	require.NoError(t, err)
	assert.Equal(t, "X X X text", stdout)
	assert.Contains(t, stderr, "3 replacements")
}

func TestReplaceCommand_FromFileToCompressedFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	outPath := filepath.Join(dir, "out.txt.zst")
	require.NoError(t, os.WriteFile(in, []byte("AAAA BBBB"), 0o644))

	_, _, err := run(t, "", "replace", "-o", outPath, "AAAA BBBB", "x", in)
	require.NoError(t, err)

	s, err := source.ReadFile(outPath)
	require.NoError(t, err)
	defer s.Destroy()
	assert.Equal(t, "x", s.String())
}

func TestReplaceCommand_EmptyPattern(t *testing.T) {
	for _, args := range [][]string{
		{"replace", "--", "", "x"},
		{"replace", "--old", "", "--new", "x"},
	} {
		_, _, err := run(t, "Some text", args...)
		require.ErrorIs(t, err, str.ErrEmptyPattern, "%q", args)
		assert.Equal(t, 5, exitCode(err))
	}
}

func TestReplaceCommand_EmptyPatternNoopConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cstr.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("empty_pattern: noop\n"), 0o644))

	stdout, stderr, err := run(t, "Some text", "--config", cfgPath, "replace", "--", "", "x")
	require.NoError(t, err)
	assert.Equal(t, "Some text", stdout)
	assert.Contains(t, stderr, "0 replacements")
}

func TestReplaceCommand_WhitespaceVerbatim(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"flags", []string{"replace", "--old", " ", "--new", "_"}, "a_b_c"},
		{"separator", []string{"replace", "--", " ", " - "}, "a - b - c"},
		{"delete with flag", []string{"replace", "--old", " "}, "abc"},
		{"empty replacement after separator", []string{"replace", "--", "b", ""}, "a  c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := run(t, "a b c", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestReplaceCommand_FlagsWithFile(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(in, []byte("word word word text"), 0o644))

	stdout, _, err := run(t, "", "replace", "--old", "word", "--new", "X", in)
	require.NoError(t, err)
	assert.Equal(t, "X X X text", stdout)
}

func TestReplaceCommand_Usage(t *testing.T) {
	_, _, err := run(t, "Some text", "replace", "only-one")
	assert.ErrorContains(t, err, "usage")

	_, _, err = run(t, "Some text", "replace", "--new", "x")
	assert.ErrorIs(t, err, str.ErrInvalidArgument)
}

func TestAppendCommand(t *testing.T) {
	stdout, _, err := run(t, "", "append", "Some", "text")
	require.NoError(t, err)
	assert.Equal(t, "Sometext", stdout)

	stdout, _, err = run(t, "", "append", "--", "Some", " ", "text", "", "!")
	require.NoError(t, err)
	assert.Equal(t, "Some text!", stdout)
}

func TestAppendCommand_File(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(in, []byte("Some"), 0o644))

	stdout, _, err := run(t, "", "append", "-f", in, "--", " text")
	require.NoError(t, err)
	assert.Equal(t, "Some text", stdout)
}

func TestAppendCommand_MaxCapacity(t *testing.T) {
	t.Setenv("CSTR_MAX_CAPACITY", "32")
	_, _, err := run(t, "", "append", strings.Repeat("x", 40))
	require.ErrorIs(t, err, str.ErrAllocation)
	assert.Equal(t, 2, exitCode(err))
}

func TestSliceCommand(t *testing.T) {
	stdout, _, err := run(t, "Some text", "slice", "1", "3")
	require.NoError(t, err)
	assert.Equal(t, "ome", stdout)
}

func TestSliceCommand_Errors(t *testing.T) {
	_, _, err := run(t, "Some text", "slice", "5", "2")
	require.ErrorIs(t, err, str.ErrIndexOutOfRange)
	assert.Equal(t, 4, exitCode(err))

	_, _, err = run(t, "Some text", "slice", "one", "2")
	require.ErrorIs(t, err, str.ErrInvalidArgument)
	assert.Equal(t, 5, exitCode(err))
}

func TestContainsCommand(t *testing.T) {
	_, _, err := run(t, "This is a c-string", "contains", "c-string")
	assert.NoError(t, err)

	_, _, err = run(t, "This is a c-string", "contains", "C-string")
	assert.ErrorIs(t, err, errAbsent)
	assert.Equal(t, 1, exitCode(err))
}

func TestStatsCommand(t *testing.T) {
	stdout, _, err := run(t, "Some text", "stats")
	require.NoError(t, err)
	assert.Contains(t, stdout, "length:   9")
	// 648 after reading, halved down to 20 at EOF
	assert.Contains(t, stdout, "capacity: 20")
	assert.NotContains(t, stdout, "\033[")
}

func TestStatsCommand_CustomFloor(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(in, nil, 0o644))
	t.Setenv("CSTR_CAPACITY_FLOOR", "1024")
	t.Setenv("CSTR_TAPER_THRESHOLD", "4096")

	stdout, _, err := run(t, "", "stats", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "length:   0")
	assert.Contains(t, stdout, "capacity: 1024")
}

func TestDemoCommand(t *testing.T) {
	stdout, _, err := run(t, "", "demo")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"Hello, World! This is cstr! This is a kickass library"`)
	assert.Contains(t, stdout, "equal:    true")
	assert.Contains(t, stdout, "at(7):    'W'")
	assert.Contains(t, stdout, `"Jello"`)
	assert.Contains(t, stdout, "pop on empty: UNDERFLOW")
	assert.Contains(t, stdout, "destroyed: true, again: false")
}

func TestDebugLogging(t *testing.T) {
	_, stderr, err := run(t, "word word word text", "--debug", "replace", "word", "X")
	require.NoError(t, err)
	assert.Contains(t, stderr, "buffer resize")
}

func TestDebugLogging_OutputWritten(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.txt")
	_, stderr, err := run(t, "word word word text", "--debug", "replace", "-o", outPath, "word", "X")
	require.NoError(t, err)
	assert.Contains(t, stderr, "output written")
	assert.Contains(t, stderr, "len=10")
}

func TestBadConfig(t *testing.T) {
	t.Setenv("CSTR_CAPACITY_FLOOR", "1")
	_, _, err := run(t, "Some text", "stats")
	assert.ErrorContains(t, err, "invalid config")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{str.ErrAllocation, 2},
		{fmt.Errorf("pop: %w", str.ErrUnderflow), 3},
		{str.ErrIndexOutOfRange, 4},
		{str.ErrEmptyPattern, 5},
		{errAbsent, 1},
		{errors.New("other"), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), "exitCode(%v)", tt.err)
	}
}
