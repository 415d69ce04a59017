package str

import (
	"errors"
	"fmt"

	"github.com/rubiojr/cstr/buffer"
)

// Errors returned by String operations. Test with errors.Is.
var (
	ErrAllocation      = buffer.ErrAllocation
	ErrUnderflow       = errors.New("pop from empty string")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmptyPattern    = fmt.Errorf("%w: empty search pattern", ErrInvalidArgument)
	ErrReleased        = fmt.Errorf("%w: string already destroyed", ErrInvalidArgument)
)

// Status classifies the outcome of an operation.
type Status int

const (
	Success Status = iota
	AllocFailure
	Underflow
	IndexOutOfRange
	InvalidArgument
	Unknown
)

var statusNames = [...]string{
	Success:         "SUCCESS",
	AllocFailure:    "ALLOC_FAILURE",
	Underflow:       "UNDERFLOW",
	IndexOutOfRange: "INDEX_OUT_OF_RANGE",
	InvalidArgument: "INVALID_ARGUMENT",
	Unknown:         "UNKNOWN",
}

// String returns the status name, e.g. ALLOC_FAILURE.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// StatusOf maps err to its Status. A nil error is Success.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrAllocation):
		return AllocFailure
	case errors.Is(err, ErrUnderflow):
		return Underflow
	case errors.Is(err, ErrIndexOutOfRange):
		return IndexOutOfRange
	case errors.Is(err, ErrInvalidArgument):
		return InvalidArgument
	default:
		return Unknown
	}
}
