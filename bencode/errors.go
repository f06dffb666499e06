package bencode

import (
	"errors"
	"strconv"
)

// ErrorKind classifies a parse failure.
type ErrorKind uint8

const (
	// Overflow means the Allocator could not provide memory, or the input
	// nests deeper than the Codec allows.
	Overflow ErrorKind = iota + 1

	// Underflow means the Reader ran out of input in the middle of a value.
	// The caller may retry once more input is available.
	Underflow

	// Malformed means the input violates the bencode grammar.
	Malformed
)

func (k ErrorKind) String() string {
	switch k {
	case Overflow:
		return "overflow"
	case Underflow:
		return "underflow"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per ErrorKind. Every *Error matches the sentinel of its
// Kind with errors.Is.
var (
	ErrOverflow  = errors.New("bencode: overflow")
	ErrUnderflow = errors.New("bencode: underflow")
	ErrMalformed = errors.New("bencode: malformed input")
)

// Error describes a failed parse.
type Error struct {
	Kind ErrorKind

	// Offset is the number of bytes consumed by the failing call when the
	// failure was detected.
	Offset int64

	Reason string

	// Err is the Reader or Allocator error that caused the failure, if any.
	Err error
}

func (e *Error) Error() string {
	msg := "bencode: " + e.Kind.String() + " at offset " + strconv.FormatInt(e.Offset, 10)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying collaborator error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of e's Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrOverflow:
		return e.Kind == Overflow
	case ErrUnderflow:
		return e.Kind == Underflow
	case ErrMalformed:
		return e.Kind == Malformed
	}
	return false
}

// KindOf returns the ErrorKind of err, or 0 if err did not come from a parse.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
