package a2s

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedEOF is returned when a fixed-width or terminated field could not be fully read.
	ErrUnexpectedEOF = errors.New("unexpected end of data")

	// ErrMalformedEnvelope is returned when the packet header is neither -1 (single) nor -2 (split).
	ErrMalformedEnvelope = errors.New("malformed packet envelope")

	// ErrUnrecognizedMessageType is returned for a message tag outside the known set.
	// Callers may discard such datagrams silently, see IsRecoverable.
	ErrUnrecognizedMessageType = errors.New("unrecognized message type")

	// ErrTrailingData is returned when a decoder finished with unconsumed bytes it does not allow.
	ErrTrailingData = errors.New("trailing data after message")

	// ErrUnexpectedValue is returned when a field holding a protocol constant carries another value.
	ErrUnexpectedValue = errors.New("unexpected field value")
)

// DecodeError describes where and why decoding failed.
type DecodeError struct {
	// Err is one of the sentinel errors of this package.
	Err error

	// Field names the field being decoded when the failure happened.
	Field string

	// Detail optionally carries the offending value.
	Detail string

	// Offset is the byte offset, relative to the start of the decoded buffer, where the field begins.
	Offset int
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("a2s: %s at offset %d", e.Err, e.Offset)
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	return msg
}

// Unwrap returns the sentinel error so errors.Is works on DecodeError.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsRecoverable reports whether err only means "not a message this engine understands".
// Such datagrams can be dropped without treating the exchange as broken.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrUnrecognizedMessageType)
}

// ErrorOffset returns the offset carried by a DecodeError within err, or -1.
func ErrorOffset(err error) int {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Offset
	}

	return -1
}

func newError(kind error, offset int, field string) *DecodeError {
	return &DecodeError{Err: kind, Offset: offset, Field: field}
}
