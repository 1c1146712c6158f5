package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind string

const (
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindInvalidState    Kind = "INVALID_STATE"
	KindNotFound        Kind = "NOT_FOUND"
	KindForbidden       Kind = "FORBIDDEN"
)

func (k Kind) String() string {
	return string(k)
}

// Error is the value returned by every core operation that refuses a request.
type Error struct {
	Kind    Kind
	Op      string
	Message string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return e.Op + ": " + e.Message
}

// Is matches another *Error of the same kind, so errors.Is(err, apperr.ErrInvalidState) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Op == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons
var (
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrInvalidState    = &Error{Kind: KindInvalidState}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrForbidden       = &Error{Kind: KindForbidden}
)

func newError(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvalidArgument reports a bad reference, an out-of-range value or an unauthorized actor.
func InvalidArgument(op, format string, args ...interface{}) error {
	return newError(KindInvalidArgument, op, format, args...)
}

// InvalidState reports an operation the entity's current state forbids.
func InvalidState(op, format string, args ...interface{}) error {
	return newError(KindInvalidState, op, format, args...)
}

// NotFound reports an unknown identifier at the service boundary.
func NotFound(op, format string, args ...interface{}) error {
	return newError(KindNotFound, op, format, args...)
}

// Forbidden reports a caller acting on something it does not own.
func Forbidden(op, format string, args ...interface{}) error {
	return newError(KindForbidden, op, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
