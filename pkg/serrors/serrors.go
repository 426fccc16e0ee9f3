// Package serrors defines semantic error kinds shared across the service and
// their mapping onto HTTP responses.
package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a semantic error category. Kinds are sentinels: compare them with
// errors.Is through the Error wrapper.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrBadRequest indicates the caller sent invalid input, e.g. a blank username.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrMethodNotAllowed indicates the HTTP method is not served by the endpoint.
	ErrMethodNotAllowed = NewKind("METHOD_NOT_ALLOWED")
	// ErrRateLimited indicates the caller exceeded its request budget.
	ErrRateLimited = NewKind("RATE_LIMITED")
	// ErrTimeout indicates the whole request ran out of time.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrInternal indicates a failure outside the expected probe/aggregate flow.
	ErrInternal = NewKind("INTERNAL")
)

// statusCodes maps every kind to the HTTP status it is reported with.
var statusCodes = map[Kind]int{ //nolint: gochecknoglobals
	ErrBadRequest:       http.StatusBadRequest,
	ErrMethodNotAllowed: http.StatusMethodNotAllowed,
	ErrRateLimited:      http.StatusTooManyRequests,
	ErrTimeout:          http.StatusServiceUnavailable,
	ErrInternal:         http.StatusInternalServerError,
}

// Error carries a kind, an optional wrapped cause and an optional message.
// errors.Is and errors.As match against both the kind and the cause.
//
// Error() renders "<msg>: <cause>", "<msg>", "<cause>" or the kind name,
// depending on which parts are set.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error wrapping cause with a formatted message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly creates a semantic error carrying only the kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is matches either the kind sentinel or the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}

	return e.err != nil && errors.Is(e.err, target)
}

// As extracts either the kind sentinel or a type from the wrapped cause.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}

	return e.err != nil && errors.As(e.err, target)
}

// Kind returns the kind sentinel, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the attached message.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause (may be nil).
func (e *Error) Cause() error { return e.err }

// KindOf returns the first semantic kind found in err's chain, or ErrInternal
// when err carries none.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return ErrInternal
}

// StatusCode returns the HTTP status code err should be reported with.
func StatusCode(err error) int {
	if code, ok := statusCodes[KindOf(err)]; ok {
		return code
	}

	return http.StatusInternalServerError
}

// PublicMessage returns the text that may be shown to API clients. Semantic
// errors expose their own message; anything else is reported generically so
// internal details do not leak.
func PublicMessage(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Message() != "" {
		return se.Message()
	}
	if se != nil && se.Kind() != nil && se.Kind() != ErrInternal {
		return se.Kind().Error()
	}

	return "internal error"
}
