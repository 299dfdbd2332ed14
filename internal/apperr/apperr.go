// Package apperr defines the error kinds shared by the reservation core and
// the HTTP layer.  Each kind maps to exactly one HTTP status in the handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	BadInput      Kind = "BAD_REQUEST"
	NotFound      Kind = "NOT_FOUND"
	ScopeMismatch Kind = "SCOPE_MISMATCH"
	Conflict      Kind = "CONFLICT"
	StoreFailure  Kind = "STORE_FAILURE"
	// Unauthorized is used by the authentication flow only.
	Unauthorized Kind = "UNAUTHORIZED"
)

// Error is a classified failure with a human readable message and optional
// structured details returned to the client.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns an Error of the given kind wrapping cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// WithDetails sets details and returns e for chaining.
func (e *Error) WithDetails(d map[string]any) *Error {
	e.Details = d
	return e
}

// Kinded is implemented by domain errors that carry their own kind without
// being an *Error, such as period conflicts.
type Kinded interface {
	error
	Kind() Kind
}

// KindOf reports the kind of err.  Unclassified errors are store failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return StoreFailure
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
