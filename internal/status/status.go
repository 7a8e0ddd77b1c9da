// Package status defines the outcome taxonomy shared by services and handlers.
// Several call sites branch on the specific outcome (AlreadyExists vs NotFound
// vs Failure) to choose a distinct HTTP response, so outcomes travel as typed
// errors instead of matched strings.
package status

import (
	"errors"
	"fmt"
)

// Code identifies the outcome of an operation.
type Code int

const (
	// Success is the zero outcome of a nil error.
	Success Code = iota
	// AlreadyExists signals a duplicate rating, watch entry or user.
	AlreadyExists
	// NotFound signals a missing local row or provider record.
	NotFound
	// Invalid signals malformed caller input (e.g. out-of-range score).
	Invalid
	// Transient signals a network or timeout failure against the provider;
	// safe to skip or retry at the caller's discretion.
	Transient
	// ProviderError signals a non-2xx, non-timeout failure from the provider.
	ProviderError
	// Failure is everything else.
	Failure
)

func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case AlreadyExists:
		return "already_exists"
	case NotFound:
		return "not_found"
	case Invalid:
		return "invalid"
	case Transient:
		return "transient"
	case ProviderError:
		return "provider_error"
	default:
		return "failure"
	}
}

// Error is an error tagged with an outcome code.
type Error struct {
	code Code
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Errorf builds a tagged error from a format string.
func Errorf(code Code, format string, args ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error with an outcome code. Wrapping nil returns nil.
func Wrap(code Code, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, msg: msg, err: err}
}

// Of classifies an error. nil maps to Success, untagged errors to Failure.
func Of(err error) Code {
	if err == nil {
		return Success
	}
	var se *Error
	if errors.As(err, &se) {
		return se.code
	}
	return Failure
}

// Is reports whether the error carries the given code.
func Is(err error, code Code) bool {
	return Of(err) == code
}
