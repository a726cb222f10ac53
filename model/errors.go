package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies capability failures so callers can decide whether to
// retry, reauthenticate or propagate.
type ErrorKind int

const (
	// ErrKindTransport covers network and unexpected provider failures.
	ErrKindTransport ErrorKind = iota
	// ErrKindAuth covers authentication and authorization failures.
	ErrKindAuth
	// ErrKindRateLimit covers quota and rate limit rejections.
	ErrKindRateLimit
	// ErrKindSchema covers structured output that does not conform to the
	// requested response format.
	ErrKindSchema
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrKindTransport:
		return "transport"
	case ErrKindAuth:
		return "auth"
	case ErrKindRateLimit:
		return "rate_limit"
	case ErrKindSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// Error is the capability error type surfaced by Model implementations.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("capability error (%s): %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("capability error (%s): %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// NewError constructs a capability error wrapping cause (cause may be nil).
func NewError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// IsSchemaViolation reports whether err is a capability error caused by
// malformed structured output.
func IsSchemaViolation(err error) bool {
	var me *Error
	return errors.As(err, &me) && me.Kind == ErrKindSchema
}
