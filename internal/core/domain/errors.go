package domain

import "errors"

// Error kinds. Handlers map these to HTTP status codes.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// Error is a client-facing error message tagged with one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError creates an Error of the given kind
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NotFound, Invalid and Conflict build errors whose message is computed at
// call time (e.g. listing the offending ids).
func NotFound(message string) error { return NewError(ErrNotFound, message) }

func Invalid(message string) error { return NewError(ErrInvalidInput, message) }

func Conflict(message string) error { return NewError(ErrConflict, message) }
