// Package apperror defines the error taxonomy shared by services and the HTTP boundary.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for translation at the boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindUnauthenticated
	KindNotFound
)

// InternalMessage is the only text a client ever sees for an internal fault.
const InternalMessage = "Internal server error"

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized, KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is the domain error type. Messages are user facing; Cause is for logs only.
type Error struct {
	Kind     Kind
	Messages []string
	Cause    error
}

func (e *Error) Error() string {
	if e.Kind == KindInternal && e.Cause != nil {
		return e.Cause.Error()
	}
	if len(e.Messages) > 0 {
		return e.Messages[0]
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// HTTPStatus returns the status code for the error's kind.
func (e *Error) HTTPStatus() int { return e.Kind.HTTPStatus() }

// PublicMessages returns what may be shown to the client.
func (e *Error) PublicMessages() []string {
	if e.Kind == KindInternal {
		return []string{InternalMessage}
	}
	if len(e.Messages) == 0 {
		return []string{http.StatusText(e.HTTPStatus())}
	}
	return e.Messages
}

func Validation(msgs ...string) *Error {
	return &Error{Kind: KindValidation, Messages: msgs}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Messages: []string{msg}}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Messages: []string{msg}}
}

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Messages: []string{msg}}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Messages: []string{msg}}
}

// Internal wraps an unexpected fault.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Cause: cause}
}

// From returns err as an *Error, downgrading anything outside the taxonomy to Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
