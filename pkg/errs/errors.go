// Package errs defines the error kinds shared by services and handlers.
//
// Services return *Error values (or wrap one of the sentinels below) and the
// HTTP layer maps the Kind to a status code.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error carries a kind, a client-safe message and optional field errors.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind and message, so sentinels work
// with errors.Is even after being wrapped.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Field builds a validation error for a single field.
func Field(field, message string) *Error {
	return Validation("validation failed", map[string]string{field: message})
}

func Conflict(message string, fields map[string]string) *Error {
	return &Error{Kind: KindConflict, Message: message, Fields: fields}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// Internal wraps an unexpected error. The message is never shown to clients.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrDuplicateReview  = Conflict("you have already reviewed this title", nil)
	ErrInvalidCode      = Unauthorized("invalid or expired confirmation code")
	ErrInvalidToken     = Unauthorized("invalid or expired token")
	ErrAuthRequired     = Unauthorized("authentication required")
	ErrPermissionDenied = Forbidden("you do not have permission to perform this action")
	ErrReservedUsername = Field("username", `"me" is a reserved username`)
	ErrUsernameTaken    = Conflict("username already taken", map[string]string{"username": "A user with that username already exists"})
	ErrEmailTaken       = Conflict("email already registered", map[string]string{"email": "A user with that email already exists"})
	ErrUserNotFound     = NotFound("user not found")
	ErrTitleNotFound    = NotFound("title not found")
	ErrReviewNotFound   = NotFound("review not found")
	ErrCommentNotFound  = NotFound("comment not found")
	ErrCategoryNotFound = NotFound("category not found")
	ErrGenreNotFound    = NotFound("genre not found")
	ErrSlugTaken        = Conflict("slug already exists", map[string]string{"slug": "An object with this slug already exists"})
)
