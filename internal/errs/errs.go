// Package errs carries the business error taxonomy. Services return these,
// the HTTP layer translates them to a status code and envelope.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a business failure.
type Kind int

const (
	// KindInternal is the fallback for anything unclassified.
	KindInternal Kind = iota
	// KindNotFound means an entity lookup by id/name missed.
	KindNotFound
	// KindConflict means a business rule rejected the request
	// (duplicate name, stock exceeded, duplicate payment, empty cart...).
	KindConflict
	// KindUnauthorized means the caller is not authenticated.
	KindUnauthorized
	// KindForbidden means the caller is authenticated but not allowed.
	KindForbidden
	// KindInvalid means the request body failed validation.
	KindInvalid
)

// Error is a classified business error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an error with an explicit kind.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthorizedf(format string, args ...any) error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Invalidf(format string, args ...any) error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of err, KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps a business error to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
