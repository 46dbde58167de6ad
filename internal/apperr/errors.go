// Package apperr defines the error kinds surfaced by the generation flows and
// their HTTP mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindConfiguration Kind = "configuration"
	KindProvider      Kind = "provider"
	KindStorage       Kind = "storage"
	KindDownload      Kind = "download"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
)

type Error struct {
	Kind    Kind
	Message string
	// StatusCode is the upstream HTTP status for provider and download errors.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Configuration(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports work already in progress for the same resource.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Provider carries the provider's own message as the user-facing text.
func Provider(statusCode int, message string) *Error {
	return &Error{Kind: KindProvider, StatusCode: statusCode, Message: message}
}

func Storage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

func Download(statusCode int, message string) *Error {
	return &Error{Kind: KindDownload, StatusCode: statusCode, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the status code returned to the client.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
