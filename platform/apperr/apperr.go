// Package apperr provides standardized error types for the upload pipeline.
// Each Kind maps to the result code reported to the caller and, for the fake
// backend, to an HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindLocalPrecondition indicates the run was stopped before any network
	// call (empty file, unparsable media, invalid request).
	KindLocalPrecondition
	// KindProtocolRejection indicates the backend answered with a non-success code.
	KindProtocolRejection
	// KindTransport indicates a network failure or timeout.
	KindTransport
	// KindMalformedResponse indicates a response body that is not valid JSON.
	KindMalformedResponse
	// KindUnauthorized indicates missing or rejected session cookies.
	KindUnauthorized
	// KindNotFound indicates an unknown resource path.
	KindNotFound
)

// String returns a short name for logs.
func (k Kind) String() string {
	switch k {
	case KindLocalPrecondition:
		return "local_precondition"
	case KindProtocolRejection:
		return "protocol_rejection"
	case KindTransport:
		return "transport"
	case KindMalformedResponse:
		return "malformed_response"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// LocalFailureCode is the result code for failures detected on this side of the wire.
const LocalFailureCode = -1

// Error is a typed error carrying the result code reported for it.
type Error struct {
	Kind    Kind
	Message string
	Op      string // Operation that failed (optional)
	Code    int    // Backend code or HTTP status, when one exists
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// ResultCode returns the code reported to the caller for this error.
func (e *Error) ResultCode() int {
	switch e.Kind {
	case KindLocalPrecondition, KindTransport:
		return LocalFailureCode
	case KindProtocolRejection, KindMalformedResponse:
		return e.Code
	default:
		if e.Code != 0 {
			return e.Code
		}
		return LocalFailureCode
	}
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindLocalPrecondition:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindProtocolRejection:
		return http.StatusUnprocessableEntity
	case KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp returns the error with the operation set.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithCode returns the error with the backend code set.
func (e *Error) WithCode(code int) *Error {
	e.Code = code
	return e
}

// Convenience constructors for the pipeline taxonomy.

// Precondition creates a local precondition error.
func Precondition(message string) *Error {
	return New(KindLocalPrecondition, message)
}

// Rejected creates a protocol rejection carrying the backend code.
func Rejected(message string, code int) *Error {
	return New(KindProtocolRejection, message).WithCode(code)
}

// Transport wraps a network failure.
func Transport(message string, err error) *Error {
	return Wrap(KindTransport, message, err)
}

// Malformed wraps a decode failure; status is the HTTP status used as result code.
func Malformed(message string, status int, err error) *Error {
	return Wrap(KindMalformedResponse, message, err).WithCode(status)
}

// Unauthorized creates an unauthorized error.
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// GetKind extracts the error kind from an error chain.
// Returns KindUnknown if no *Error is found.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err carries an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// ResultCode maps any error to a result code. nil maps to 0.
func ResultCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.ResultCode()
	}
	return LocalFailureCode
}
