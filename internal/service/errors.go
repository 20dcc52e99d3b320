package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/service/auth"
	"github.com/phrazzld/cards-api/internal/store"
)

// Error kinds - sentinel errors used across service implementations.
// Every *Error matches exactly one of these with errors.Is.
//
// Error handling principles:
// 1. Service methods return *Error for every failure
// 2. Validation and authorization failures carry a caller-safe message
// 3. Anything unexpected becomes KindUnhandled and keeps the cause for logging
// 4. The API layer maps kinds to HTTP status codes
var (
	// ErrUnauthenticated indicates no actor could be established for the request.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidation indicates the request carried missing or invalid values.
	// API layer should map this to HTTP 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the referenced card does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the actor is neither the owner nor an administrator.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("forbidden")

	// ErrUnhandled covers every other failure.
	// API layer should map this to HTTP 500 Internal Server Error.
	ErrUnhandled = errors.New("unhandled error")
)

// Kind classifies an Error.
type Kind int

const (
	KindUnhandled Kind = iota
	KindUnauthenticated
	KindValidation
	KindNotFound
	KindForbidden
)

func (k Kind) sentinel() error {
	switch k {
	case KindUnauthenticated:
		return ErrUnauthenticated
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindForbidden:
		return ErrForbidden
	default:
		return ErrUnhandled
	}
}

// Stable error codes returned to API callers.
const (
	CodeUnhandled       = "CA000"
	CodeInvalidSignIn   = "CA001"
	CodeUnauthenticated = "CA002"
	CodeRequiredField   = "CA003"
	CodeInvalidValue    = "CA004"
	CodeCardNotFound    = "CA005"
	CodeEditForbidden   = "CA006"
	CodeDeleteForbidden = "CA007"
	CodeGetForbidden    = "CA008"
)

// Error is the error type returned by every service operation.
type Error struct {
	// Code is one of the Code constants.
	Code string
	// Message is safe to show to callers.
	Message string
	Kind    Kind
	// Err is the underlying cause, if any. It may contain internal detail.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newError(kind Kind, code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Kind: kind, Err: err}
}

func unauthenticated(err error) *Error {
	return newError(KindUnauthenticated, CodeUnauthenticated,
		"User must be logged in to complete request", err)
}

func cardNotFound(id uint64, err error) *Error {
	return newError(KindNotFound, CodeCardNotFound,
		fmt.Sprintf("Card '%d' could not be found", id), err)
}

func forbidden(code, action string) *Error {
	return newError(KindForbidden, code,
		fmt.Sprintf("Cannot %s card if you are not the creator or admin", action), nil)
}

// classify converts err into an *Error. Errors that are already *Error pass
// through unchanged.
func classify(err error, cardID uint64) *Error {
	if err == nil {
		return nil
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		code := CodeInvalidValue
		if errors.Is(valErr, domain.ErrRequiredField) {
			code = CodeRequiredField
		}
		return newError(KindValidation, code, valErr.Message, err)
	}

	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return unauthenticated(err)
	case errors.Is(err, store.ErrCardNotFound):
		return cardNotFound(cardID, err)
	}

	return newError(KindUnhandled, CodeUnhandled, "An unexpected error occurred", err)
}
