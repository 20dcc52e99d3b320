package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/cards-api/internal/api/shared"
	"github.com/phrazzld/cards-api/internal/service"
	"github.com/phrazzld/cards-api/internal/service/auth"
)

// GenericErrorMessage replaces the message of every 5xx response.
const GenericErrorMessage = shared.GenericErrorMessage

// isTokenError reports whether err comes from bearer token verification.
func isTokenError(err error) bool {
	return errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrExpiredToken) ||
		errors.Is(err, auth.ErrTokenNotYetValid) ||
		errors.Is(err, auth.ErrMissingToken) ||
		errors.Is(err, auth.ErrUnauthenticated)
}

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error kind. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated), isTokenError(err):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode returns the stable code reported to callers for err.
func ErrorCode(err error) string {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	if isTokenError(err) {
		return service.CodeUnauthenticated
	}
	return service.CodeUnhandled
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. 5xx errors always get the generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil || MapErrorToStatusCode(err) >= http.StatusInternalServerError {
		return GenericErrorMessage
	}

	var svcErr *service.Error
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	if isTokenError(err) {
		return "User must be logged in to complete request"
	}
	return GenericErrorMessage
}

// SanitizeValidationError converts request validation failures into a
// service validation error. Messages for every failed field are joined with
// " | ". A missing required field yields the required-field code.
func SanitizeValidationError(err error) *service.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &service.Error{
			Kind:    service.KindValidation,
			Code:    service.CodeInvalidValue,
			Message: "Request body is invalid",
			Err:     err,
		}
	}

	code := service.CodeInvalidValue
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			code = service.CodeRequiredField
		}
		messages = append(messages, getValidationTagMessage(fe.Field(), fe.Tag(), fe.Param()))
	}

	return &service.Error{
		Kind:    service.KindValidation,
		Code:    code,
		Message: strings.Join(messages, " | "),
		Err:     err,
	}
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email provided"
	case "numeric":
		return fmt.Sprintf("%s must be a number", field)
	case "min":
		return fmt.Sprintf("%s should be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s should be at most %s characters", field, param)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
