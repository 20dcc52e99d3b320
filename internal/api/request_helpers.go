package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/cards-api/internal/api/shared"
	"github.com/phrazzld/cards-api/internal/service"
)

// HandleAPIError writes the error response for err: status, code and safe
// message come from the error taxonomy, the full error goes to the log.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, opts ...shared.ResponseOption) {
	shared.RespondWithErrorAndLog(
		w,
		r,
		MapErrorToStatusCode(err),
		ErrorCode(err),
		GetSafeErrorMessage(err),
		err,
		opts...,
	)
}

// parseCardID parses a card id given as a decimal string. Ids are positive.
func parseCardID(field, raw string) (uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &service.Error{
			Kind:    service.KindValidation,
			Code:    service.CodeRequiredField,
			Message: field + " must be provided",
		}
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &service.Error{
			Kind:    service.KindValidation,
			Code:    service.CodeInvalidValue,
			Message: field + " must be greater than 0",
			Err:     err,
		}
	}
	return id, nil
}

// getPathCardID extracts the card id from the URL path parameter.
func getPathCardID(r *http.Request, paramName string) (uint64, error) {
	return parseCardID(paramName, chi.URLParam(r, paramName))
}

// decodeAndValidate decodes the JSON body into v and validates it. Failures
// are returned as validation errors ready for HandleAPIError.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			return &service.Error{
				Kind:    service.KindValidation,
				Code:    service.CodeRequiredField,
				Message: "Request body must be provided",
				Err:     err,
			}
		}
		return &service.Error{
			Kind:    service.KindValidation,
			Code:    service.CodeInvalidValue,
			Message: "Request body is not valid JSON",
			Err:     err,
		}
	}
	if err := shared.ValidateRequest(v); err != nil {
		return SanitizeValidationError(err)
	}
	return nil
}
