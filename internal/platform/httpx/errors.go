// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/notkisk/policeplus-api/internal/shared"
)

// StatusFor maps a domain error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrNotAuthorizedOfficer), errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrConflict), errors.Is(err, shared.ErrDuplicateRequest):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError maps domain errors to HTTP responses using RFC7807.
// Server-side failures never expose the underlying error text.
func RespondError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	switch status {
	case http.StatusBadRequest:
		Problem(w, status, "Validation Failed", err.Error())
	case http.StatusUnauthorized:
		Problem(w, status, "Unauthorized", publicDetail(err))
	case http.StatusForbidden:
		Problem(w, status, "Forbidden", publicDetail(err))
	case http.StatusNotFound:
		Problem(w, status, "Not Found", publicDetail(err))
	case http.StatusConflict:
		Problem(w, status, "Conflict", publicDetail(err))
	default:
		if errors.Is(err, shared.ErrUpstreamUnavailable) {
			Problem(w, status, "Upstream Unavailable", "insurance data is currently unavailable")
			return
		}
		Problem(w, status, "Internal Error", "")
	}
}

// publicDetail returns the sentinel message for err, dropping any wrapped context.
func publicDetail(err error) string {
	for _, sentinel := range []error{
		shared.ErrInvalidCredentials,
		shared.ErrUnauthorized,
		shared.ErrNotAuthorizedOfficer,
		shared.ErrForbidden,
		shared.ErrNotFound,
		shared.ErrConflict,
		shared.ErrDuplicateRequest,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return ""
}
