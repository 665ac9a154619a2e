package api

import (
	"errors"
	"net/http"

	"paasd/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
// Storage failures are distinguished from client errors: a timed-out
// authorization query is 504, never 404 or an empty 200.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var accessDenied *domain.AccessDeniedError
	var validation *domain.ValidationError
	var conflict *domain.ConflictError
	var unavailable *domain.StorageUnavailableError
	var timeout *domain.StorageTimeoutError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &accessDenied):
		return http.StatusForbidden
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
