// Package errhttp maps domain sentinel errors to HTTP status codes and the
// caller-facing message. Add a case to mapError for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/ghuser/inventory/pkg/httpx"
	"github.com/ghuser/inventory/services/inventory/domain"
)

var exposeInternal atomic.Bool

// ExposeInternalErrors controls whether 500 responses carry the underlying
// error text. Enable it in development only.
func ExposeInternalErrors(enabled bool) {
	exposeInternal.Store(enabled)
}

// WriteError maps err to an HTTP status code and writes {"message": ...}.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Unrecognized errors become 500; their text is hidden unless
// ExposeInternalErrors(true) was called.
func WriteError(w http.ResponseWriter, err error) {
	status, msg := mapError(err)
	httpx.JSONError(w, status, msg)
}

// IsClientError reports whether err maps to a 4xx response. Such errors are
// expected outcomes and are not reported to Sentry.
func IsClientError(err error) bool {
	status, _ := mapError(err)
	return status < http.StatusInternalServerError
}

func mapError(err error) (int, string) {
	var invalid *domain.InvalidItemsError
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, "Item not found" // 404
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrNoItems):
		return http.StatusNotFound, "No items found"
	case errors.Is(err, domain.ErrNoUsers):
		return http.StatusNotFound, "No users found"
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Message() // 400
	case errors.Is(err, domain.ErrMissingRequiredFields):
		return http.StatusBadRequest, "Missing required fields"
	case errors.Is(err, domain.ErrIDImmutable):
		return http.StatusBadRequest, "ID cannot be changed"
	case errors.Is(err, domain.ErrMalformedField):
		return http.StatusBadRequest, "Invalid JSON"
	case errors.Is(err, domain.ErrItemAlreadyExists):
		return http.StatusConflict, "Item already exists" // 409
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusConflict, "User already exists"
	default:
		return http.StatusInternalServerError, httpx.SafeError(err, http.StatusInternalServerError, !exposeInternal.Load()) // 500
	}
}
