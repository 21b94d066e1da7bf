// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/oraclegate/pkg/auth"
	"github.com/ghuser/oraclegate/pkg/httpx"
	commoditydomain "github.com/ghuser/oraclegate/services/commodity/domain"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, mapErrorToStatus(err), err.Error())
}

// WriteSafeError is WriteError with 5xx messages masked in production.
func WriteSafeError(w http.ResponseWriter, err error, isProduction bool) {
	status := mapErrorToStatus(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status, isProduction))
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, commoditydomain.ErrDoesNotExist):
		return http.StatusNotFound // 404
	case errors.Is(err, commoditydomain.ErrAlreadyExists),
		errors.Is(err, storage.ErrConflict):
		return http.StatusConflict // 409
	case errors.Is(err, commoditydomain.ErrNotTheOwner),
		errors.Is(err, commoditydomain.ErrOwnerMismatch):
		return http.StatusForbidden // 403
	case errors.Is(err, commoditydomain.ErrInvalidCommodityID),
		errors.Is(err, commoditydomain.ErrInvalidAccountID):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, commoditydomain.ErrUnsigned),
		errors.Is(err, auth.ErrAccountNotFound):
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
