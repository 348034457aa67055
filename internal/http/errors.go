// internal/http/errors.go
package httpserver

import (
	"errors"
	"net/http"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

// Error writes the JSON error response for an error from the domain
// taxonomy, falling back to Postgres error mapping (and ultimately a 500
// with the fallback message) for anything else.
func Error(w http.ResponseWriter, err error, fallback string) {
	status, msg := statusFor(err, fallback)
	JSON(w, status, map[string]string{"error": msg})
}

func statusFor(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrConfiguration):
		// Broken seat bindings surface as a client-visible 400, matching
		// the "user not associated with a <unit>" responses.
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not found"
	}
	return PGErrorMessage(err, fallback)
}
