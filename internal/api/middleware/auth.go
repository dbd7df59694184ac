// Package middleware holds the router middleware: admin authentication and
// request metrics.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/krish-ktm/clinic-booking-service/internal/api/handlers"
)

// AdminKeyHeader carries the administration API key.
const AdminKeyHeader = "X-Admin-Key"

// AdminAuth guards the administration routes with a shared API key. An empty
// configured key disables the admin surface entirely.
func AdminAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				handlers.RespondError(w, http.StatusForbidden, "administration API is disabled")
				return
			}
			provided := r.Header.Get(AdminKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				handlers.RespondError(w, http.StatusUnauthorized, "invalid or missing admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
