package auth

import (
	"net/http"
	"strings"

	"github.com/fatali-fataliyev/expense_tracker/logging"
)

// Middleware rejects requests whose Authorization header does not match hashedKey.
// An empty hashedKey disables the check.
func Middleware(hashedKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if hashedKey == "" {
			logging.Logger.Warn("API_KEY_HASH is empty, item endpoints are not protected")
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
			if key == "" {
				http.Error(w, "authorization failed: Authorization header is required.", http.StatusUnauthorized)
				return
			}
			if !CompareAPIKey(hashedKey, key) {
				http.Error(w, "authorization failed: invalid api key.", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
