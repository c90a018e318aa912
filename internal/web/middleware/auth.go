package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// InitKeyGate returns middleware that admits a request only when it presents
// the shared initialization key, as the key query parameter or the
// X-Init-Key header. Everything else gets 403 with no detail.
// If key is empty, every request is rejected.
func InitKeyGate(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.URL.Query().Get("key")
			if provided == "" {
				provided = r.Header.Get("X-Init-Key")
			}

			if !isValidInitKey(provided, key) {
				slog.Warn("auth: rejected admin request",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
					"key_present", provided != "",
				)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isValidInitKey compares in constant time. An unset key never matches.
func isValidInitKey(provided, key string) bool {
	if key == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(key)) == 1
}
