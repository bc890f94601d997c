package middleware

import (
	"net/http"
)

// DefaultMaxRequestSize is the default maximum request body size (1MB)
const DefaultMaxRequestSize int64 = 1 << 20

// MaxRequestSize rejects bodies larger than maxBytes
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				respondErrorJSON(w, r, http.StatusRequestEntityTooLarge, "Request Entity Too Large", "request body exceeds maximum size", nil)
				return
			}

			// Bodies without a Content-Length are cut off while the handler reads them
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}
