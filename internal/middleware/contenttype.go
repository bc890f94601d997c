package middleware

import (
	"net/http"
	"strings"
)

// ContentType requires a JSON Content-Type on POST, PATCH and PUT requests that carry a body.
// Bodyless posts such as /api/composer/save pass through.
func ContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if (r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut) && r.ContentLength != 0 {
			contentType := r.Header.Get("Content-Type")
			if contentType == "" {
				respondErrorJSON(w, r, http.StatusBadRequest, "Bad Request", "Content-Type header is required", nil)
				return
			}
			if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
				respondErrorJSON(w, r, http.StatusUnsupportedMediaType, "Unsupported Media Type", "Content-Type must be application/json", nil)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
