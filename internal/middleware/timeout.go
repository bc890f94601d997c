package middleware

import (
	"net/http"
	"time"
)

// DefaultRequestTimeout is the default request timeout
const DefaultRequestTimeout = 30 * time.Second

const timeoutBody = `{"success":false,"error":"Service Unavailable","message":"request timed out"}`

// Timeout cancels the request context after timeout and answers 503 if the handler has not written yet
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, timeoutBody)
	}
}
