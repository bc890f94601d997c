package middleware

import (
	"net/http"

	"go.uber.org/zap"

	logpkg "github.com/benvon/deerdiary/internal/logger"
	"github.com/benvon/deerdiary/internal/request"
)

// Audit logs rejected writes, throttled clients and server failures
func Audit(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			fields := func() []zap.Field {
				return []zap.Field{
					zap.Int("status_code", wrapped.statusCode),
					zap.String("method", r.Method),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("ip", logpkg.SanitizeString(request.ClientIP(r), logpkg.MaxGeneralStringLength)),
				}
			}

			switch {
			case wrapped.statusCode == http.StatusTooManyRequests:
				logger.Warn("rate_limit_violation", fields()...)
			case wrapped.statusCode == http.StatusRequestEntityTooLarge:
				logger.Warn("oversized_request_rejected", fields()...)
			case wrapped.statusCode >= http.StatusInternalServerError:
				logger.Error("server_error_response", fields()...)
			}
		})
	}
}
