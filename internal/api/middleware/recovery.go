package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/nokan/nokan/internal/api/response"
	"github.com/nokan/nokan/internal/domain"
)

// Recovery middleware catches panics and returns a 500 error.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"panic", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					response.Error(w, domain.NewInternalError(nil))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
