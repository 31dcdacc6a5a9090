package middleware

import (
	"net/http"

	"github.com/nokan/nokan/internal/api/response"
	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/pkg/nokan"
)

// RequirePermission rejects requests whose token lacks the permission.
// It must run after Auth.
func RequirePermission(permission nokan.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := GetToken(r.Context())
			if token == nil {
				response.Error(w, domain.NewUnauthorizedError("Missing bearer token"))
				return
			}
			if !token.Allows(permission) {
				response.Error(w, domain.NewPermissionDeniedError(permission))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
