package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nokan/nokan/internal/api/response"
	"github.com/nokan/nokan/internal/domain"
)

type contextKey string

// TokenKey is the context key for the authenticated token.
const TokenKey contextKey = "token"

// Authenticator resolves a clear bearer token to its stored record.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*domain.Token, error)
}

// Auth middleware requires a valid bearer token and stores it in the context.
func Auth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				response.Error(w, domain.NewUnauthorizedError("Missing bearer token"))
				return
			}

			token, err := auth.Authenticate(r.Context(), raw)
			if err != nil {
				response.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetToken retrieves the authenticated token from context.
func GetToken(ctx context.Context) *domain.Token {
	if token, ok := ctx.Value(TokenKey).(*domain.Token); ok {
		return token
	}
	return nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
