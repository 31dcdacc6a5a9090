package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/internal/store/sqlite"
	"github.com/nokan/nokan/pkg/idgen"
)

// AuthService verifies bearer tokens.
type AuthService struct {
	tokens *sqlite.TokenRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(tokens *sqlite.TokenRepository, logger *slog.Logger) *AuthService {
	return &AuthService{tokens: tokens, logger: logger, now: time.Now}
}

// Authenticate resolves a clear token to its stored record. Every failure
// is reported as the same authentication error.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*domain.Token, error) {
	if !idgen.IsWellFormed(raw) {
		return nil, domain.NewUnauthorizedError("Invalid API token")
	}

	candidates, err := s.tokens.ListByPrefix(ctx, idgen.LookupPrefix(raw))
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	for _, token := range candidates {
		if bcrypt.CompareHashAndPassword(token.Hash, []byte(raw)) != nil {
			continue
		}
		if err := s.tokens.TouchLastUsed(ctx, token.ID, s.now().UTC()); err != nil {
			s.logger.Warn("failed to record token use", "token_id", token.ID, "error", err)
		}
		return token, nil
	}

	return nil, domain.NewUnauthorizedError("Invalid API token")
}
