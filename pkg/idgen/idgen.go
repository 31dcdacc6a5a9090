// Package idgen generates API tokens for the sandbox server.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// TokenPrefix starts every generated token.
	TokenPrefix = "nkn_live_"
	// TokenHexLength is the number of hex characters after the prefix.
	TokenHexLength = 32
	// LookupPrefixLength is how many leading characters are stored in clear
	// to find a token's hash.
	LookupPrefixLength = 12
)

// GenerateToken creates a new token in the format "nkn_live_<32 hex>".
func GenerateToken() (string, error) {
	bytes := make([]byte, TokenHexLength/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return TokenPrefix + hex.EncodeToString(bytes), nil
}

// MustGenerateToken creates a new token, panicking on error.
func MustGenerateToken() string {
	token, err := GenerateToken()
	if err != nil {
		panic(err)
	}
	return token
}

// LookupPrefix returns the stored lookup prefix of token, or "" when the
// token is not well formed.
func LookupPrefix(token string) string {
	if !IsWellFormed(token) {
		return ""
	}
	return token[:LookupPrefixLength]
}

// IsWellFormed reports whether token has the generated shape.
func IsWellFormed(token string) bool {
	rest, ok := strings.CutPrefix(token, TokenPrefix)
	if !ok || len(rest) != TokenHexLength {
		return false
	}
	_, err := hex.DecodeString(rest)
	return err == nil && strings.ToLower(rest) == rest
}
