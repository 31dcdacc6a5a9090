package domain

import (
	"time"

	"github.com/nokan/nokan/pkg/nokan"
)

// Token is a stored API token. The clear token is never persisted: Prefix is
// used to find candidates and Hash to verify them.
type Token struct {
	ID          string
	BoardID     string
	Name        string
	Prefix      string
	Hash        []byte
	Permissions nokan.Permissions
	CreatedAt   time.Time
	LastUsedAt  *time.Time
}

// Allows reports whether the token carries the given permission.
func (t *Token) Allows(permission nokan.Permission) bool {
	return t.Permissions.Allows(permission)
}

// AuthorName is the author recorded on comments made with this token.
func (t *Token) AuthorName() string {
	return "API: " + t.Name
}
