package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/internal/store/sqlite"
	"github.com/nokan/nokan/pkg/idgen"
	"github.com/nokan/nokan/pkg/nokan"
)

// DefaultBoardTitle is the title of the seeded demo board.
const DefaultBoardTitle = "Sandbox"

// SeedOptions configures Seed. Zero values select the defaults.
type SeedOptions struct {
	BoardTitle string
	// BcryptCost is the hashing cost for the seeded tokens.
	BcryptCost int
	Now        func() time.Time
}

// IssuedToken is a token in clear, shown once when it is created.
type IssuedToken struct {
	ID          string
	Name        string
	Token       string
	Permissions nokan.Permissions
}

// SeedResult describes the seeded board.
type SeedResult struct {
	BoardID string
	Tokens  []IssuedToken
}

// Seed creates a demo board with three columns, three statuses, the four
// default priorities and three tokens: read-only, read-write and full access.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) (*SeedResult, error) {
	if opts.BoardTitle == "" {
		opts.BoardTitle = DefaultBoardTitle
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	now := opts.Now().UTC()

	board := &nokan.Board{
		ID:    uuid.NewString(),
		Title: opts.BoardTitle,
		Columns: []nokan.Column{
			{ID: uuid.NewString(), Title: "To Do", Order: 0},
			{ID: uuid.NewString(), Title: "In Progress", Order: 1},
			{ID: uuid.NewString(), Title: "Done", Order: 2},
		},
		Statuses: []nokan.Status{
			{ID: uuid.NewString(), Label: "Blocked", Color: "#ef4444"},
			{ID: uuid.NewString(), Label: "In Review", Color: "#f59e0b"},
			{ID: uuid.NewString(), Label: "Ready", Color: "#22c55e"},
		},
		Priorities: []nokan.Priority{
			{ID: "low", Label: "Low", Color: "#94a3b8"},
			{ID: domain.DefaultPriority, Label: "Medium", Color: "#3b82f6"},
			{ID: "high", Label: "High", Color: "#f97316"},
			{ID: "urgent", Label: "Urgent", Color: "#dc2626"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := sqlite.NewBoardRepository(db).Create(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to seed board: %w", err)
	}

	result := &SeedResult{BoardID: board.ID}
	grants := []struct {
		name  string
		perms nokan.Permissions
	}{
		{"read-only", nokan.Permissions{Read: true}},
		{"read-write", nokan.Permissions{Read: true, Write: true}},
		{"full-access", nokan.Permissions{Read: true, Write: true, Delete: true}},
	}
	for _, g := range grants {
		issued, err := IssueToken(ctx, db, board.ID, g.name, g.perms, opts.BcryptCost, now)
		if err != nil {
			return nil, err
		}
		result.Tokens = append(result.Tokens, *issued)
	}

	return result, nil
}

// IssueToken generates a token for a board and stores its prefix and bcrypt
// hash. The clear token is only returned here.
func IssueToken(ctx context.Context, db *sql.DB, boardID, name string, perms nokan.Permissions, cost int, now time.Time) (*IssuedToken, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	token, err := idgen.GenerateToken()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash token: %w", err)
	}

	record := &domain.Token{
		ID:          uuid.NewString(),
		BoardID:     boardID,
		Name:        name,
		Prefix:      idgen.LookupPrefix(token),
		Hash:        hash,
		Permissions: perms,
		CreatedAt:   now,
	}
	if err := sqlite.NewTokenRepository(db).Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store token %s: %w", name, err)
	}

	return &IssuedToken{ID: record.ID, Name: name, Token: token, Permissions: perms}, nil
}
