package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/nokan/nokan/internal/domain"
)

// TokenRepository handles API token persistence operations.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create stores a token record. The caller supplies the hash.
func (r *TokenRepository) Create(ctx context.Context, t *domain.Token) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_tokens (id, board_id, name, prefix, hash, can_read, can_write, can_delete, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID,
		t.BoardID,
		t.Name,
		t.Prefix,
		t.Hash,
		t.Permissions.Read,
		t.Permissions.Write,
		t.Permissions.Delete,
		formatTime(t.CreatedAt),
	)
	return err
}

// ListByPrefix returns every token sharing the lookup prefix.
func (r *TokenRepository) ListByPrefix(ctx context.Context, prefix string) ([]*domain.Token, error) {
	return r.list(ctx, `WHERE prefix = ?`, prefix)
}

// ListByBoard returns the tokens of a board, oldest first.
func (r *TokenRepository) ListByBoard(ctx context.Context, boardID string) ([]*domain.Token, error) {
	return r.list(ctx, `WHERE board_id = ?`, boardID)
}

// TouchLastUsed records a successful authentication.
func (r *TokenRepository) TouchLastUsed(ctx context.Context, id string, now time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE api_tokens SET last_used_at = ? WHERE id = ?`, formatTime(now), id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (r *TokenRepository) list(ctx context.Context, where string, args ...any) ([]*domain.Token, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, board_id, name, prefix, hash, can_read, can_write, can_delete, created_at, last_used_at
		FROM api_tokens `+where+` ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []*domain.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func scanToken(s scanner) (*domain.Token, error) {
	var t domain.Token
	var createdAt string
	var lastUsedAt sql.NullString

	err := s.Scan(
		&t.ID,
		&t.BoardID,
		&t.Name,
		&t.Prefix,
		&t.Hash,
		&t.Permissions.Read,
		&t.Permissions.Write,
		&t.Permissions.Delete,
		&createdAt,
		&lastUsedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt = parseTime(createdAt)
	if lastUsedAt.Valid {
		used := parseTime(lastUsedAt.String)
		t.LastUsedAt = &used
	}
	return &t, nil
}
