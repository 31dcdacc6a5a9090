package sqlite

import (
	"context"
	"database/sql"

	"github.com/nokan/nokan/pkg/nokan"
)

// CommentRepository handles comment persistence operations.
type CommentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create adds a comment to a ticket.
func (r *CommentRepository) Create(ctx context.Context, ticketID string, c *nokan.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, ticket_id, content, author_name, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, ticketID, c.Content, nullString(c.AuthorName), formatTime(c.CreatedAt),
	)
	return err
}

// ListByTicket returns the comments of a ticket, oldest first.
func (r *CommentRepository) ListByTicket(ctx context.Context, ticketID string) ([]nokan.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content, author_name, created_at
		FROM comments WHERE ticket_id = ?
		ORDER BY created_at ASC, id ASC
	`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []nokan.Comment{}
	for rows.Next() {
		var c nokan.Comment
		var author sql.NullString
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Content, &author, &createdAt); err != nil {
			return nil, err
		}
		c.AuthorName = stringPtr(author)
		c.CreatedAt = parseTime(createdAt)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
