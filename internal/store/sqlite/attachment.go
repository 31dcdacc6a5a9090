package sqlite

import (
	"context"
	"database/sql"

	"github.com/nokan/nokan/pkg/nokan"
)

// AttachmentRepository handles attachment persistence operations. File
// content is stored inline.
type AttachmentRepository struct {
	db *sql.DB
}

// NewAttachmentRepository creates a new AttachmentRepository.
func NewAttachmentRepository(db *sql.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Create stores an attachment and its content. FileSize is taken from
// content.
func (r *AttachmentRepository) Create(ctx context.Context, ticketID string, a *nokan.Attachment, content []byte) error {
	a.FileSize = int64(len(content))
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attachments (id, ticket_id, file_name, file_size, mime_type, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, ticketID, a.FileName, a.FileSize, a.MimeType, content, formatTime(a.CreatedAt))
	return err
}

// ListByTicket returns attachment metadata for a ticket, oldest first.
func (r *AttachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]nokan.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, file_name, file_size, mime_type, created_at
		FROM attachments WHERE ticket_id = ?
		ORDER BY created_at ASC, id ASC
	`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attachments := []nokan.Attachment{}
	for rows.Next() {
		var a nokan.Attachment
		var createdAt string
		if err := rows.Scan(&a.ID, &a.FileName, &a.FileSize, &a.MimeType, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt = parseTime(createdAt)
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}
