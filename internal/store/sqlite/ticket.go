package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/pkg/nokan"
)

// ticketSelect returns tickets with their column and status summaries.
const ticketSelect = `
	SELECT t.id, t.title, t.description, t.priority, t.column_id, t.status_id, t.completed,
	       t.created_at, t.updated_at, c.title, s.label, s.color
	FROM tickets t
	JOIN board_columns c ON c.id = t.column_id
	LEFT JOIN board_statuses s ON s.id = t.status_id
`

// TicketRepository handles ticket persistence operations. Every query is
// scoped to a board.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new TicketRepository.
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create creates a new ticket on the board.
func (r *TicketRepository) Create(ctx context.Context, boardID string, ticket *nokan.Ticket) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tickets (id, board_id, column_id, status_id, title, description, priority, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ticket.ID,
		boardID,
		ticket.ColumnID,
		nullString(ticket.StatusID),
		ticket.Title,
		nullString(ticket.Description),
		ticket.Priority,
		ticket.Completed,
		formatTime(ticket.CreatedAt),
		formatTime(ticket.UpdatedAt),
	)
	return err
}

// GetByID retrieves a ticket by its ID. Returns sql.ErrNoRows when the
// ticket does not exist on the board.
func (r *TicketRepository) GetByID(ctx context.Context, boardID, id string) (*nokan.Ticket, error) {
	row := r.db.QueryRowContext(ctx, ticketSelect+` WHERE t.board_id = ? AND t.id = ?`, boardID, id)
	return scanTicket(row)
}

// List retrieves one page of tickets matching the filter, oldest first, and
// the total number of matches.
func (r *TicketRepository) List(ctx context.Context, boardID string, filter domain.TicketFilter, page, limit int) ([]nokan.Ticket, int, error) {
	offset := (page - 1) * limit

	conditions := []string{"t.board_id = ?"}
	args := []any{boardID}
	if filter.ColumnID != nil {
		conditions = append(conditions, "t.column_id = ?")
		args = append(args, *filter.ColumnID)
	}
	if filter.StatusID != nil {
		conditions = append(conditions, "t.status_id = ?")
		args = append(args, *filter.StatusID)
	}
	if filter.Completed != nil {
		conditions = append(conditions, "t.completed = ?")
		args = append(args, *filter.Completed)
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	// Count total
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets t`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Fetch page
	query := ticketSelect + where + ` ORDER BY t.created_at ASC, t.id ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tickets := []nokan.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, *ticket)
	}

	return tickets, total, rows.Err()
}

// Update writes every mutable field of the ticket.
func (r *TicketRepository) Update(ctx context.Context, boardID string, ticket *nokan.Ticket) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tickets
		SET column_id = ?, status_id = ?, title = ?, description = ?, priority = ?, completed = ?, updated_at = ?
		WHERE board_id = ? AND id = ?
	`,
		ticket.ColumnID,
		nullString(ticket.StatusID),
		ticket.Title,
		nullString(ticket.Description),
		ticket.Priority,
		ticket.Completed,
		formatTime(ticket.UpdatedAt),
		boardID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// Delete deletes a ticket with its comments and attachments.
func (r *TicketRepository) Delete(ctx context.Context, boardID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE board_id = ? AND id = ?`, boardID, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func scanTicket(s scanner) (*nokan.Ticket, error) {
	var ticket nokan.Ticket
	var description, statusID, statusLabel, statusColor sql.NullString
	var columnTitle string
	var createdAt, updatedAt string

	err := s.Scan(
		&ticket.ID,
		&ticket.Title,
		&description,
		&ticket.Priority,
		&ticket.ColumnID,
		&statusID,
		&ticket.Completed,
		&createdAt,
		&updatedAt,
		&columnTitle,
		&statusLabel,
		&statusColor,
	)
	if err != nil {
		return nil, err
	}

	ticket.Description = stringPtr(description)
	ticket.StatusID = stringPtr(statusID)
	ticket.CreatedAt = parseTime(createdAt)
	ticket.UpdatedAt = parseTime(updatedAt)
	ticket.Column = &nokan.ColumnSummary{ID: ticket.ColumnID, Title: columnTitle}
	if statusID.Valid {
		ticket.Status = &nokan.StatusSummary{
			ID:    statusID.String,
			Label: statusLabel.String,
			Color: statusColor.String,
		}
	}

	return &ticket, nil
}
