package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/internal/store/sqlite"
	"github.com/nokan/nokan/pkg/nokan"
)

// TicketService handles ticket business logic.
type TicketService struct {
	boards      *sqlite.BoardRepository
	tickets     *sqlite.TicketRepository
	comments    *sqlite.CommentRepository
	attachments *sqlite.AttachmentRepository
	now         func() time.Time
}

// NewTicketService creates a new TicketService.
func NewTicketService(db *sql.DB) *TicketService {
	return &TicketService{
		boards:      sqlite.NewBoardRepository(db),
		tickets:     sqlite.NewTicketRepository(db),
		comments:    sqlite.NewCommentRepository(db),
		attachments: sqlite.NewAttachmentRepository(db),
		now:         time.Now,
	}
}

// CreateTicketInput contains the input for creating a ticket.
type CreateTicketInput struct {
	Title       string
	ColumnID    string
	Description *string
	Priority    *string
	StatusID    *string
}

// Create creates a ticket. Column, status and priority must belong to the
// board; the priority defaults to "medium".
func (s *TicketService) Create(ctx context.Context, boardID string, input CreateTicketInput) (*nokan.Ticket, error) {
	priority := domain.DefaultPriority
	if input.Priority != nil {
		priority = *input.Priority
	}

	if err := s.checkColumn(ctx, boardID, input.ColumnID); err != nil {
		return nil, err
	}
	if err := s.checkPriority(ctx, boardID, priority); err != nil {
		return nil, err
	}
	if input.StatusID != nil {
		if err := s.checkStatus(ctx, boardID, *input.StatusID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	ticket := &nokan.Ticket{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Priority:    priority,
		ColumnID:    input.ColumnID,
		StatusID:    input.StatusID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tickets.Create(ctx, boardID, ticket); err != nil {
		return nil, domain.NewInternalError(err)
	}

	return s.get(ctx, boardID, ticket.ID)
}

// Get retrieves a ticket with its comments and attachments.
func (s *TicketService) Get(ctx context.Context, boardID, id string) (*nokan.TicketDetail, error) {
	ticket, err := s.get(ctx, boardID, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTicket(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	attachments, err := s.attachments.ListByTicket(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	return &nokan.TicketDetail{
		Ticket:      *ticket,
		Comments:    comments,
		Attachments: attachments,
	}, nil
}

// ListTicketsInput contains the input for listing tickets.
type ListTicketsInput struct {
	Filter domain.TicketFilter
	Page   int
	Limit  int
}

// List retrieves one page of tickets and the total match count.
func (s *TicketService) List(ctx context.Context, boardID string, input ListTicketsInput) ([]nokan.Ticket, int, error) {
	tickets, total, err := s.tickets.List(ctx, boardID, input.Filter, input.Page, input.Limit)
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	return tickets, total, nil
}

// Update applies a partial update. An empty status ID clears the status.
func (s *TicketService) Update(ctx context.Context, boardID, id string, patch domain.TicketPatch) (*nokan.Ticket, error) {
	ticket, err := s.get(ctx, boardID, id)
	if err != nil {
		return nil, err
	}

	if patch.ColumnID != nil {
		if err := s.checkColumn(ctx, boardID, *patch.ColumnID); err != nil {
			return nil, err
		}
	}
	if patch.StatusID != nil && *patch.StatusID != "" {
		if err := s.checkStatus(ctx, boardID, *patch.StatusID); err != nil {
			return nil, err
		}
	}
	if patch.Priority != nil {
		if err := s.checkPriority(ctx, boardID, *patch.Priority); err != nil {
			return nil, err
		}
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}

	patch.Apply(ticket, s.now().UTC())

	if err := s.tickets.Update(ctx, boardID, ticket); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("Ticket", id)
		}
		return nil, domain.NewInternalError(err)
	}

	return s.get(ctx, boardID, id)
}

// Delete deletes a ticket with its comments and attachments.
func (s *TicketService) Delete(ctx context.Context, boardID, id string) error {
	if err := s.tickets.Delete(ctx, boardID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFoundError("Ticket", id)
		}
		return domain.NewInternalError(err)
	}
	return nil
}

// Exists reports a not found error when the ticket is not on the board.
func (s *TicketService) Exists(ctx context.Context, boardID, id string) error {
	_, err := s.get(ctx, boardID, id)
	return err
}

func (s *TicketService) get(ctx context.Context, boardID, id string) (*nokan.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, boardID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("Ticket", id)
		}
		return nil, domain.NewInternalError(err)
	}
	return ticket, nil
}

func (s *TicketService) checkColumn(ctx context.Context, boardID, columnID string) error {
	ok, err := s.boards.HasColumn(ctx, boardID, columnID)
	if err != nil {
		return domain.NewInternalError(err)
	}
	if !ok {
		return domain.NewValidationError("column_id", "Column not found on this board")
	}
	return nil
}

func (s *TicketService) checkStatus(ctx context.Context, boardID, statusID string) error {
	ok, err := s.boards.HasStatus(ctx, boardID, statusID)
	if err != nil {
		return domain.NewInternalError(err)
	}
	if !ok {
		return domain.NewValidationError("status_id", "Status not found on this board")
	}
	return nil
}

func (s *TicketService) checkPriority(ctx context.Context, boardID, priority string) error {
	ok, err := s.boards.HasPriority(ctx, boardID, priority)
	if err != nil {
		return domain.NewInternalError(err)
	}
	if !ok {
		return domain.NewValidationError("priority", "Priority is not configured on this board")
	}
	return nil
}
