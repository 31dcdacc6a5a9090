package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/internal/store/sqlite"
	"github.com/nokan/nokan/pkg/nokan"
)

// CommentService handles ticket comments.
type CommentService struct {
	tickets  *TicketService
	comments *sqlite.CommentRepository
	now      func() time.Time
}

// NewCommentService creates a new CommentService.
func NewCommentService(tickets *TicketService, comments *sqlite.CommentRepository) *CommentService {
	return &CommentService{tickets: tickets, comments: comments, now: time.Now}
}

// Add adds a comment authored by the token.
func (s *CommentService) Add(ctx context.Context, token *domain.Token, ticketID, content string) (*nokan.Comment, error) {
	if err := s.tickets.Exists(ctx, token.BoardID, ticketID); err != nil {
		return nil, err
	}

	author := token.AuthorName()
	comment := &nokan.Comment{
		ID:         uuid.NewString(),
		Content:    strings.TrimSpace(content),
		AuthorName: &author,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.comments.Create(ctx, ticketID, comment); err != nil {
		return nil, domain.NewInternalError(err)
	}

	return comment, nil
}

// List lists the comments on a ticket, oldest first.
func (s *CommentService) List(ctx context.Context, boardID, ticketID string) ([]nokan.Comment, error) {
	if err := s.tickets.Exists(ctx, boardID, ticketID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return comments, nil
}
