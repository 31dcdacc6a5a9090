package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/internal/store/sqlite"
	"github.com/nokan/nokan/pkg/nokan"
)

// AttachmentService handles ticket attachments.
type AttachmentService struct {
	tickets     *TicketService
	attachments *sqlite.AttachmentRepository
	now         func() time.Time
}

// NewAttachmentService creates a new AttachmentService.
func NewAttachmentService(tickets *TicketService, attachments *sqlite.AttachmentRepository) *AttachmentService {
	return &AttachmentService{tickets: tickets, attachments: attachments, now: time.Now}
}

// AddAttachmentInput contains an uploaded file.
type AddAttachmentInput struct {
	FileName string
	MimeType string
	Content  []byte
}

// Add stores an uploaded file on a ticket.
func (s *AttachmentService) Add(ctx context.Context, boardID, ticketID string, input AddAttachmentInput) (*nokan.Attachment, error) {
	if int64(len(input.Content)) > domain.MaxAttachmentSize {
		return nil, domain.NewPayloadTooLargeError(domain.MaxAttachmentSize)
	}
	if err := s.tickets.Exists(ctx, boardID, ticketID); err != nil {
		return nil, err
	}

	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	attachment := &nokan.Attachment{
		ID:        uuid.NewString(),
		FileName:  input.FileName,
		MimeType:  mimeType,
		CreatedAt: s.now().UTC(),
	}
	if err := s.attachments.Create(ctx, ticketID, attachment, input.Content); err != nil {
		return nil, domain.NewInternalError(err)
	}

	return attachment, nil
}

// List lists the attachments on a ticket, oldest first.
func (s *AttachmentService) List(ctx context.Context, boardID, ticketID string) ([]nokan.Attachment, error) {
	if err := s.tickets.Exists(ctx, boardID, ticketID); err != nil {
		return nil, err
	}

	attachments, err := s.attachments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return attachments, nil
}
