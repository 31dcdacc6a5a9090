package domain

import (
	"time"

	"github.com/nokan/nokan/pkg/nokan"
)

// DefaultPriority is applied when a ticket is created without one.
const DefaultPriority = "medium"

// MaxAttachmentSize caps a single upload.
const MaxAttachmentSize int64 = 10 << 20

// TicketFilter narrows a ticket listing. Nil fields are not applied.
type TicketFilter struct {
	ColumnID  *string
	StatusID  *string
	Completed *bool
}

// TicketPatch is a partial ticket update. Nil fields are left unchanged.
type TicketPatch struct {
	Title       *string
	Description *string
	Priority    *string
	ColumnID    *string
	StatusID    *string
	Completed   *bool
}

// Apply copies the set fields onto t and bumps UpdatedAt.
func (p TicketPatch) Apply(t *nokan.Ticket, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ColumnID != nil {
		t.ColumnID = *p.ColumnID
	}
	if p.StatusID != nil {
		if *p.StatusID == "" {
			t.StatusID = nil
		} else {
			t.StatusID = p.StatusID
		}
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = now
}

// TotalPages returns the page count for total items at limit per page.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	return pages
}
