package request

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/nokan/nokan/internal/domain"
)

// CreateTicketRequest represents a request to create a ticket.
type CreateTicketRequest struct {
	Title       string  `json:"title"`
	ColumnID    string  `json:"column_id"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	StatusID    *string `json:"status_id,omitempty"`
}

// Validate validates the create ticket request.
func (r *CreateTicketRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return domain.NewValidationError("title", "Title is required")
	}
	if strings.TrimSpace(r.ColumnID) == "" {
		return domain.NewValidationError("column_id", "column_id is required")
	}
	if r.Priority != nil && strings.TrimSpace(*r.Priority) == "" {
		return domain.NewValidationError("priority", "priority cannot be empty")
	}
	return nil
}

// UpdateTicketRequest represents a partial ticket update. A status_id of ""
// clears the status.
type UpdateTicketRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	ColumnID    *string `json:"column_id,omitempty"`
	StatusID    *string `json:"status_id,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Validate validates the update ticket request.
func (r *UpdateTicketRequest) Validate() error {
	if r.Title == nil && r.Description == nil && r.Priority == nil &&
		r.ColumnID == nil && r.StatusID == nil && r.Completed == nil {
		return domain.NewValidationError("", "At least one field must be provided")
	}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return domain.NewValidationError("title", "Title cannot be empty")
	}
	if r.ColumnID != nil && strings.TrimSpace(*r.ColumnID) == "" {
		return domain.NewValidationError("column_id", "column_id cannot be empty")
	}
	if r.Priority != nil && strings.TrimSpace(*r.Priority) == "" {
		return domain.NewValidationError("priority", "priority cannot be empty")
	}
	return nil
}

// Patch converts the request into a domain patch.
func (r *UpdateTicketRequest) Patch() domain.TicketPatch {
	return domain.TicketPatch{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		ColumnID:    r.ColumnID,
		StatusID:    r.StatusID,
		Completed:   r.Completed,
	}
}

// CreateCommentRequest represents a request to add a comment.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// Validate validates the comment request.
func (r *CreateCommentRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return domain.NewValidationError("content", "Content is required")
	}
	return nil
}

// DecodeJSON decodes JSON from request body into the given value.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// Pagination contains pagination parameters.
type Pagination struct {
	Page  int
	Limit int
}

// DefaultPage is the default page number.
const DefaultPage = 1

// DefaultLimit is the default items per page.
const DefaultLimit = 20

// MaxLimit is the maximum items per page.
const MaxLimit = 100

// ParsePagination extracts pagination from query parameters. Malformed
// values fall back to the defaults.
func ParsePagination(r *http.Request) Pagination {
	page := DefaultPage
	limit := DefaultLimit

	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Pagination{Page: page, Limit: limit}
}

// ParseTicketFilter extracts the column_id, status_id and completed filters.
func ParseTicketFilter(r *http.Request) (domain.TicketFilter, error) {
	var filter domain.TicketFilter
	q := r.URL.Query()

	if v := q.Get("column_id"); v != "" {
		filter.ColumnID = &v
	}
	if v := q.Get("status_id"); v != "" {
		filter.StatusID = &v
	}
	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return filter, domain.NewValidationError("completed", "completed must be true or false")
		}
		filter.Completed = &completed
	}

	return filter, nil
}
