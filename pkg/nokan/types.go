package nokan

import "time"

// Permission names one of the three capability flags granted to an API token.
type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionWrite  Permission = "write"
	PermissionDelete Permission = "delete"
)

// Permissions is the permission triple reported by the board discovery call.
type Permissions struct {
	Read   bool `json:"read"`
	Write  bool `json:"write"`
	Delete bool `json:"delete"`
}

// Allows reports whether the given permission flag is set.
func (p Permissions) Allows(permission Permission) bool {
	switch permission {
	case PermissionRead:
		return p.Read
	case PermissionWrite:
		return p.Write
	case PermissionDelete:
		return p.Delete
	default:
		return false
	}
}

// Column is a board column. Order is the column's position, lowest first.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// Status is a board-defined ticket status.
type Status struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Priority is a board-defined priority. The set is configured per board, so
// tickets carry the priority ID as a plain string.
type Priority struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Board is the top-level container of columns, statuses, priorities and tickets.
type Board struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Columns     []Column    `json:"columns"`
	Statuses    []Status    `json:"statuses"`
	Priorities  []Priority  `json:"priorities,omitempty"`
	Permissions Permissions `json:"permissions"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Column returns the column with the given ID.
func (b *Board) Column(id string) (Column, bool) {
	for _, col := range b.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column{}, false
}

// Status returns the status with the given ID.
func (b *Board) Status(id string) (Status, bool) {
	for _, s := range b.Statuses {
		if s.ID == id {
			return s, true
		}
	}
	return Status{}, false
}

// Priority returns the priority with the given ID.
func (b *Board) Priority(id string) (Priority, bool) {
	for _, p := range b.Priorities {
		if p.ID == id {
			return p, true
		}
	}
	return Priority{}, false
}

// ColumnSummary is the column embedded in a ticket response.
type ColumnSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// StatusSummary is the status embedded in a ticket response.
type StatusSummary struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Ticket is a unit of work on a board.
type Ticket struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Priority    string         `json:"priority"`
	ColumnID    string         `json:"column_id"`
	StatusID    *string        `json:"status_id"`
	Completed   bool           `json:"completed"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Column      *ColumnSummary `json:"column,omitempty"`
	Status      *StatusSummary `json:"status,omitempty"`
}

// TicketDetail is a ticket with its comments and attachments.
type TicketDetail struct {
	Ticket
	Comments    []Comment    `json:"comments,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Comment is a comment on a ticket.
type Comment struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	AuthorName *string   `json:"author_name,omitempty"`
}

// Attachment is a file attached to a ticket. FileSize is in bytes.
type Attachment struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	FileSize  int64     `json:"file_size"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

// Pagination is the pagination block of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// RateLimitMeta reports the caller's remaining request budget.
type RateLimitMeta struct {
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Meta is the optional metadata block of the response envelope.
type Meta struct {
	Pagination *Pagination    `json:"pagination,omitempty"`
	RateLimit  *RateLimitMeta `json:"rate_limit,omitempty"`
}

// TicketList is a page of tickets, returned as received from the server.
type TicketList struct {
	Data []Ticket `json:"data"`
	Meta Meta     `json:"meta"`
}

// ConnectResult summarizes the board discovered by Connect.
type ConnectResult struct {
	BoardID     string      `json:"board_id"`
	Title       string      `json:"title"`
	Permissions Permissions `json:"permissions"`
	Columns     []Column    `json:"columns"`
	Statuses    []Status    `json:"statuses"`
	Priorities  []Priority  `json:"priorities,omitempty"`
}

// CreateTicketInput is the body of a create call. Title and ColumnID are
// required; the server applies its default priority when Priority is nil.
type CreateTicketInput struct {
	Title       string  `json:"title"`
	ColumnID    string  `json:"column_id"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	StatusID    *string `json:"status_id,omitempty"`
}

// UpdateTicketInput is a partial update: only non-nil fields are sent.
type UpdateTicketInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	ColumnID    *string `json:"column_id,omitempty"`
	StatusID    *string `json:"status_id,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether no field is set.
func (in UpdateTicketInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.Priority == nil &&
		in.ColumnID == nil && in.StatusID == nil && in.Completed == nil
}

// CreateCommentInput is the body of an add-comment call.
type CreateCommentInput struct {
	Content string `json:"content"`
}

// envelope is the {data, meta} wrapper around every successful response.
type envelope[T any] struct {
	Data T     `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// apiErrorBody is the JSON body of a non-2xx response.
type apiErrorBody struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Field      string `json:"field,omitempty"`
	Permission string `json:"permission,omitempty"`
}

// String returns a pointer to s, for the optional fields of the input types.
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
