package nokan

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const ticketsPath = "/api/public/tickets"

// ListTickets lists tickets on the board. Only the filters that were set are
// sent; the response is returned as received, pagination included.
func (c *Client) ListTickets(ctx context.Context, opts ...ListTicketsOption) (*TicketList, error) {
	if err := c.guard(PermissionRead); err != nil {
		return nil, err
	}

	options := &listTicketsOptions{}
	for _, opt := range opts {
		opt(options)
	}

	path := ticketsPath
	if query := options.encode(); query != "" {
		path = path + "?" + query
	}

	var list TicketList
	if err := c.request(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}

	return &list, nil
}

// encode builds the query string in a stable order: page, limit, column_id,
// status_id, completed.
func (o *listTicketsOptions) encode() string {
	var params []string
	add := func(key, value string) {
		params = append(params, key+"="+url.QueryEscape(value))
	}

	if o.page != nil {
		add("page", strconv.Itoa(*o.page))
	}
	if o.limit != nil {
		add("limit", strconv.Itoa(*o.limit))
	}
	if o.columnID != nil {
		add("column_id", *o.columnID)
	}
	if o.statusID != nil {
		add("status_id", *o.statusID)
	}
	if o.completed != nil {
		add("completed", strconv.FormatBool(*o.completed))
	}

	return strings.Join(params, "&")
}

// GetTicket retrieves a ticket with its comments and attachments.
func (c *Client) GetTicket(ctx context.Context, id string) (*TicketDetail, error) {
	if err := c.guard(PermissionRead); err != nil {
		return nil, err
	}
	if err := requireTicketID(id); err != nil {
		return nil, err
	}

	var resp envelope[TicketDetail]
	if err := c.request(ctx, http.MethodGet, ticketPath(id, ""), nil, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}

// CreateTicket creates a ticket. Title (after trimming) and ColumnID are
// required.
func (c *Client) CreateTicket(ctx context.Context, input CreateTicketInput) (*Ticket, error) {
	if err := c.guard(PermissionWrite); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, invalidField("title", "ticket title is required")
	}
	if strings.TrimSpace(input.ColumnID) == "" {
		return nil, invalidField("column_id", "column_id is required")
	}

	var resp envelope[Ticket]
	if err := c.request(ctx, http.MethodPost, ticketsPath, input, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}

// UpdateTicket applies a partial update. At least one field must be set.
func (c *Client) UpdateTicket(ctx context.Context, id string, input UpdateTicketInput) (*Ticket, error) {
	if err := c.guard(PermissionWrite); err != nil {
		return nil, err
	}
	if err := requireTicketID(id); err != nil {
		return nil, err
	}
	if input.IsEmpty() {
		return nil, invalidField("", "at least one field must be provided for update")
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, invalidField("title", "ticket title cannot be empty")
	}

	var resp envelope[Ticket]
	if err := c.request(ctx, http.MethodPut, ticketPath(id, ""), input, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}

// DeleteTicket deletes a ticket.
func (c *Client) DeleteTicket(ctx context.Context, id string) error {
	if err := c.guard(PermissionDelete); err != nil {
		return err
	}
	if err := requireTicketID(id); err != nil {
		return err
	}

	return c.request(ctx, http.MethodDelete, ticketPath(id, ""), nil, nil)
}
