package nokan

import (
	"context"
	"net/http"
	"strings"
)

// AddComment adds a comment to a ticket.
func (c *Client) AddComment(ctx context.Context, ticketID string, input CreateCommentInput) (*Comment, error) {
	if err := c.guard(PermissionWrite); err != nil {
		return nil, err
	}
	if err := requireTicketID(ticketID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, invalidField("content", "comment content is required")
	}

	var resp envelope[Comment]
	body := CreateCommentInput{Content: content}
	if err := c.request(ctx, http.MethodPost, ticketPath(ticketID, "/comments"), body, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}

// ListComments lists all comments on a ticket. The result is not paginated.
func (c *Client) ListComments(ctx context.Context, ticketID string) ([]Comment, error) {
	if err := c.guard(PermissionRead); err != nil {
		return nil, err
	}
	if err := requireTicketID(ticketID); err != nil {
		return nil, err
	}

	var resp envelope[[]Comment]
	if err := c.request(ctx, http.MethodGet, ticketPath(ticketID, "/comments"), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Data, nil
}
