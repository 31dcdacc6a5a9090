package nokan

import (
	"context"
	"net/http"
)

// GetBoard fetches the full board resource. It does not change the cached
// session; call Connect to refresh permissions.
func (c *Client) GetBoard(ctx context.Context) (*Board, error) {
	if err := c.guard(PermissionRead); err != nil {
		return nil, err
	}

	var resp envelope[Board]
	if err := c.request(ctx, http.MethodGet, boardPath, nil, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}
