package nokan

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

// Version is the SDK version reported in the User-Agent header.
const Version = "0.4.0"

// boardPath is the discovery endpoint.
const boardPath = "/api/public/board"

// Client is an HTTP client for a board's public API.
//
// A Client must be connected with Connect before any other operation. It is
// safe for concurrent use.
type Client struct {
	baseURL       string
	token         string
	timeout       time.Duration
	uploadTimeout time.Duration
	userAgent     string
	http          *http.Client
	logger        *slog.Logger
	now           func() time.Time

	session atomic.Pointer[session]
}

// session is the snapshot stored by a successful Connect. It is never
// mutated; Connect replaces it.
type session struct {
	boardID     string
	permissions Permissions
}

// NewClient creates a new API client.
//
// Required options:
//   - WithToken: sets the bearer token
//   - WithBaseURL: sets the API origin
//
// Optional options:
//   - WithTimeout: per-request timeout (default: 30s)
//   - WithUploadTimeout: attachment upload timeout (default: 5m)
//   - WithHTTPClient, WithLogger, WithUserAgent
//
// Example:
//
//	client, err := nokan.NewClient(
//	    nokan.WithBaseURL("https://app.nokan.io"),
//	    nokan.WithToken(os.Getenv("NOKAN_TOKEN")),
//	)
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if strings.TrimSpace(cfg.token) == "" {
		return nil, invalidField("token", "token is required: use WithToken option")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.baseURL), "/")
	if baseURL == "" {
		return nil, invalidField("base_url", "base URL is required: use WithBaseURL option")
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, invalidField("base_url", "base URL must be an absolute http or https URL")
	}
	if cfg.timeout <= 0 {
		return nil, invalidField("timeout", "timeout must be positive")
	}
	if cfg.uploadTimeout <= 0 {
		return nil, invalidField("upload_timeout", "upload timeout must be positive")
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:       baseURL,
		token:         cfg.token,
		timeout:       cfg.timeout,
		uploadTimeout: cfg.uploadTimeout,
		userAgent:     cfg.userAgent,
		http:          hc,
		logger:        logger,
		now:           time.Now,
	}, nil
}

// Connect runs board discovery. On success it caches the board ID and the
// token's permissions, which gate every later call. Calling Connect again
// re-runs discovery and replaces the cached state. On failure the client is
// left disconnected and the error is returned unchanged.
func (c *Client) Connect(ctx context.Context) (*ConnectResult, error) {
	var resp envelope[Board]
	if err := c.request(ctx, http.MethodGet, boardPath, nil, &resp); err != nil {
		c.session.Store(nil)
		return nil, err
	}

	board := resp.Data
	c.session.Store(&session{
		boardID:     board.ID,
		permissions: board.Permissions,
	})
	c.logger.Debug("nokan connected",
		"board_id", board.ID,
		"read", board.Permissions.Read,
		"write", board.Permissions.Write,
		"delete", board.Permissions.Delete,
	)

	return &ConnectResult{
		BoardID:     board.ID,
		Title:       board.Title,
		Permissions: board.Permissions,
		Columns:     board.Columns,
		Statuses:    board.Statuses,
		Priorities:  board.Priorities,
	}, nil
}

// IsConnected reports whether Connect has succeeded.
func (c *Client) IsConnected() bool {
	return c.session.Load() != nil
}

// BoardID returns the connected board's ID, or "" when not connected.
func (c *Client) BoardID() string {
	if s := c.session.Load(); s != nil {
		return s.boardID
	}
	return ""
}

// Permissions returns the cached permission triple. ok is false when not
// connected.
func (c *Client) Permissions() (perms Permissions, ok bool) {
	if s := c.session.Load(); s != nil {
		return s.permissions, true
	}
	return Permissions{}, false
}

// guard checks connectivity and then the required permission. It never
// touches the network.
func (c *Client) guard(permission Permission) error {
	s := c.session.Load()
	if s == nil {
		return ErrNotConnected
	}
	if !s.permissions.Allows(permission) {
		return missingPermission(permission)
	}
	return nil
}

// requireTicketID validates a ticket ID argument.
func requireTicketID(id string) error {
	if strings.TrimSpace(id) == "" {
		return invalidField("id", "ticket ID is required")
	}
	return nil
}

// ticketPath builds a ticket-scoped path with the ID escaped.
func ticketPath(id string, suffix string) string {
	return "/api/public/tickets/" + url.PathEscape(id) + suffix
}
