package nokan

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds every JSON request.
	DefaultTimeout = 30 * time.Second
	// DefaultUploadTimeout bounds attachment uploads.
	DefaultUploadTimeout = 5 * time.Minute
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

// clientConfig holds the configuration for a Client.
type clientConfig struct {
	baseURL       string
	token         string
	timeout       time.Duration
	uploadTimeout time.Duration
	httpClient    *http.Client
	logger        *slog.Logger
	userAgent     string
}

// defaultConfig returns the default client configuration.
func defaultConfig() *clientConfig {
	return &clientConfig{
		timeout:       DefaultTimeout,
		uploadTimeout: DefaultUploadTimeout,
		userAgent:     "nokan-go/" + Version,
	}
}

// WithBaseURL sets the origin of the board's public API, e.g.
// "https://app.nokan.io". A trailing slash is ignored.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = baseURL
	}
}

// WithToken sets the bearer token. The token is treated as opaque.
func WithToken(token string) ClientOption {
	return func(c *clientConfig) {
		c.token = token
	}
}

// WithTimeout sets the per-request timeout for JSON calls.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithUploadTimeout sets the per-request timeout for attachment uploads.
func WithUploadTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.uploadTimeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its own Timeout, if
// any, applies in addition to the client timeouts.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing at debug level.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// ListTicketsOption configures a ListTickets call.
type ListTicketsOption func(*listTicketsOptions)

// listTicketsOptions holds the optional list filters. Nil fields are omitted
// from the query string so the server applies its own defaults.
type listTicketsOptions struct {
	page      *int
	limit     *int
	columnID  *string
	statusID  *string
	completed *bool
}

// WithPage sets the page number (1-indexed).
func WithPage(page int) ListTicketsOption {
	return func(o *listTicketsOptions) {
		o.page = &page
	}
}

// WithLimit sets the number of tickets per page.
func WithLimit(limit int) ListTicketsOption {
	return func(o *listTicketsOptions) {
		o.limit = &limit
	}
}

// WithColumnID filters tickets by column.
func WithColumnID(columnID string) ListTicketsOption {
	return func(o *listTicketsOptions) {
		o.columnID = &columnID
	}
}

// WithStatusID filters tickets by status.
func WithStatusID(statusID string) ListTicketsOption {
	return func(o *listTicketsOptions) {
		o.statusID = &statusID
	}
}

// WithCompleted filters tickets by their completed flag.
func WithCompleted(completed bool) ListTicketsOption {
	return func(o *listTicketsOptions) {
		o.completed = &completed
	}
}
