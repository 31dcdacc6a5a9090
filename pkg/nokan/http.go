package nokan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// maxErrorBody caps how much of a non-2xx body is read.
const maxErrorBody = 1 << 20

// request performs a JSON call bounded by the client timeout. body is
// encoded as JSON when non-nil; out receives the decoded 2xx body and may be
// nil to discard it.
func (c *Client) request(ctx context.Context, method, path string, body, out any) error {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("failed to encode request body: %v", err), Code: ErrCodeAPI}
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}

	return c.do(ctx, c.timeout, method, path, reader, contentType, out)
}

// upload posts file as the single "file" part of a multipart form, bounded by
// the upload timeout.
func (c *Client) upload(ctx context.Context, path string, file io.Reader, fileName string, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(fileName)))
	header.Set("Content-Type", contentTypeFor(fileName))

	part, err := mw.CreatePart(header)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to build multipart body: %v", err), Code: ErrCodeAPI}
	}
	if _, err := io.Copy(part, file); err != nil {
		return &APIError{Message: fmt.Sprintf("failed to read attachment: %v", err), Code: ErrCodeAPI}
	}
	if err := mw.Close(); err != nil {
		return &APIError{Message: fmt.Sprintf("failed to build multipart body: %v", err), Code: ErrCodeAPI}
	}

	return c.do(ctx, c.uploadTimeout, http.MethodPost, path, &buf, mw.FormDataContentType(), out)
}

// do executes a request with the common headers and maps the outcome into
// the error taxonomy.
func (c *Client) do(ctx context.Context, timeout time.Duration, method, path string, body io.Reader, contentType string, out any) error {
	// A caller deadline sooner than the client timeout is the one reported.
	limit := timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < limit {
			limit = max(remaining, 0).Round(time.Millisecond)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to create request: %v", err), Code: ErrCodeAPI}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		mapped := transportError(ctx, err, limit)
		c.logger.Debug("nokan request failed",
			"method", method,
			"path", path,
			"error", mapped,
			"duration", time.Since(start),
		)
		return mapped
	}
	defer resp.Body.Close()

	c.logger.Debug("nokan request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.parseErrorResponse(resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return transportError(ctx, err, limit)
		}
		return &APIError{
			Message:    fmt.Sprintf("failed to decode response: %v", err),
			StatusCode: resp.StatusCode,
			Code:       ErrCodeInvalidResponse,
		}
	}

	return nil
}

// transportError classifies an error from http.Client.Do. Taxonomy errors
// returned by a custom RoundTripper pass through unchanged.
func transportError(ctx context.Context, err error, timeout time.Duration) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var apiErr *APIError
		if errors.As(urlErr.Err, &apiErr) {
			return urlErr.Err
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newTimeoutError(timeout)
	}

	return newNetworkError(err)
}

// parseErrorResponse reads a non-2xx response and returns the matching
// taxonomy error.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var apiErr apiErrorBody
	if len(body) > 0 {
		if err := json.Unmarshal(body, &apiErr); err != nil {
			apiErr = apiErrorBody{}
		}
	}

	message := apiErr.Error
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		if text := http.StatusText(resp.StatusCode); text != "" {
			message += " " + text
		}
	}

	return mapStatusToError(resp.StatusCode, message, &apiErr, resp.Header, c.now())
}

// mapStatusToError maps an HTTP status to the error taxonomy.
func mapStatusToError(status int, message string, body *apiErrorBody, header http.Header, now time.Time) error {
	switch status {
	case http.StatusBadRequest:
		return newValidationError(message, body.Field, status)

	case http.StatusUnauthorized:
		return newAuthenticationError(message)

	case http.StatusForbidden:
		return newPermissionError(message, Permission(body.Permission), status)

	case http.StatusNotFound:
		return newNotFoundError(message)

	case http.StatusTooManyRequests:
		retryAfter, resetAt := parseRetryAfter(header.Get("Retry-After"), now)
		return newRateLimitError(message, retryAfter, resetAt)

	default:
		code := ErrCodeAPI
		if body.Code != "" {
			code = ErrorCode(body.Code)
		}
		return &APIError{Message: message, StatusCode: status, Code: code}
	}
}

// parseRetryAfter accepts delta-seconds or an HTTP-date. It returns zero
// values when the header is absent or malformed.
func parseRetryAfter(value string, now time.Time) (int, time.Time) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, time.Time{}
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, time.Time{}
		}
		return seconds, now.Add(time.Duration(seconds) * time.Second)
	}

	if at, err := http.ParseTime(value); err == nil {
		seconds := int(math.Ceil(at.Sub(now).Seconds()))
		if seconds < 0 {
			seconds = 0
		}
		return seconds, at
	}

	return 0, time.Time{}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// contentTypeFor guesses a part content type from the file extension.
func contentTypeFor(fileName string) string {
	if ct := mime.TypeByExtension(filepath.Ext(fileName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
