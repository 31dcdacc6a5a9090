package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/pkg/nokan"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	Field      string `json:"field,omitempty"`
	Permission string `json:"permission,omitempty"`
}

// Envelope wraps data with optional metadata.
type Envelope struct {
	Data any         `json:"data"`
	Meta *nokan.Meta `json:"meta,omitempty"`
}

type rateLimitKey struct{}

// WithRateLimit stores the caller's rate limit budget so it is echoed in the
// response meta.
func WithRateLimit(ctx context.Context, meta nokan.RateLimitMeta) context.Context {
	return context.WithValue(ctx, rateLimitKey{}, meta)
}

// RateLimit returns the budget stored by WithRateLimit.
func RateLimit(ctx context.Context) (nokan.RateLimitMeta, bool) {
	meta, ok := ctx.Value(rateLimitKey{}).(nokan.RateLimitMeta)
	return meta, ok
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends an error response based on the domain error.
func Error(w http.ResponseWriter, err error) {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		domainErr = domain.NewInternalError(err)
	}

	JSON(w, mapErrorCodeToStatus(domainErr.Code), ErrorResponse{
		Error:      domainErr.Message,
		Code:       string(domainErr.Code),
		Field:      domainErr.Field,
		Permission: string(domainErr.Permission),
	})
}

// Paginated sends one page of a list with pagination metadata.
func Paginated(w http.ResponseWriter, r *http.Request, data any, page, limit, total int) {
	m := meta(r)
	m.Pagination = &nokan.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: domain.TotalPages(total, limit),
	}
	JSON(w, http.StatusOK, Envelope{Data: data, Meta: m})
}

// Created sends a 201 Created response with the enveloped body.
func Created(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, http.StatusCreated, envelope(r, data))
}

// OK sends a 200 OK response with the enveloped body.
func OK(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, http.StatusOK, envelope(r, data))
}

func envelope(r *http.Request, data any) Envelope {
	m := meta(r)
	if m.RateLimit == nil {
		m = nil
	}
	return Envelope{Data: data, Meta: m}
}

func meta(r *http.Request) *nokan.Meta {
	m := &nokan.Meta{}
	if rl, ok := RateLimit(r.Context()); ok {
		m.RateLimit = &rl
	}
	return m
}

func mapErrorCodeToStatus(code domain.ErrorCode) int {
	switch code {
	case domain.ErrCodeValidationFailed:
		return http.StatusBadRequest
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrCodePermissionDenied:
		return http.StatusForbidden
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case domain.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
