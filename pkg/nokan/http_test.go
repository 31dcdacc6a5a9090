package nokan

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMapStatusToError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		header     map[string]string
		wantCode   ErrorCode
		wantStatus int
		check      func(t *testing.T, err error)
	}{
		{
			name:       "400 validation with field",
			status:     http.StatusBadRequest,
			body:       `{"error":"Title is required","field":"title"}`,
			wantCode:   ErrCodeValidation,
			wantStatus: 400,
			check: func(t *testing.T, err error) {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if vErr.Field != "title" {
					t.Errorf("expected field title, got %q", vErr.Field)
				}
			},
		},
		{
			name:       "401 authentication",
			status:     http.StatusUnauthorized,
			body:       `{"error":"Invalid API token"}`,
			wantCode:   ErrCodeAuthentication,
			wantStatus: 401,
			check: func(t *testing.T, err error) {
				if !IsAuthentication(err) {
					t.Errorf("expected IsAuthentication, got %v", err)
				}
			},
		},
		{
			name:       "403 permission",
			status:     http.StatusForbidden,
			body:       `{"error":"Token does not have delete permission","permission":"delete"}`,
			wantCode:   ErrCodePermission,
			wantStatus: 403,
			check: func(t *testing.T, err error) {
				var pErr *PermissionError
				if !errors.As(err, &pErr) {
					t.Fatalf("expected *PermissionError, got %T", err)
				}
				if pErr.Permission != PermissionDelete {
					t.Errorf("expected permission delete, got %q", pErr.Permission)
				}
			},
		},
		{
			name:       "404 not found",
			status:     http.StatusNotFound,
			body:       `{"error":"Ticket not found"}`,
			wantCode:   ErrCodeNotFound,
			wantStatus: 404,
			check: func(t *testing.T, err error) {
				if !IsNotFound(err) {
					t.Errorf("expected IsNotFound, got %v", err)
				}
			},
		},
		{
			name:       "429 rate limited",
			status:     http.StatusTooManyRequests,
			body:       `{"error":"Rate limit exceeded"}`,
			header:     map[string]string{"Retry-After": "30"},
			wantCode:   ErrCodeRateLimit,
			wantStatus: 429,
			check: func(t *testing.T, err error) {
				var rlErr *RateLimitError
				if !errors.As(err, &rlErr) {
					t.Fatalf("expected *RateLimitError, got %T", err)
				}
				if rlErr.RetryAfter != 30 {
					t.Errorf("expected RetryAfter 30, got %d", rlErr.RetryAfter)
				}
				if rlErr.RetryAfterDuration() != 30*time.Second {
					t.Errorf("expected 30s, got %s", rlErr.RetryAfterDuration())
				}
				delta := time.Until(rlErr.ResetAt)
				if delta < 28*time.Second || delta > 31*time.Second {
					t.Errorf("expected ResetAt about 30s ahead, got %s", delta)
				}
			},
		},
		{
			name:       "429 without Retry-After",
			status:     http.StatusTooManyRequests,
			body:       `{"error":"Rate limit exceeded"}`,
			wantCode:   ErrCodeRateLimit,
			wantStatus: 429,
			check: func(t *testing.T, err error) {
				var rlErr *RateLimitError
				if !errors.As(err, &rlErr) {
					t.Fatalf("expected *RateLimitError, got %T", err)
				}
				if rlErr.RetryAfter != 0 || !rlErr.ResetAt.IsZero() {
					t.Errorf("expected zero retry info, got %d / %s", rlErr.RetryAfter, rlErr.ResetAt)
				}
			},
		},
		{
			name:       "500 generic with server code",
			status:     http.StatusInternalServerError,
			body:       `{"error":"boom","code":"INTERNAL_ERROR"}`,
			wantCode:   ErrorCode("INTERNAL_ERROR"),
			wantStatus: 500,
		},
		{
			name:       "422 is not validation",
			status:     http.StatusUnprocessableEntity,
			body:       `{"error":"unprocessable"}`,
			wantCode:   ErrCodeAPI,
			wantStatus: 422,
			check: func(t *testing.T, err error) {
				if IsValidation(err) {
					t.Error("422 must not map to a validation error")
				}
			},
		},
		{
			name:       "non-JSON body",
			status:     http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			wantCode:   ErrCodeAPI,
			wantStatus: 502,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				errors.As(err, &apiErr)
				if apiErr.Message != "request failed with status 502 Bad Gateway" {
					t.Errorf("unexpected fallback message %q", apiErr.Message)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server)
			err := client.request(context.Background(), http.MethodGet, "/x", nil, nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected error to unwrap to *APIError, got %T", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, apiErr.Code)
			}
			if apiErr.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, apiErr.StatusCode)
			}
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		value       string
		wantSeconds int
		wantReset   time.Time
	}{
		{"delta seconds", "30", 30, now.Add(30 * time.Second)},
		{"zero", "0", 0, now},
		{"http date", now.Add(90 * time.Second).Format(http.TimeFormat), 90, now.Add(90 * time.Second)},
		{"past http date", now.Add(-time.Minute).Format(http.TimeFormat), 0, now.Add(-time.Minute)},
		{"empty", "", 0, time.Time{}},
		{"negative", "-5", 0, time.Time{}},
		{"garbage", "soon", 0, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seconds, reset := parseRetryAfter(tt.value, now)
			if seconds != tt.wantSeconds {
				t.Errorf("expected %d seconds, got %d", tt.wantSeconds, seconds)
			}
			if !reset.Equal(tt.wantReset) {
				t.Errorf("expected reset %s, got %s", tt.wantReset, reset)
			}
		})
	}
}

func TestRequest_Timeout(t *testing.T) {
	cancelled := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		close(cancelled)
	}))
	defer server.Close()

	client := connectedClient(t, server, Permissions{Read: true}, WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := client.ListTickets(context.Background())
	elapsed := time.Since(start)

	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected timeout error to match context.DeadlineExceeded")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != ErrCodeTimeout {
		t.Errorf("expected TIMEOUT code, got %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("expected call to fail promptly, took %s", elapsed)
	}

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Error("expected server to observe request cancellation")
	}
}

func TestRequest_CallerDeadlineReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := connectedClient(t, server, Permissions{Read: true}, WithTimeout(30*time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ListTickets(ctx)

	var tErr *TimeoutError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if tErr.Timeout <= 0 || tErr.Timeout > 50*time.Millisecond {
		t.Errorf("expected the caller deadline (<= 50ms), got %s", tErr.Timeout)
	}
	if strings.Contains(tErr.Error(), "30s") {
		t.Errorf("message should not report the client timeout: %q", tErr.Error())
	}
}

func TestRequest_CallerCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer server.Close()

	client := connectedClient(t, server, Permissions{Read: true})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetBoard(ctx)
	if !IsNetwork(err) {
		t.Fatalf("expected network error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected error to match context.Canceled, got %v", err)
	}
}

func TestRequest_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(t, server)
	server.Close()

	_, err := client.Connect(context.Background())
	if !IsNetwork(err) {
		t.Fatalf("expected network error, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != ErrCodeNetwork {
		t.Errorf("expected NETWORK_ERROR code, got %v", err)
	}
	if client.IsConnected() {
		t.Error("client must stay disconnected")
	}
}

func TestRequest_TaxonomyErrorFromTransportPassesThrough(t *testing.T) {
	want := newRateLimitError("slow down", 5, time.Now().Add(5*time.Second))
	hc := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, want
	})}

	client, err := NewClient(WithBaseURL("http://nokan.test"), WithToken("nkn_live_test"), WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = client.Connect(context.Background())
	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) || rlErr != want {
		t.Fatalf("expected the transport's rate limit error unchanged, got %v", err)
	}
}

func TestRequest_InvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Connect(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Code != ErrCodeInvalidResponse {
		t.Errorf("expected INVALID_RESPONSE, got %s", apiErr.Code)
	}
}

func TestRequest_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer nkn_live_test" {
			t.Errorf("unexpected Authorization %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("unexpected Accept %q", got)
		}
		if got := r.Header.Get("User-Agent"); !strings.HasPrefix(got, "nokan-go/") {
			t.Errorf("unexpected User-Agent %q", got)
		}

		switch r.Method {
		case http.MethodGet, http.MethodDelete:
			if got := r.Header.Get("Content-Type"); got != "" {
				t.Errorf("%s must not carry Content-Type, got %q", r.Method, got)
			}
			if r.ContentLength > 0 {
				t.Errorf("%s must not carry a body", r.Method)
			}
		case http.MethodPost:
			if got := r.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("expected JSON content type, got %q", got)
			}
		}

		if r.Method == http.MethodDelete {
			writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]bool{"success": true}})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]any{"id": "c-1", "content": "hi"}})
	}))
	defer server.Close()

	client := connectedClient(t, server, Permissions{Read: true, Write: true, Delete: true})
	ctx := context.Background()

	if _, err := client.GetTicket(ctx, "t-1"); err != nil {
		t.Errorf("GetTicket: %v", err)
	}
	if _, err := client.AddComment(ctx, "t-1", CreateCommentInput{Content: "hi"}); err != nil {
		t.Errorf("AddComment: %v", err)
	}
	if err := client.DeleteTicket(ctx, "t-1"); err != nil {
		t.Errorf("DeleteTicket: %v", err)
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
