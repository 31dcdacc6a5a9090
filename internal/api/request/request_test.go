package request

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/nokan/nokan/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Page: 1, Limit: 20}},
		{"?page=3&limit=5", Pagination{Page: 3, Limit: 5}},
		{"?page=0&limit=-1", Pagination{Page: 1, Limit: 20}},
		{"?page=abc", Pagination{Page: 1, Limit: 20}},
		{"?limit=1000", Pagination{Page: 1, Limit: MaxLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := ParsePagination(httptest.NewRequest("GET", "/tickets"+tt.query, nil))
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseTicketFilter(t *testing.T) {
	filter, err := ParseTicketFilter(httptest.NewRequest("GET", "/tickets?column_id=c1&status_id=s1&completed=false", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.ColumnID == nil || *filter.ColumnID != "c1" {
		t.Errorf("unexpected column filter %v", filter.ColumnID)
	}
	if filter.StatusID == nil || *filter.StatusID != "s1" {
		t.Errorf("unexpected status filter %v", filter.StatusID)
	}
	if filter.Completed == nil || *filter.Completed {
		t.Errorf("unexpected completed filter %v", filter.Completed)
	}

	empty, err := ParseTicketFilter(httptest.NewRequest("GET", "/tickets", nil))
	if err != nil || empty.ColumnID != nil || empty.StatusID != nil || empty.Completed != nil {
		t.Errorf("expected empty filter, got %+v (%v)", empty, err)
	}

	_, err = ParseTicketFilter(httptest.NewRequest("GET", "/tickets?completed=maybe", nil))
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) || domainErr.Field != "completed" {
		t.Errorf("expected completed validation error, got %v", err)
	}
}

func TestCreateTicketRequest_Validate(t *testing.T) {
	tests := []struct {
		name  string
		req   CreateTicketRequest
		field string
	}{
		{"valid", CreateTicketRequest{Title: "A", ColumnID: "c1"}, ""},
		{"blank title", CreateTicketRequest{Title: "   ", ColumnID: "c1"}, "title"},
		{"missing column", CreateTicketRequest{Title: "A"}, "column_id"},
		{"empty priority", CreateTicketRequest{Title: "A", ColumnID: "c1", Priority: strPtr("")}, "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var domainErr *domain.DomainError
			if !errors.As(err, &domainErr) || domainErr.Field != tt.field {
				t.Errorf("expected error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestUpdateTicketRequest_Validate(t *testing.T) {
	if err := (&UpdateTicketRequest{}).Validate(); err == nil {
		t.Error("expected empty update to be rejected")
	}
	if err := (&UpdateTicketRequest{Title: strPtr(" ")}).Validate(); err == nil {
		t.Error("expected blank title to be rejected")
	}
	if err := (&UpdateTicketRequest{StatusID: strPtr("")}).Validate(); err != nil {
		t.Errorf("clearing the status should be allowed: %v", err)
	}
}
