package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nokan/nokan/internal/api/middleware"
	"github.com/nokan/nokan/internal/api/request"
	"github.com/nokan/nokan/internal/api/response"
	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/internal/service"
)

// TicketHandler handles ticket CRUD operations.
type TicketHandler struct {
	tickets *service.TicketService
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(tickets *service.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// ListTickets handles GET /tickets.
func (h *TicketHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)
	filter, err := request.ParseTicketFilter(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	token := middleware.GetToken(r.Context())
	tickets, total, err := h.tickets.List(r.Context(), token.BoardID, service.ListTicketsInput{
		Filter: filter,
		Page:   pagination.Page,
		Limit:  pagination.Limit,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Paginated(w, r, tickets, pagination.Page, pagination.Limit, total)
}

// CreateTicket handles POST /tickets.
func (h *TicketHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTicketRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError("", "Invalid JSON body"))
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(w, err)
		return
	}

	token := middleware.GetToken(r.Context())
	ticket, err := h.tickets.Create(r.Context(), token.BoardID, service.CreateTicketInput{
		Title:       req.Title,
		ColumnID:    req.ColumnID,
		Description: req.Description,
		Priority:    req.Priority,
		StatusID:    req.StatusID,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, r, ticket)
}

// GetTicket handles GET /tickets/{id}.
func (h *TicketHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetToken(r.Context())

	ticket, err := h.tickets.Get(r.Context(), token.BoardID, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, r, ticket)
}

// UpdateTicket handles PUT /tickets/{id}. Only the fields present in the body
// are changed.
func (h *TicketHandler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateTicketRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError("", "Invalid JSON body"))
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(w, err)
		return
	}

	token := middleware.GetToken(r.Context())
	ticket, err := h.tickets.Update(r.Context(), token.BoardID, chi.URLParam(r, "id"), req.Patch())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, r, ticket)
}

// DeleteTicket handles DELETE /tickets/{id}. The body is {"data": {"success": true}}.
func (h *TicketHandler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetToken(r.Context())

	if err := h.tickets.Delete(r.Context(), token.BoardID, chi.URLParam(r, "id")); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, r, map[string]bool{"success": true})
}
