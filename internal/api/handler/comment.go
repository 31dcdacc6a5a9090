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

// CommentHandler handles ticket comments.
type CommentHandler struct {
	comments *service.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// ListComments handles GET /tickets/{id}/comments.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetToken(r.Context())

	comments, err := h.comments.List(r.Context(), token.BoardID, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, r, comments)
}

// AddComment handles POST /tickets/{id}/comments.
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCommentRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError("", "Invalid JSON body"))
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(w, err)
		return
	}

	token := middleware.GetToken(r.Context())
	comment, err := h.comments.Add(r.Context(), token, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, r, comment)
}
