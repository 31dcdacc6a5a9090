package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/nokan/nokan/internal/api/middleware"
	"github.com/nokan/nokan/internal/api/response"
	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/internal/service"
)

// multipartOverhead is the allowance for boundaries and part headers on top
// of the file size cap.
const multipartOverhead = 64 << 10

// AttachmentHandler handles ticket attachments.
type AttachmentHandler struct {
	attachments *service.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler.
func NewAttachmentHandler(attachments *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments}
}

// ListAttachments handles GET /tickets/{id}/attachments.
func (h *AttachmentHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetToken(r.Context())

	attachments, err := h.attachments.List(r.Context(), token.BoardID, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, r, attachments)
}

// AddAttachment handles POST /tickets/{id}/attachments. The file is read from
// the "file" part of a multipart form.
func (h *AttachmentHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxAttachmentSize+multipartOverhead)

	if err := r.ParseMultipartForm(domain.MaxAttachmentSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, domain.NewPayloadTooLargeError(domain.MaxAttachmentSize))
			return
		}
		response.Error(w, domain.NewValidationError("file", "Request must be multipart/form-data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, domain.NewValidationError("file", "file is required"))
		return
	}
	defer file.Close()

	if header.Size > domain.MaxAttachmentSize {
		response.Error(w, domain.NewPayloadTooLargeError(domain.MaxAttachmentSize))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		response.Error(w, domain.NewInternalError(err))
		return
	}

	token := middleware.GetToken(r.Context())
	attachment, err := h.attachments.Add(r.Context(), token.BoardID, chi.URLParam(r, "id"), service.AddAttachmentInput{
		FileName: filepath.Base(header.Filename),
		MimeType: header.Header.Get("Content-Type"),
		Content:  content,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, r, attachment)
}
