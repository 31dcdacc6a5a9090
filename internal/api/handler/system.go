package handler

import (
	"net/http"

	"github.com/nokan/nokan/internal/api/response"
	"github.com/nokan/nokan/pkg/nokan"
)

// SystemHandler handles unauthenticated system endpoints.
type SystemHandler struct{}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// Health handles GET /health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, map[string]string{"status": "ok", "version": nokan.Version})
}
