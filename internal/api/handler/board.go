package handler

import (
	"net/http"

	"github.com/nokan/nokan/internal/api/middleware"
	"github.com/nokan/nokan/internal/api/response"
	"github.com/nokan/nokan/internal/service"
)

// BoardHandler serves board discovery.
type BoardHandler struct {
	boards *service.BoardService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boards *service.BoardService) *BoardHandler {
	return &BoardHandler{boards: boards}
}

// GetBoard handles GET /board.
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.boards.Get(r.Context(), middleware.GetToken(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, r, board)
}
