package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/internal/store/sqlite"
	"github.com/nokan/nokan/pkg/nokan"
)

// BoardService serves the board discovery resource.
type BoardService struct {
	boards *sqlite.BoardRepository
}

// NewBoardService creates a new BoardService.
func NewBoardService(boards *sqlite.BoardRepository) *BoardService {
	return &BoardService{boards: boards}
}

// Get returns the token's board with the token's permissions filled in.
func (s *BoardService) Get(ctx context.Context, token *domain.Token) (*nokan.Board, error) {
	board, err := s.boards.GetByID(ctx, token.BoardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("Board", token.BoardID)
		}
		return nil, domain.NewInternalError(err)
	}

	board.Permissions = token.Permissions
	return board, nil
}
