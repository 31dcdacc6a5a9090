package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nokan/nokan/pkg/nokan"
)

// BoardRepository handles board persistence operations. A board owns its
// columns, statuses and priorities, which are stored with it.
type BoardRepository struct {
	db *sql.DB
}

// NewBoardRepository creates a new BoardRepository.
func NewBoardRepository(db *sql.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Create inserts a board with its columns, statuses and priorities in one
// transaction. Permissions on the board value are ignored.
func (r *BoardRepository) Create(ctx context.Context, board *nokan.Board) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO boards (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		board.ID, board.Title, formatTime(board.CreatedAt), formatTime(board.UpdatedAt),
	); err != nil {
		return fmt.Errorf("insert board: %w", err)
	}

	for _, col := range board.Columns {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO board_columns (id, board_id, title, position) VALUES (?, ?, ?, ?)`,
			col.ID, board.ID, col.Title, col.Order,
		); err != nil {
			return fmt.Errorf("insert column %s: %w", col.ID, err)
		}
	}

	for i, s := range board.Statuses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO board_statuses (id, board_id, label, color, position) VALUES (?, ?, ?, ?, ?)`,
			s.ID, board.ID, s.Label, s.Color, i,
		); err != nil {
			return fmt.Errorf("insert status %s: %w", s.ID, err)
		}
	}

	for i, p := range board.Priorities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO board_priorities (board_id, id, label, color, position) VALUES (?, ?, ?, ?, ?)`,
			board.ID, p.ID, p.Label, p.Color, i,
		); err != nil {
			return fmt.Errorf("insert priority %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves a board with its columns (by position), statuses and
// priorities. Returns sql.ErrNoRows if the board does not exist.
func (r *BoardRepository) GetByID(ctx context.Context, id string) (*nokan.Board, error) {
	var board nokan.Board
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM boards WHERE id = ?`, id,
	).Scan(&board.ID, &board.Title, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	board.CreatedAt = parseTime(createdAt)
	board.UpdatedAt = parseTime(updatedAt)

	if board.Columns, err = r.columns(ctx, id); err != nil {
		return nil, err
	}
	if board.Statuses, err = r.statuses(ctx, id); err != nil {
		return nil, err
	}
	if board.Priorities, err = r.priorities(ctx, id); err != nil {
		return nil, err
	}

	return &board, nil
}

// Count returns the number of boards.
func (r *BoardRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM boards`).Scan(&n)
	return n, err
}

// HasColumn reports whether the column belongs to the board.
func (r *BoardRepository) HasColumn(ctx context.Context, boardID, columnID string) (bool, error) {
	return exists(ctx, r.db, `SELECT 1 FROM board_columns WHERE board_id = ? AND id = ?`, boardID, columnID)
}

// HasStatus reports whether the status belongs to the board.
func (r *BoardRepository) HasStatus(ctx context.Context, boardID, statusID string) (bool, error) {
	return exists(ctx, r.db, `SELECT 1 FROM board_statuses WHERE board_id = ? AND id = ?`, boardID, statusID)
}

// HasPriority reports whether the priority is configured on the board.
func (r *BoardRepository) HasPriority(ctx context.Context, boardID, priorityID string) (bool, error) {
	return exists(ctx, r.db, `SELECT 1 FROM board_priorities WHERE board_id = ? AND id = ?`, boardID, priorityID)
}

func (r *BoardRepository) columns(ctx context.Context, boardID string) ([]nokan.Column, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, position FROM board_columns WHERE board_id = ? ORDER BY position ASC`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := []nokan.Column{}
	for rows.Next() {
		var col nokan.Column
		if err := rows.Scan(&col.ID, &col.Title, &col.Order); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (r *BoardRepository) statuses(ctx context.Context, boardID string) ([]nokan.Status, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, label, color FROM board_statuses WHERE board_id = ? ORDER BY position ASC`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := []nokan.Status{}
	for rows.Next() {
		var s nokan.Status
		if err := rows.Scan(&s.ID, &s.Label, &s.Color); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *BoardRepository) priorities(ctx context.Context, boardID string) ([]nokan.Priority, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, label, color FROM board_priorities WHERE board_id = ? ORDER BY position ASC`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	priorities := []nokan.Priority{}
	for rows.Next() {
		var p nokan.Priority
		if err := rows.Scan(&p.ID, &p.Label, &p.Color); err != nil {
			return nil, err
		}
		priorities = append(priorities, p)
	}
	return priorities, rows.Err()
}
