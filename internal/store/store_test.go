package store

import (
	"context"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/nokan/nokan/internal/store/sqlite"
	"github.com/nokan/nokan/pkg/idgen"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sandbox.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesSchema(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"boards", "board_columns", "board_statuses", "board_priorities", "api_tokens", "tickets", "comments", "attachments"} {
		var name string
		err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("expected table %s: %v", table, err)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sandbox.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if _, err := Seed(context.Background(), first.DB(), SeedOptions{BcryptCost: bcrypt.MinCost}); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer second.Close()

	n, err := sqlite.NewBoardRepository(second.DB()).Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected seeded board to persist, got %d boards", n)
	}
}

func TestSeed(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	result, err := Seed(ctx, s.DB(), SeedOptions{BoardTitle: "Demo", BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	board, err := sqlite.NewBoardRepository(s.DB()).GetByID(ctx, result.BoardID)
	if err != nil {
		t.Fatalf("failed to load seeded board: %v", err)
	}
	if board.Title != "Demo" {
		t.Errorf("expected title Demo, got %s", board.Title)
	}
	if len(board.Columns) != 3 || len(board.Statuses) != 3 || len(board.Priorities) != 4 {
		t.Errorf("unexpected board shape: %d columns, %d statuses, %d priorities",
			len(board.Columns), len(board.Statuses), len(board.Priorities))
	}
	if board.Columns[0].Title != "To Do" || board.Columns[2].Title != "Done" {
		t.Errorf("columns out of order: %+v", board.Columns)
	}

	if len(result.Tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(result.Tokens))
	}
	tokens := sqlite.NewTokenRepository(s.DB())
	for _, issued := range result.Tokens {
		if !idgen.IsWellFormed(issued.Token) {
			t.Errorf("token %s is not well formed", issued.Name)
		}

		stored, err := tokens.ListByPrefix(ctx, idgen.LookupPrefix(issued.Token))
		if err != nil || len(stored) == 0 {
			t.Fatalf("token %s not found by prefix: %v", issued.Name, err)
		}
		if string(stored[0].Hash) == issued.Token {
			t.Errorf("token %s stored in clear", issued.Name)
		}
		if err := bcrypt.CompareHashAndPassword(stored[0].Hash, []byte(issued.Token)); err != nil {
			t.Errorf("token %s hash does not verify: %v", issued.Name, err)
		}
		if stored[0].Permissions != issued.Permissions {
			t.Errorf("token %s permissions %+v, want %+v", issued.Name, stored[0].Permissions, issued.Permissions)
		}
	}

	if !result.Tokens[2].Permissions.Delete || result.Tokens[0].Permissions.Write {
		t.Errorf("unexpected grants: %+v", result.Tokens)
	}
}
