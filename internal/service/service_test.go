package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/internal/store"
	"github.com/nokan/nokan/internal/store/sqlite"
	"github.com/nokan/nokan/pkg/nokan"
)

type testEnv struct {
	tickets     *TicketService
	comments    *CommentService
	attachments *AttachmentService
	boards      *BoardService
	auth        *AuthService
	board       *nokan.Board
	seeded      *store.SeedResult
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "sandbox.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	seeded, err := store.Seed(ctx, s.DB(), store.SeedOptions{BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	boardRepo := sqlite.NewBoardRepository(s.DB())
	board, err := boardRepo.GetByID(ctx, seeded.BoardID)
	if err != nil {
		t.Fatalf("failed to load board: %v", err)
	}

	tickets := NewTicketService(s.DB())
	return &testEnv{
		tickets:     tickets,
		comments:    NewCommentService(tickets, sqlite.NewCommentRepository(s.DB())),
		attachments: NewAttachmentService(tickets, sqlite.NewAttachmentRepository(s.DB())),
		boards:      NewBoardService(boardRepo),
		auth:        NewAuthService(sqlite.NewTokenRepository(s.DB()), slog.New(slog.NewTextHandler(io.Discard, nil))),
		board:       board,
		seeded:      seeded,
	}
}

func (e *testEnv) token(t *testing.T, name string) *domain.Token {
	t.Helper()
	for _, issued := range e.seeded.Tokens {
		if issued.Name == name {
			token, err := e.auth.Authenticate(context.Background(), issued.Token)
			if err != nil {
				t.Fatalf("failed to authenticate %s: %v", name, err)
			}
			return token
		}
	}
	t.Fatalf("no seeded token named %s", name)
	return nil
}

func assertCode(t *testing.T, err error, code domain.ErrorCode) *domain.DomainError {
	t.Helper()
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected *domain.DomainError, got %T (%v)", err, err)
	}
	if domainErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, domainErr.Code)
	}
	return domainErr
}

func TestAuthenticate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	valid := env.seeded.Tokens[0].Token

	token, err := env.auth.Authenticate(ctx, valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.BoardID != env.board.ID {
		t.Errorf("expected board %s, got %s", env.board.ID, token.BoardID)
	}

	tampered := valid[:len(valid)-1] + "0"
	if tampered == valid {
		tampered = valid[:len(valid)-1] + "1"
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "not-a-token"},
		{"wrong secret, same prefix", tampered},
		{"unknown", "nkn_live_00000000000000000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Authenticate(ctx, tt.token)
			assertCode(t, err, domain.ErrCodeUnauthorized)
		})
	}
}

func TestBoardService_Get(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token(t, "read-only")

	board, err := env.boards.Get(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.Permissions != (nokan.Permissions{Read: true}) {
		t.Errorf("expected read-only permissions, got %+v", board.Permissions)
	}
	if len(board.Columns) != 3 || len(board.Priorities) != 4 {
		t.Errorf("unexpected board shape: %d columns, %d priorities", len(board.Columns), len(board.Priorities))
	}
}

func TestTicketService_Create(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	col := env.board.Columns[0].ID

	t.Run("defaults priority", func(t *testing.T) {
		ticket, err := env.tickets.Create(ctx, env.board.ID, CreateTicketInput{Title: "  Fix login  ", ColumnID: col})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ticket.Priority != "medium" || ticket.Title != "Fix login" {
			t.Errorf("unexpected ticket %+v", ticket)
		}
		if ticket.Column == nil || ticket.Column.ID != col {
			t.Errorf("expected embedded column, got %+v", ticket.Column)
		}
	})

	tests := []struct {
		name  string
		input CreateTicketInput
		field string
	}{
		{"foreign column", CreateTicketInput{Title: "A", ColumnID: "other"}, "column_id"},
		{"unknown priority", CreateTicketInput{Title: "A", ColumnID: col, Priority: nokan.String("critical")}, "priority"},
		{"unknown status", CreateTicketInput{Title: "A", ColumnID: col, StatusID: nokan.String("nope")}, "status_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.tickets.Create(ctx, env.board.ID, tt.input)
			domainErr := assertCode(t, err, domain.ErrCodeValidationFailed)
			if domainErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, domainErr.Field)
			}
		})
	}
}

func TestTicketService_UpdateClearsStatus(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	status := env.board.Statuses[1].ID

	created, err := env.tickets.Create(ctx, env.board.ID, CreateTicketInput{
		Title: "A", ColumnID: env.board.Columns[0].ID, StatusID: &status,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status == nil {
		t.Fatal("expected status summary on create")
	}

	updated, err := env.tickets.Update(ctx, env.board.ID, created.ID, domain.TicketPatch{
		StatusID:  nokan.String(""),
		Completed: nokan.Bool(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.StatusID != nil || updated.Status != nil {
		t.Errorf("expected status cleared, got %v", updated.StatusID)
	}
	if !updated.Completed {
		t.Error("expected ticket completed")
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Error("updated_at went backwards")
	}
}

func TestTicketService_NotFound(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.tickets.Get(ctx, env.board.ID, "missing")
	assertCode(t, err, domain.ErrCodeNotFound)

	_, err = env.tickets.Update(ctx, env.board.ID, "missing", domain.TicketPatch{Title: nokan.String("x")})
	assertCode(t, err, domain.ErrCodeNotFound)

	assertCode(t, env.tickets.Delete(ctx, env.board.ID, "missing"), domain.ErrCodeNotFound)

	_, err = env.comments.List(ctx, env.board.ID, "missing")
	assertCode(t, err, domain.ErrCodeNotFound)
}

func TestCommentAndAttachment(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	token := env.token(t, "read-write")

	ticket, err := env.tickets.Create(ctx, env.board.ID, CreateTicketInput{Title: "A", ColumnID: env.board.Columns[0].ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	comment, err := env.comments.Add(ctx, token, ticket.ID, "  looks good ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comment.Content != "looks good" || comment.AuthorName == nil || *comment.AuthorName != "API: read-write" {
		t.Errorf("unexpected comment %+v", comment)
	}

	attachment, err := env.attachments.Add(ctx, env.board.ID, ticket.ID, AddAttachmentInput{FileName: "blob", Content: []byte("abc")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attachment.MimeType != "application/octet-stream" || attachment.FileSize != 3 {
		t.Errorf("unexpected attachment %+v", attachment)
	}

	_, err = env.attachments.Add(ctx, env.board.ID, ticket.ID, AddAttachmentInput{
		FileName: "big",
		Content:  []byte(strings.Repeat("x", int(domain.MaxAttachmentSize)+1)),
	})
	assertCode(t, err, domain.ErrCodePayloadTooLarge)

	detail, err := env.tickets.Get(ctx, env.board.ID, ticket.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Comments) != 1 || len(detail.Attachments) != 1 {
		t.Errorf("expected 1 comment and 1 attachment, got %d and %d", len(detail.Comments), len(detail.Attachments))
	}
}
