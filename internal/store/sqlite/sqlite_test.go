package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/internal/store"
	"github.com/nokan/nokan/internal/store/sqlite"
	"github.com/nokan/nokan/pkg/nokan"
)

// fixture is a seeded database with its board loaded.
type fixture struct {
	db    *sql.DB
	board *nokan.Board
}

func newFixture(t *testing.T) *fixture {
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
	board, err := sqlite.NewBoardRepository(s.DB()).GetByID(ctx, seeded.BoardID)
	if err != nil {
		t.Fatalf("failed to load board: %v", err)
	}

	return &fixture{db: s.DB(), board: board}
}

func (f *fixture) createTicket(t *testing.T, title string, at time.Time, mutate ...func(*nokan.Ticket)) *nokan.Ticket {
	t.Helper()

	ticket := &nokan.Ticket{
		ID:        uuid.NewString(),
		Title:     title,
		Priority:  domain.DefaultPriority,
		ColumnID:  f.board.Columns[0].ID,
		CreatedAt: at,
		UpdatedAt: at,
	}
	for _, m := range mutate {
		m(ticket)
	}
	if err := sqlite.NewTicketRepository(f.db).Create(context.Background(), f.board.ID, ticket); err != nil {
		t.Fatalf("failed to create ticket: %v", err)
	}
	return ticket
}

func TestBoardRepository_Membership(t *testing.T) {
	f := newFixture(t)
	repo := sqlite.NewBoardRepository(f.db)
	ctx := context.Background()

	tests := []struct {
		name  string
		check func() (bool, error)
		want  bool
	}{
		{"own column", func() (bool, error) { return repo.HasColumn(ctx, f.board.ID, f.board.Columns[1].ID) }, true},
		{"unknown column", func() (bool, error) { return repo.HasColumn(ctx, f.board.ID, "nope") }, false},
		{"own status", func() (bool, error) { return repo.HasStatus(ctx, f.board.ID, f.board.Statuses[0].ID) }, true},
		{"column on other board", func() (bool, error) { return repo.HasColumn(ctx, "other", f.board.Columns[0].ID) }, false},
		{"configured priority", func() (bool, error) { return repo.HasPriority(ctx, f.board.ID, "urgent") }, true},
		{"unknown priority", func() (bool, error) { return repo.HasPriority(ctx, f.board.ID, "critical") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.check()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoardRepository_GetByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := sqlite.NewBoardRepository(f.db).GetByID(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestTicketRepository_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2026, 2, 3, 4, 5, 6, 789, time.UTC)

	created := f.createTicket(t, "Fix login", at, func(tk *nokan.Ticket) {
		tk.Description = nokan.String("Redirect loop")
		tk.StatusID = nokan.String(f.board.Statuses[0].ID)
	})

	got, err := sqlite.NewTicketRepository(f.db).GetByID(context.Background(), f.board.ID, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Title != "Fix login" || got.Priority != domain.DefaultPriority {
		t.Errorf("unexpected ticket %+v", got)
	}
	if got.Description == nil || *got.Description != "Redirect loop" {
		t.Errorf("unexpected description %v", got.Description)
	}
	if !got.CreatedAt.Equal(at) {
		t.Errorf("expected created_at %s, got %s", at, got.CreatedAt)
	}
	if got.Column == nil || got.Column.Title != "To Do" {
		t.Errorf("expected column summary, got %+v", got.Column)
	}
	if got.Status == nil || got.Status.Label != "Blocked" {
		t.Errorf("expected status summary, got %+v", got.Status)
	}
}

func TestTicketRepository_GetByID_OtherBoard(t *testing.T) {
	f := newFixture(t)
	created := f.createTicket(t, "A", time.Now())

	_, err := sqlite.NewTicketRepository(f.db).GetByID(context.Background(), "other-board", created.ID)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestTicketRepository_ListPagination(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		f.createTicket(t, fmt.Sprintf("Ticket %02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	tickets, total, err := sqlite.NewTicketRepository(f.db).List(context.Background(), f.board.ID, domain.TicketFilter{}, 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if total != 25 {
		t.Errorf("expected total 25, got %d", total)
	}
	if len(tickets) != 5 {
		t.Fatalf("expected 5 tickets on the last page, got %d", len(tickets))
	}
	if tickets[0].Title != "Ticket 20" || tickets[4].Title != "Ticket 24" {
		t.Errorf("unexpected order: %s..%s", tickets[0].Title, tickets[4].Title)
	}
}

func TestTicketRepository_ListFilters(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	doneCol := f.board.Columns[2].ID
	blocked := f.board.Statuses[0].ID

	f.createTicket(t, "todo", now)
	f.createTicket(t, "done", now.Add(time.Second), func(tk *nokan.Ticket) {
		tk.ColumnID = doneCol
		tk.Completed = true
	})
	f.createTicket(t, "blocked", now.Add(2*time.Second), func(tk *nokan.Ticket) {
		tk.StatusID = &blocked
	})

	tests := []struct {
		name   string
		filter domain.TicketFilter
		want   []string
	}{
		{"no filter", domain.TicketFilter{}, []string{"todo", "done", "blocked"}},
		{"column", domain.TicketFilter{ColumnID: &doneCol}, []string{"done"}},
		{"status", domain.TicketFilter{StatusID: &blocked}, []string{"blocked"}},
		{"completed", domain.TicketFilter{Completed: nokan.Bool(true)}, []string{"done"}},
		{"not completed", domain.TicketFilter{Completed: nokan.Bool(false)}, []string{"todo", "blocked"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tickets, total, err := sqlite.NewTicketRepository(f.db).List(context.Background(), f.board.ID, tt.filter, 1, 50)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if total != len(tt.want) || len(tickets) != len(tt.want) {
				t.Fatalf("expected %d tickets, got %d (total %d)", len(tt.want), len(tickets), total)
			}
			for i, title := range tt.want {
				if tickets[i].Title != title {
					t.Errorf("position %d: expected %s, got %s", i, title, tickets[i].Title)
				}
			}
		})
	}
}

func TestTicketRepository_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	repo := sqlite.NewTicketRepository(f.db)
	ctx := context.Background()
	ticket := f.createTicket(t, "A", time.Now())

	domain.TicketPatch{
		Title:     nokan.String("B"),
		ColumnID:  nokan.String(f.board.Columns[1].ID),
		Completed: nokan.Bool(true),
	}.Apply(ticket, time.Now())
	if err := repo.Update(ctx, f.board.ID, ticket); err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}

	got, err := repo.GetByID(ctx, f.board.ID, ticket.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "B" || got.Column.Title != "In Progress" || !got.Completed {
		t.Errorf("update not persisted: %+v", got)
	}

	comments := sqlite.NewCommentRepository(f.db)
	if err := comments.Create(ctx, ticket.ID, &nokan.Comment{ID: uuid.NewString(), Content: "x", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("failed to add comment: %v", err)
	}

	if err := repo.Delete(ctx, f.board.ID, ticket.ID); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if _, err := repo.GetByID(ctx, f.board.ID, ticket.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected deleted ticket to be gone, got %v", err)
	}
	if list, _ := comments.ListByTicket(ctx, ticket.ID); len(list) != 0 {
		t.Errorf("expected comments to cascade, got %d", len(list))
	}

	if err := repo.Delete(ctx, f.board.ID, ticket.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows on second delete, got %v", err)
	}
	if err := repo.Update(ctx, f.board.ID, ticket); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows when updating a deleted ticket, got %v", err)
	}
}

func TestCommentRepository(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, "A", time.Now())
	repo := sqlite.NewCommentRepository(f.db)
	ctx := context.Background()
	base := time.Now()

	for i, content := range []string{"first", "second"} {
		c := &nokan.Comment{
			ID:         uuid.NewString(),
			Content:    content,
			AuthorName: nokan.String("API: ci-bot"),
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(ctx, ticket.ID, c); err != nil {
			t.Fatalf("failed to create comment: %v", err)
		}
	}

	comments, err := repo.ListByTicket(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 2 || comments[0].Content != "first" || comments[1].Content != "second" {
		t.Errorf("unexpected comments %+v", comments)
	}
	if comments[0].AuthorName == nil || *comments[0].AuthorName != "API: ci-bot" {
		t.Errorf("unexpected author %v", comments[0].AuthorName)
	}
}

func TestAttachmentRepository(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, "A", time.Now())
	repo := sqlite.NewAttachmentRepository(f.db)
	ctx := context.Background()

	a := &nokan.Attachment{
		ID:        uuid.NewString(),
		FileName:  "log.txt",
		MimeType:  "text/plain",
		CreatedAt: time.Now(),
	}
	if err := repo.Create(ctx, ticket.ID, a, []byte("hello world")); err != nil {
		t.Fatalf("failed to create attachment: %v", err)
	}
	if a.FileSize != 11 {
		t.Errorf("expected size 11, got %d", a.FileSize)
	}

	list, err := repo.ListByTicket(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].FileName != "log.txt" || list[0].FileSize != 11 {
		t.Errorf("unexpected attachments %+v", list)
	}

	var content []byte
	err = f.db.QueryRowContext(ctx, `SELECT content FROM attachments WHERE id = ?`, a.ID).Scan(&content)
	if err != nil || string(content) != "hello world" {
		t.Errorf("unexpected content %q (%v)", content, err)
	}
}

func TestTokenRepository_TouchLastUsed(t *testing.T) {
	f := newFixture(t)
	repo := sqlite.NewTokenRepository(f.db)
	ctx := context.Background()

	tokens, err := repo.ListByBoard(ctx, f.board.ID)
	if err != nil || len(tokens) != 3 {
		t.Fatalf("expected 3 seeded tokens, got %d (%v)", len(tokens), err)
	}
	if tokens[0].LastUsedAt != nil {
		t.Error("fresh token should have no last use")
	}

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.TouchLastUsed(ctx, tokens[0].ID, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, _ := repo.ListByPrefix(ctx, tokens[0].Prefix)
	var found bool
	for _, tok := range after {
		if tok.ID == tokens[0].ID {
			found = true
			if tok.LastUsedAt == nil || !tok.LastUsedAt.Equal(now) {
				t.Errorf("expected last_used_at %s, got %v", now, tok.LastUsedAt)
			}
		}
	}
	if !found {
		t.Error("token not found by prefix")
	}

	if err := repo.TouchLastUsed(ctx, "missing", now); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}
