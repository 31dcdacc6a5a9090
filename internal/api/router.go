package api

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nokan/nokan/internal/api/handler"
	"github.com/nokan/nokan/internal/api/middleware"
	"github.com/nokan/nokan/internal/service"
	"github.com/nokan/nokan/internal/store/sqlite"
	"github.com/nokan/nokan/pkg/nokan"
)

// Options configures the router.
type Options struct {
	Logger *slog.Logger
	// RequestsPerMinute and Burst size the per-token rate limit. Zero
	// selects the defaults.
	RequestsPerMinute int
	Burst             int
}

// NewRouter creates and configures the HTTP router.
func NewRouter(db *sql.DB, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()

	// Global middleware chain
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(chimiddleware.RealIP)

	// Initialize services and handlers
	tickets := service.NewTicketService(db)
	auth := service.NewAuthService(sqlite.NewTokenRepository(db), logger)

	systemHandler := handler.NewSystemHandler()
	boardHandler := handler.NewBoardHandler(service.NewBoardService(sqlite.NewBoardRepository(db)))
	ticketHandler := handler.NewTicketHandler(tickets)
	commentHandler := handler.NewCommentHandler(service.NewCommentService(tickets, sqlite.NewCommentRepository(db)))
	attachmentHandler := handler.NewAttachmentHandler(service.NewAttachmentService(tickets, sqlite.NewAttachmentRepository(db)))

	limiter := middleware.NewRateLimiter(opts.RequestsPerMinute, opts.Burst)

	r.Get("/health", systemHandler.Health)

	// Token-scoped routes
	r.Route("/api/public", func(r chi.Router) {
		r.Use(middleware.Auth(auth))
		r.Use(limiter.Handler)

		read := middleware.RequirePermission(nokan.PermissionRead)
		write := middleware.RequirePermission(nokan.PermissionWrite)
		del := middleware.RequirePermission(nokan.PermissionDelete)

		r.With(read).Get("/board", boardHandler.GetBoard)

		// Ticket CRUD
		r.With(read).Get("/tickets", ticketHandler.ListTickets)
		r.With(write).Post("/tickets", ticketHandler.CreateTicket)
		r.With(read).Get("/tickets/{id}", ticketHandler.GetTicket)
		r.With(write).Put("/tickets/{id}", ticketHandler.UpdateTicket)
		r.With(del).Delete("/tickets/{id}", ticketHandler.DeleteTicket)

		// Comments and attachments
		r.With(read).Get("/tickets/{id}/comments", commentHandler.ListComments)
		r.With(write).Post("/tickets/{id}/comments", commentHandler.AddComment)
		r.With(read).Get("/tickets/{id}/attachments", attachmentHandler.ListAttachments)
		r.With(write).Post("/tickets/{id}/attachments", attachmentHandler.AddAttachment)
	})

	return r
}
