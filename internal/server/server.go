// Package server provides the HTTP server lifecycle for the sandbox API.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nokan/nokan/internal/api"
	"github.com/nokan/nokan/internal/store"
)

const (
	// DefaultAddress is the default address the server listens on.
	DefaultAddress = "localhost:7480"
	// DefaultShutdownTimeout is the default timeout for graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// Options configures a Server.
type Options struct {
	Logger            *slog.Logger
	RequestsPerMinute int
	Burst             int
}

// Server manages the HTTP server lifecycle.
type Server struct {
	httpServer *http.Server
	store      *store.Store
	logger     *slog.Logger
	listener   net.Listener
	mu         sync.Mutex
	started    bool
}

// New creates a new Server instance serving the store's board.
// If addr is empty, DefaultAddress will be used.
func New(addr string, st *store.Store, opts Options) *Server {
	if addr == "" {
		addr = DefaultAddress
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	router := api.NewRouter(st.DB(), api.Options{
		Logger:            logger,
		RequestsPerMinute: opts.RequestsPerMinute,
		Burst:             opts.Burst,
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			// Uploads may take a while.
			ReadTimeout:  5 * time.Minute,
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		store:  st,
		logger: logger,
	}
}

// Start starts the HTTP server and blocks until the server is shut down.
// It returns http.ErrServerClosed when the server is gracefully shut down.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	// Create listener first so we know the actual address (for port 0 case)
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.listener = ln
	s.started = true
	s.mu.Unlock()

	s.logger.Info("server listening", "addr", ln.Addr().String(), "db", s.store.Path())

	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info("shutting down server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	if err := s.store.Close(); err != nil {
		s.logger.Warn("error closing store", "error", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Addr returns the address the server is listening on.
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// ListenAndServe starts the server and shuts it down gracefully on SIGINT,
// SIGTERM or when ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	return s.Shutdown(shutdownCtx)
}
