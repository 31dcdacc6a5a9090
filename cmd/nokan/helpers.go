package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/nokan/nokan/internal/config"
	"github.com/nokan/nokan/pkg/nokan"
)

// userAgent identifies the CLI to the server.
const userAgent = "nokan-cli/" + nokan.Version

// resolveConfig merges config files, environment and global flags.
func resolveConfig() (*config.ResolvedConfig, error) {
	return config.ResolveConfig(config.Overrides{
		Profile: profileFlag,
		BaseURL: baseURLFlag,
		Token:   tokenFlag,
		Timeout: timeoutFlag,
	})
}

// newClient builds an SDK client for the resolved config.
func newClient(cfg *config.ResolvedConfig) (*nokan.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return nokan.NewClient(
		nokan.WithBaseURL(cfg.BaseURL),
		nokan.WithToken(cfg.Token),
		nokan.WithTimeout(cfg.Timeout),
		nokan.WithUploadTimeout(cfg.UploadTimeout),
		nokan.WithLogger(newLogger(verbose)),
		nokan.WithUserAgent(userAgent+" nokan-go/"+nokan.Version),
	)
}

// connect resolves config, builds a client and runs board discovery.
func connect(ctx context.Context) (*nokan.Client, *nokan.Board, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, nil, err
	}

	client, err := newClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	result, err := client.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}

	return client, boardFromConnect(result), nil
}

// boardFromConnect exposes the discovery result as a board so its lookup
// helpers can render labels.
func boardFromConnect(r *nokan.ConnectResult) *nokan.Board {
	return &nokan.Board{
		ID:          r.BoardID,
		Title:       r.Title,
		Columns:     r.Columns,
		Statuses:    r.Statuses,
		Priorities:  r.Priorities,
		Permissions: r.Permissions,
	}
}

// commandContext is cancelled on interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// mapErrorToExitCode maps an error to the appropriate exit code
func mapErrorToExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case nokan.IsTimeout(err), nokan.IsNetwork(err):
		return ExitNetworkError
	case nokan.IsNotFound(err):
		return ExitNotFound
	case nokan.IsAuthentication(err), nokan.IsPermissionDenied(err):
		return ExitPermissionError
	case nokan.IsValidation(err):
		return ExitValidationError
	case nokan.IsRateLimited(err):
		return ExitRateLimited
	default:
		return ExitGeneralError
	}
}

// resolveColumn accepts a column ID or a case-insensitive column title.
func resolveColumn(board *nokan.Board, value string) (string, error) {
	if col, ok := board.Column(value); ok {
		return col.ID, nil
	}
	for _, col := range board.Columns {
		if strings.EqualFold(col.Title, value) {
			return col.ID, nil
		}
	}
	return "", &nokan.ValidationError{
		APIError: nokan.APIError{Message: fmt.Sprintf("unknown column %q", value), Code: nokan.ErrCodeValidation},
		Field:    "column",
	}
}

// resolveStatus accepts a status ID or a case-insensitive label.
func resolveStatus(board *nokan.Board, value string) (string, error) {
	if value == "" {
		return "", &nokan.ValidationError{
			APIError: nokan.APIError{Message: "status must not be empty", Code: nokan.ErrCodeValidation},
			Field:    "status",
		}
	}
	if s, ok := board.Status(value); ok {
		return s.ID, nil
	}
	for _, s := range board.Statuses {
		if strings.EqualFold(s.Label, value) {
			return s.ID, nil
		}
	}
	return "", &nokan.ValidationError{
		APIError: nokan.APIError{Message: fmt.Sprintf("unknown status %q", value), Code: nokan.ErrCodeValidation},
		Field:    "status",
	}
}

// resolveStatusOrClear is resolveStatus for edits, where an empty value
// clears the ticket's status.
func resolveStatusOrClear(board *nokan.Board, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return resolveStatus(board, value)
}
