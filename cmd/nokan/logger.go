package main

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// newLogger returns the SDK logger. Without --verbose nothing is logged.
// On a terminal the output is text, otherwise JSON.
func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return newStderrLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

func newStderrLogger(w io.Writer, terminal bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelDebug}
	if terminal {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}
