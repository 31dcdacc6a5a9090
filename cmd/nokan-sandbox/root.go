package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nokan/nokan/internal/store"
)

// DefaultDBPath is the sandbox database path relative to the home directory.
const DefaultDBPath = ".nokan/sandbox.db"

var rootCmd = &cobra.Command{
	Use:   "nokan-sandbox",
	Short: "Local nokan public API sandbox",
	Long: `Serve a local implementation of the nokan public API backed by SQLite.

Point the SDK or the nokan CLI at it with NOKAN_BASE_URL=http://localhost:7480.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var dbPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: ~/.nokan/sandbox.db)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the database named by --db or the default path.
func openStore() (*store.Store, error) {
	path := dbPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDBPath)
	}
	return store.Open(path)
}
