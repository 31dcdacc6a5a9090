package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nokan",
	Short: "nokan board CLI",
	Long: `A command-line client for a nokan board's public API.

The token decides the board and what you may do on it. Configure it with
'nokan login', the NOKAN_TOKEN environment variable, or --token.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateOutputFormat(outputFormat)
	},
}

// Global flags
var (
	outputFormat string
	profileFlag  string
	baseURLFlag  string
	tokenFlag    string
	timeoutFlag  time.Duration
	verbose      bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&outputFormat, "output", "o", formatTable, "Output format: table, json or yaml")
	flags.StringVar(&profileFlag, "profile", "", "Profile from ~/.nokan/config.toml")
	flags.StringVar(&baseURLFlag, "base-url", "", "API origin, e.g. https://app.nokan.io")
	flags.StringVar(&tokenFlag, "token", "", "API token (prefer NOKAN_TOKEN or 'nokan login')")
	flags.DurationVar(&timeoutFlag, "timeout", 0, "Request timeout, e.g. 10s")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log HTTP requests to stderr")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		handleError(err)
	}
}

func validateOutputFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use table, json or yaml)", format)
	}
}

// handleError prints the error and exits with the mapped code.
func handleError(err error) {
	if err == nil {
		return
	}

	printError(os.Stderr, err, outputFormat)
	os.Exit(mapErrorToExitCode(err))
}
