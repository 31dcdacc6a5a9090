package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nokan/nokan/internal/store"
	"github.com/nokan/nokan/pkg/nokan"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo board with tokens",
	Long: `Create a board with three columns, three statuses and the default
priorities, plus read-only, read-write and full-access tokens.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		seeded, err := store.Seed(cmd.Context(), st.DB(), store.SeedOptions{BoardTitle: title})
		if err != nil {
			return err
		}

		printTokens(cmd.OutOrStdout(), seeded.BoardID, seeded.Tokens)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage sandbox API tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue <board-id> <name>",
	Short: "Issue a token for a board",
	Long:  `Issue a token for a board. Every token can read; --write and --delete add grants.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		write, _ := cmd.Flags().GetBool("write")
		del, _ := cmd.Flags().GetBool("delete")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		perms := nokan.Permissions{Read: true, Write: write, Delete: del}
		issued, err := store.IssueToken(cmd.Context(), st.DB(), args[0], args[1], perms, 0, time.Now().UTC())
		if err != nil {
			return err
		}

		printTokens(cmd.OutOrStdout(), args[0], []store.IssuedToken{*issued})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd, tokenCmd)
	tokenCmd.AddCommand(tokenIssueCmd)

	seedCmd.Flags().String("title", store.DefaultBoardTitle, "Board title")
	tokenIssueCmd.Flags().Bool("write", false, "Grant write")
	tokenIssueCmd.Flags().Bool("delete", false, "Grant delete")
}

// printTokens lists tokens in clear. They are not recoverable afterwards.
func printTokens(w io.Writer, boardID string, tokens []store.IssuedToken) {
	fmt.Fprintf(w, "Board: %s\n\n", boardID)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREAD\tWRITE\tDELETE\tTOKEN")
	for _, t := range tokens {
		fmt.Fprintf(tw, "%s\t%t\t%t\t%t\t%s\n", t.Name, t.Permissions.Read, t.Permissions.Write, t.Permissions.Delete, t.Token)
	}
	tw.Flush()

	fmt.Fprintln(w, "\nStore these tokens now; only their hashes are kept.")
}
