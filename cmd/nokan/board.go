package main

import (
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the token's board",
	Long:  `Connect to the board the token belongs to and show its columns, statuses, priorities and the token's permissions.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		client, _, err := connect(ctx)
		if err != nil {
			return err
		}

		board, err := client.GetBoard(ctx)
		if err != nil {
			return err
		}

		printBoard(cmd.OutOrStdout(), board, outputFormat)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
