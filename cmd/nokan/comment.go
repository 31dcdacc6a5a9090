package main

import (
	"github.com/spf13/cobra"

	"github.com/nokan/nokan/pkg/nokan"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage ticket comments",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <ticket-id> <content>",
	Short: "Add a comment to a ticket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		client, _, err := connect(ctx)
		if err != nil {
			return err
		}

		comment, err := client.AddComment(ctx, args[0], nokan.CreateCommentInput{Content: args[1]})
		if err != nil {
			return err
		}

		printComments(cmd.OutOrStdout(), []nokan.Comment{*comment}, outputFormat)
		return nil
	},
}

var commentListCmd = &cobra.Command{
	Use:   "list <ticket-id>",
	Short: "List the comments on a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		client, _, err := connect(ctx)
		if err != nil {
			return err
		}

		comments, err := client.ListComments(ctx, args[0])
		if err != nil {
			return err
		}

		printComments(cmd.OutOrStdout(), comments, outputFormat)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commentCmd)
	commentCmd.AddCommand(commentAddCmd, commentListCmd)
}
