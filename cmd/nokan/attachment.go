package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nokan/nokan/pkg/nokan"
)

var attachmentCmd = &cobra.Command{
	Use:   "attachment",
	Short: "Manage ticket attachments",
}

var attachmentAddCmd = &cobra.Command{
	Use:   "add <ticket-id> <file>",
	Short: "Upload a file to a ticket",
	Long:  `Upload a file to a ticket. The file name defaults to the base name of the path.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[1], err)
		}
		defer f.Close()

		client, _, err := connect(ctx)
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		attachment, err := client.AddAttachment(ctx, args[0], f, name)
		if err != nil {
			return err
		}

		printAttachments(cmd.OutOrStdout(), []nokan.Attachment{*attachment}, outputFormat)
		return nil
	},
}

var attachmentListCmd = &cobra.Command{
	Use:   "list <ticket-id>",
	Short: "List the attachments on a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		client, _, err := connect(ctx)
		if err != nil {
			return err
		}

		attachments, err := client.ListAttachments(ctx, args[0])
		if err != nil {
			return err
		}

		printAttachments(cmd.OutOrStdout(), attachments, outputFormat)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(attachmentCmd)
	attachmentCmd.AddCommand(attachmentAddCmd, attachmentListCmd)

	attachmentAddCmd.Flags().String("name", "", "File name to store (default: base name of the path)")
}
