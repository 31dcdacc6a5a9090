package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nokan/nokan/pkg/nokan"
)

var ticketCmd = &cobra.Command{
	Use:     "ticket",
	Aliases: []string{"tickets", "t"},
	Short:   "Manage tickets",
}

var ticketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets",
	Long: `List tickets on the board, optionally filtered by column, status or
completion. Columns and statuses may be given by ID or by name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		client, board, err := connect(ctx)
		if err != nil {
			return err
		}

		var opts []nokan.ListTicketsOption
		flags := cmd.Flags()
		if flags.Changed("page") {
			page, _ := flags.GetInt("page")
			opts = append(opts, nokan.WithPage(page))
		}
		if flags.Changed("limit") {
			limit, _ := flags.GetInt("limit")
			opts = append(opts, nokan.WithLimit(limit))
		}
		if flags.Changed("column") {
			value, _ := flags.GetString("column")
			columnID, err := resolveColumn(board, value)
			if err != nil {
				return err
			}
			opts = append(opts, nokan.WithColumnID(columnID))
		}
		if flags.Changed("status") {
			value, _ := flags.GetString("status")
			statusID, err := resolveStatus(board, value)
			if err != nil {
				return err
			}
			opts = append(opts, nokan.WithStatusID(statusID))
		}
		if flags.Changed("completed") {
			completed, _ := flags.GetBool("completed")
			opts = append(opts, nokan.WithCompleted(completed))
		}

		list, err := client.ListTickets(ctx, opts...)
		if err != nil {
			return err
		}

		printTicketList(cmd.OutOrStdout(), board, list, outputFormat)
		return nil
	},
}

var ticketShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show ticket details",
	Long:  `Display a ticket with its comments and attachments.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		client, board, err := connect(ctx)
		if err != nil {
			return err
		}

		detail, err := client.GetTicket(ctx, args[0])
		if err != nil {
			return err
		}

		printTicketDetail(cmd.OutOrStdout(), board, detail, outputFormat)
		return nil
	},
}

var ticketCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a ticket",
	Long: `Create a ticket with the given title. Without --column the ticket goes
into the board's first column; without --priority the server default applies.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		client, board, err := connect(ctx)
		if err != nil {
			return err
		}

		input := nokan.CreateTicketInput{Title: args[0]}
		flags := cmd.Flags()

		if flags.Changed("column") {
			value, _ := flags.GetString("column")
			if input.ColumnID, err = resolveColumn(board, value); err != nil {
				return err
			}
		} else if len(board.Columns) > 0 {
			input.ColumnID = board.Columns[0].ID
		}
		if flags.Changed("description") {
			description, _ := flags.GetString("description")
			input.Description = &description
		}
		if flags.Changed("priority") {
			priority, _ := flags.GetString("priority")
			input.Priority = &priority
		}
		if flags.Changed("status") {
			value, _ := flags.GetString("status")
			statusID, err := resolveStatus(board, value)
			if err != nil {
				return err
			}
			input.StatusID = &statusID
		}

		ticket, err := client.CreateTicket(ctx, input)
		if err != nil {
			return err
		}

		printTicket(cmd.OutOrStdout(), board, ticket, outputFormat)
		return nil
	},
}

var ticketEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a ticket",
	Long: `Change any of a ticket's title, description, priority, column, status or
completion. Only the flags you pass are sent. --status "" clears the status.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		client, board, err := connect(ctx)
		if err != nil {
			return err
		}

		var input nokan.UpdateTicketInput
		flags := cmd.Flags()

		if flags.Changed("title") {
			title, _ := flags.GetString("title")
			input.Title = &title
		}
		if flags.Changed("description") {
			description, _ := flags.GetString("description")
			input.Description = &description
		}
		if flags.Changed("priority") {
			priority, _ := flags.GetString("priority")
			input.Priority = &priority
		}
		if flags.Changed("column") {
			value, _ := flags.GetString("column")
			columnID, err := resolveColumn(board, value)
			if err != nil {
				return err
			}
			input.ColumnID = &columnID
		}
		if flags.Changed("status") {
			value, _ := flags.GetString("status")
			statusID, err := resolveStatusOrClear(board, value)
			if err != nil {
				return err
			}
			input.StatusID = &statusID
		}
		if flags.Changed("completed") {
			completed, _ := flags.GetBool("completed")
			input.Completed = &completed
		}

		ticket, err := client.UpdateTicket(ctx, args[0], input)
		if err != nil {
			return err
		}

		printTicket(cmd.OutOrStdout(), board, ticket, outputFormat)
		return nil
	},
}

var ticketDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a ticket",
	Long:  `Delete a ticket with its comments and attachments. Requires a token with delete permission.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		client, _, err := connect(ctx)
		if err != nil {
			return err
		}

		if err := client.DeleteTicket(ctx, args[0]); err != nil {
			return err
		}

		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Ticket %s deleted", args[0]), outputFormat)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ticketCmd)
	ticketCmd.AddCommand(ticketListCmd, ticketShowCmd, ticketCreateCmd, ticketEditCmd, ticketDeleteCmd)

	ticketListCmd.Flags().Int("page", 1, "Page number")
	ticketListCmd.Flags().Int("limit", 20, "Tickets per page")
	ticketListCmd.Flags().String("column", "", "Filter by column ID or name")
	ticketListCmd.Flags().String("status", "", "Filter by status ID or label")
	ticketListCmd.Flags().Bool("completed", false, "Filter by completion")

	ticketCreateCmd.Flags().String("column", "", "Column ID or name (default: first column)")
	ticketCreateCmd.Flags().StringP("description", "d", "", "Ticket description")
	ticketCreateCmd.Flags().StringP("priority", "p", "", "Priority ID, e.g. high")
	ticketCreateCmd.Flags().String("status", "", "Status ID or label")

	ticketEditCmd.Flags().String("title", "", "New title")
	ticketEditCmd.Flags().StringP("description", "d", "", "New description")
	ticketEditCmd.Flags().StringP("priority", "p", "", "New priority ID")
	ticketEditCmd.Flags().String("column", "", "Move to column (ID or name)")
	ticketEditCmd.Flags().String("status", "", "New status (ID or label, empty to clear)")
	ticketEditCmd.Flags().Bool("completed", false, "Mark completed (--completed=false to reopen)")
}
