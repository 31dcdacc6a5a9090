package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/nokan/nokan/internal/config"
	"github.com/nokan/nokan/pkg/nokan"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

const timeLayout = "2006-01-02 15:04"

// styles holds the lipgloss styles bound to one writer. The renderer detects
// whether w is a terminal, so piped output carries no escape codes.
type styles struct {
	heading lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	errText lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		errText: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// printStructured writes v as JSON or YAML. It reports false for the table
// format so the caller renders a table instead.
func printStructured(w io.Writer, v any, format string) bool {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(v)
		return true
	case formatYAML:
		writeYAML(w, v)
		return true
	default:
		return false
	}
}

// writeYAML goes through JSON first so YAML keys match the JSON field names.
func writeYAML(w io.Writer, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	enc.Encode(generic)
	enc.Close()
}

// printBoard prints the connected board and the token's permissions.
func printBoard(w io.Writer, board *nokan.Board, format string) {
	if printStructured(w, board, format) {
		return
	}

	st := newStyles(w)
	fmt.Fprintln(w, st.heading.Render(board.Title))
	fmt.Fprintf(w, "%s %s\n\n", st.muted.Render("id:"), board.ID)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Permissions:\t%s\n", permissionString(board.Permissions))
	fmt.Fprintf(tw, "Columns:\t%s\n", joinColumns(board.Columns))
	fmt.Fprintf(tw, "Statuses:\t%s\n", joinStatuses(board.Statuses))
	fmt.Fprintf(tw, "Priorities:\t%s\n", joinPriorities(board.Priorities))
	tw.Flush()
}

// printTicket prints a single ticket
func printTicket(w io.Writer, board *nokan.Board, ticket *nokan.Ticket, format string) {
	if printStructured(w, ticket, format) {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeTicketFields(tw, board, ticket)
	tw.Flush()
}

// printTicketDetail prints a ticket with its comments and attachments.
func printTicketDetail(w io.Writer, board *nokan.Board, detail *nokan.TicketDetail, format string) {
	if printStructured(w, detail, format) {
		return
	}

	st := newStyles(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeTicketFields(tw, board, &detail.Ticket)
	tw.Flush()

	if len(detail.Comments) > 0 {
		fmt.Fprintf(w, "\n%s\n", st.heading.Render("Comments"))
		writeComments(w, st, detail.Comments)
	}
	if len(detail.Attachments) > 0 {
		fmt.Fprintf(w, "\n%s\n", st.heading.Render("Attachments"))
		writeAttachments(w, detail.Attachments)
	}
}

func writeTicketFields(tw *tabwriter.Writer, board *nokan.Board, ticket *nokan.Ticket) {
	fmt.Fprintf(tw, "ID:\t%s\n", ticket.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", ticket.Title)
	fmt.Fprintf(tw, "Column:\t%s\n", columnLabel(board, ticket))
	fmt.Fprintf(tw, "Status:\t%s\n", statusLabel(board, ticket))
	fmt.Fprintf(tw, "Priority:\t%s\n", priorityLabel(board, ticket.Priority))
	fmt.Fprintf(tw, "Completed:\t%s\n", yesNo(ticket.Completed))
	if ticket.Description != nil && *ticket.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", *ticket.Description)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", ticket.CreatedAt.Local().Format(timeLayout))
	fmt.Fprintf(tw, "Updated:\t%s\n", ticket.UpdatedAt.Local().Format(timeLayout))
}

// printTicketList prints a page of tickets with pagination info
func printTicketList(w io.Writer, board *nokan.Board, list *nokan.TicketList, format string) {
	if printStructured(w, list, format) {
		return
	}

	if len(list.Data) == 0 {
		fmt.Fprintln(w, "No tickets found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tTITLE\tCOLUMN\tSTATUS\tPRIORITY\tDONE\n")
	for _, ticket := range list.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			ticket.ID,
			truncate(ticket.Title, 40),
			columnLabel(board, &ticket),
			statusLabel(board, &ticket),
			priorityLabel(board, ticket.Priority),
			yesNo(ticket.Completed))
	}
	tw.Flush()

	if p := list.Meta.Pagination; p != nil && p.TotalPages > 1 {
		fmt.Fprintf(w, "\n%s\n", newStyles(w).muted.Render(fmt.Sprintf("Page %d of %d (%d total tickets)", p.Page, p.TotalPages, p.Total)))
	}
}

// printComments prints the comments on a ticket
func printComments(w io.Writer, comments []nokan.Comment, format string) {
	if printStructured(w, comments, format) {
		return
	}

	if len(comments) == 0 {
		fmt.Fprintln(w, "No comments")
		return
	}
	writeComments(w, newStyles(w), comments)
}

func writeComments(w io.Writer, st styles, comments []nokan.Comment) {
	for _, c := range comments {
		author := "unknown"
		if c.AuthorName != nil {
			author = *c.AuthorName
		}
		fmt.Fprintf(w, "%s %s\n", st.muted.Render(c.CreatedAt.Local().Format(timeLayout)), st.heading.Render(author))
		fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(c.Content, "\n", "\n  "))
	}
}

// printAttachments prints the attachments on a ticket
func printAttachments(w io.Writer, attachments []nokan.Attachment, format string) {
	if printStructured(w, attachments, format) {
		return
	}

	if len(attachments) == 0 {
		fmt.Fprintln(w, "No attachments")
		return
	}
	writeAttachments(w, attachments)
}

func writeAttachments(w io.Writer, attachments []nokan.Attachment) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tNAME\tSIZE\tTYPE\tADDED\n")
	for _, a := range attachments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.FileName, humanSize(a.FileSize), a.MimeType, a.CreatedAt.Local().Format(timeLayout))
	}
	tw.Flush()
}

// configView is the printable form of a resolved config.
type configView struct {
	Profile       string                   `json:"profile"`
	BaseURL       string                   `json:"base_url"`
	Token         string                   `json:"token"`
	Timeout       string                   `json:"timeout"`
	UploadTimeout string                   `json:"upload_timeout"`
	ProjectFile   string                   `json:"project_file,omitempty"`
	Sources       map[string]config.Source `json:"sources"`
}

// printConfig prints the resolved configuration with the token redacted.
func printConfig(w io.Writer, cfg *config.ResolvedConfig, format string) {
	view := configView{
		Profile:       cfg.Profile,
		BaseURL:       cfg.BaseURL,
		Token:         cfg.RedactedToken(),
		Timeout:       cfg.Timeout.String(),
		UploadTimeout: cfg.UploadTimeout.String(),
		ProjectFile:   cfg.ProjectPath,
		Sources:       cfg.Sources,
	}
	if printStructured(w, view, format) {
		return
	}

	st := newStyles(w)
	source := func(field string) string {
		if src, ok := cfg.Sources[field]; ok {
			return st.muted.Render("(" + string(src) + ")")
		}
		return st.muted.Render("(unset)")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Profile:\t%s\t%s\n", view.Profile, source("profile"))
	fmt.Fprintf(tw, "Base URL:\t%s\t%s\n", view.BaseURL, source("base_url"))
	fmt.Fprintf(tw, "Token:\t%s\t%s\n", view.Token, source("token"))
	fmt.Fprintf(tw, "Timeout:\t%s\t%s\n", view.Timeout, source("timeout"))
	fmt.Fprintf(tw, "Upload timeout:\t%s\t%s\n", view.UploadTimeout, source("upload_timeout"))
	if view.ProjectFile != "" {
		fmt.Fprintf(tw, "Project file:\t%s\t\n", view.ProjectFile)
	}
	tw.Flush()
}

// printError prints an error message
func printError(w io.Writer, err error, format string) {
	body := map[string]any{"message": err.Error()}
	var apiErr *nokan.APIError
	if errors.As(err, &apiErr) {
		body["code"] = apiErr.Code
		if apiErr.StatusCode != 0 {
			body["status"] = apiErr.StatusCode
		}
	}
	if printStructured(w, map[string]any{"error": body}, format) {
		return
	}

	st := newStyles(w)
	fmt.Fprintf(w, "%s %s\n", st.errText.Render("Error:"), err.Error())
}

// printSuccess prints a success message
func printSuccess(w io.Writer, message string, format string) {
	if printStructured(w, map[string]any{"message": message}, format) {
		return
	}

	fmt.Fprintln(w, newStyles(w).success.Render(message))
}

func columnLabel(board *nokan.Board, ticket *nokan.Ticket) string {
	if ticket.Column != nil && ticket.Column.Title != "" {
		return ticket.Column.Title
	}
	if col, ok := board.Column(ticket.ColumnID); ok {
		return col.Title
	}
	return ticket.ColumnID
}

func statusLabel(board *nokan.Board, ticket *nokan.Ticket) string {
	if ticket.Status != nil && ticket.Status.Label != "" {
		return ticket.Status.Label
	}
	if ticket.StatusID == nil {
		return "-"
	}
	if s, ok := board.Status(*ticket.StatusID); ok {
		return s.Label
	}
	return *ticket.StatusID
}

func priorityLabel(board *nokan.Board, id string) string {
	if p, ok := board.Priority(id); ok {
		return p.Label
	}
	return id
}

func permissionString(p nokan.Permissions) string {
	var granted []string
	for _, perm := range []nokan.Permission{nokan.PermissionRead, nokan.PermissionWrite, nokan.PermissionDelete} {
		if p.Allows(perm) {
			granted = append(granted, string(perm))
		}
	}
	if len(granted) == 0 {
		return "none"
	}
	return strings.Join(granted, ", ")
}

func joinColumns(cols []nokan.Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Title
	}
	return strings.Join(names, " → ")
}

func joinStatuses(statuses []nokan.Status) string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.Label
	}
	return strings.Join(names, ", ")
}

func joinPriorities(priorities []nokan.Priority) string {
	names := make([]string, len(priorities))
	for i, p := range priorities {
		names[i] = p.ID
	}
	return strings.Join(names, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
