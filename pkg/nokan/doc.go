// Package nokan provides a Go SDK for a nokan board's public REST API.
//
// A client is bound to one API token, and a token is bound to one board. Before
// any other call the client must run board discovery with Connect, which
// caches the token's permissions. Every later call checks the cached
// permissions locally before it touches the network.
//
// # Getting Started
//
//	client, err := nokan.NewClient(
//	    nokan.WithBaseURL("https://app.nokan.io"),
//	    nokan.WithToken(os.Getenv("NOKAN_TOKEN")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	board, err := client.Connect(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Tickets
//
// Create a ticket in a column:
//
//	ticket, err := client.CreateTicket(ctx, nokan.CreateTicketInput{
//	    Title:    "Fix login redirect",
//	    ColumnID: board.Columns[0].ID,
//	    Priority: nokan.String("high"),
//	})
//
// List tickets with filters:
//
//	page, err := client.ListTickets(ctx,
//	    nokan.WithColumnID(columnID),
//	    nokan.WithCompleted(false),
//	    nokan.WithPage(2),
//	    nokan.WithLimit(10),
//	)
//
// Move a ticket and mark it done:
//
//	ticket, err := client.UpdateTicket(ctx, ticketID, nokan.UpdateTicketInput{
//	    ColumnID:  nokan.String(doneColumnID),
//	    Completed: nokan.Bool(true),
//	})
//
// # Comments and Attachments
//
//	comment, err := client.AddComment(ctx, ticketID, nokan.CreateCommentInput{Content: "On it"})
//
//	f, _ := os.Open("screenshot.png")
//	defer f.Close()
//	attachment, err := client.AddAttachment(ctx, ticketID, f, "")
//
// # Error Handling
//
// Every error is an *APIError or one of the kind-specific types that unwrap to
// it. Use errors.As for the extra fields, or the Is* helpers:
//
//	_, err := client.CreateTicket(ctx, input)
//	var rl *nokan.RateLimitError
//	switch {
//	case errors.As(err, &rl):
//	    time.Sleep(rl.RetryAfterDuration())
//	case nokan.IsPermissionDenied(err):
//	    // token lacks write
//	case nokan.IsValidation(err):
//	    // bad input
//	case nokan.IsNotConnected(err):
//	    // Connect was not called
//	}
//
// The client never retries; backoff is the caller's decision.
//
// # Configuration Options
//
//	nokan.WithBaseURL(url)             // Required: API origin
//	nokan.WithToken(token)             // Required: bearer token
//	nokan.WithTimeout(d)               // Optional: request timeout (default: 30s)
//	nokan.WithUploadTimeout(d)         // Optional: upload timeout (default: 5m)
//	nokan.WithHTTPClient(hc)           // Optional: custom *http.Client
//	nokan.WithLogger(logger)           // Optional: *slog.Logger for debug tracing
//	nokan.WithUserAgent(ua)            // Optional: User-Agent override
package nokan
