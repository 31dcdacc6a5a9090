package nokan

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"
)

// defaultAttachmentName is used when no name is given and none can be
// inferred from the reader.
const defaultAttachmentName = "attachment"

// AddAttachment uploads file to a ticket as a multipart form. When fileName
// is empty the name is taken from the reader's Name method (as on *os.File),
// falling back to "attachment".
func (c *Client) AddAttachment(ctx context.Context, ticketID string, file io.Reader, fileName string) (*Attachment, error) {
	if err := c.guard(PermissionWrite); err != nil {
		return nil, err
	}
	if err := requireTicketID(ticketID); err != nil {
		return nil, err
	}
	if isNilReader(file) {
		return nil, invalidField("file", "file is required")
	}

	var resp envelope[Attachment]
	if err := c.upload(ctx, ticketPath(ticketID, "/attachments"), file, attachmentName(file, fileName), &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}

// ListAttachments lists all attachments on a ticket. The result is not
// paginated.
func (c *Client) ListAttachments(ctx context.Context, ticketID string) ([]Attachment, error) {
	if err := c.guard(PermissionRead); err != nil {
		return nil, err
	}
	if err := requireTicketID(ticketID); err != nil {
		return nil, err
	}

	var resp envelope[[]Attachment]
	if err := c.request(ctx, http.MethodGet, ticketPath(ticketID, "/attachments"), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

// attachmentName picks the multipart file name.
func attachmentName(file io.Reader, fileName string) string {
	if name := strings.TrimSpace(fileName); name != "" {
		return name
	}
	if named, ok := file.(interface{ Name() string }); ok {
		if base := filepath.Base(named.Name()); base != "" && base != "." && base != string(filepath.Separator) {
			return base
		}
	}
	return defaultAttachmentName
}

// isNilReader reports whether file is nil, including a typed nil pointer such
// as the *os.File left behind by a failed os.Open.
func isNilReader(file io.Reader) bool {
	if file == nil {
		return true
	}
	v := reflect.ValueOf(file)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
