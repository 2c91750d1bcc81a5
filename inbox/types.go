// Package inbox is the categorization and summarization engine. It turns
// raw Gmail message records into canonical emails, assigns them to
// user-configured categories, and aggregates priority-ordered digests.
package inbox

import (
	"errors"
	"fmt"
	"time"

	"mailpilot/config"
)

// ErrNotFound signals an unknown category key or label name. It is a
// result value at the engine boundary so adapters can render a friendly
// message instead of a stack trace.
var ErrNotFound = errors.New("inbox: not found")

// EmailAddress is an address with optional display name.
type EmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// String renders "Name <email>" when a display name is present.
func (a EmailAddress) String() string {
	if a.Name != "" {
		return fmt.Sprintf("%s <%s>", a.Name, a.Email)
	}
	return a.Email
}

// EmailAttachment is attachment metadata; the payload stays on the
// backend, addressed by AttachmentID.
type EmailAttachment struct {
	Filename     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	AttachmentID string `json:"attachment_id"`
}

// Email is the canonical normalized message.
type Email struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	Subject  string `json:"subject"`
	Snippet  string `json:"snippet"`
	BodyText string `json:"body_text,omitempty"`
	BodyHTML string `json:"body_html,omitempty"`

	Sender  EmailAddress   `json:"sender"`
	To      []EmailAddress `json:"to,omitempty"`
	Cc      []EmailAddress `json:"cc,omitempty"`
	ReplyTo *EmailAddress  `json:"reply_to,omitempty"`

	Date        time.Time `json:"date"`
	Labels      []string  `json:"labels,omitempty"`
	IsRead      bool      `json:"is_read"`
	IsStarred   bool      `json:"is_starred"`
	IsImportant bool      `json:"is_important"`

	Attachments    []EmailAttachment `json:"attachments,omitempty"`
	HasAttachments bool              `json:"has_attachments"`

	// Categories holds matched category keys in rule-evaluation order.
	Categories []string        `json:"categories,omitempty"`
	Priority   config.Priority `json:"priority"`
}

// EmailSummary is the list-view projection of Email.
type EmailSummary struct {
	ID             string       `json:"id"`
	ThreadID       string       `json:"thread_id"`
	Subject        string       `json:"subject"`
	Snippet        string       `json:"snippet"`
	Sender         EmailAddress `json:"sender"`
	Date           time.Time    `json:"date"`
	IsRead         bool         `json:"is_read"`
	IsStarred      bool         `json:"is_starred"`
	Labels         []string     `json:"labels,omitempty"`
	Categories     []string     `json:"categories,omitempty"`
	HasAttachments bool         `json:"has_attachments"`
}

// CategorySummary aggregates one category's matched emails. TotalCount and
// UnreadCount cover the full matched set; Emails is truncated for display.
type CategorySummary struct {
	CategoryKey  string          `json:"category_key"`
	CategoryName string          `json:"category_name"`
	Priority     config.Priority `json:"priority"`
	TotalCount   int             `json:"total_count"`
	UnreadCount  int             `json:"unread_count"`
	Emails       []EmailSummary  `json:"emails"`
}

// DailySummary is the digest over one fetched batch; counts reflect that
// batch, not the whole mailbox.
type DailySummary struct {
	GeneratedAt   time.Time         `json:"generated_at"`
	PeriodStart   time.Time         `json:"period_start"`
	PeriodEnd     time.Time         `json:"period_end"`
	TotalEmails   int               `json:"total_emails"`
	UnreadEmails  int               `json:"unread_emails"`
	Categories    []CategorySummary `json:"categories"`
	Uncategorized []EmailSummary    `json:"uncategorized"`
}

// SearchQuery is a structured search request. Category is matched
// client-side after fetch; it never becomes a query token.
type SearchQuery struct {
	FreeText      string
	Sender        string
	Subject       string
	Labels        []string
	Category      string
	IsUnread      *bool
	HasAttachment bool
	After         time.Time
	Before        time.Time
	MaxResults    int64
}

// InboxStats holds four independent backend counts.
type InboxStats struct {
	TotalMessages  int64     `json:"total_messages"`
	UnreadCount    int64     `json:"unread_count"`
	StarredCount   int64     `json:"starred_count"`
	ImportantCount int64     `json:"important_count"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Label is a backend label, normalized.
type Label struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	BackgroundColor string `json:"background_color,omitempty"`
}

// ModifyResult reports a bulk mutation. Partial success is expected: the
// backend has no multi-item transaction, so Succeeded counts the chunks
// that went through before any failure.
type ModifyResult struct {
	Matched   int      `json:"matched"`
	Succeeded int      `json:"succeeded"`
	Truncated bool     `json:"truncated"`
	Errors    []string `json:"errors,omitempty"`
}

// SendRequest describes an outgoing email.
type SendRequest struct {
	To               []string
	Cc               []string
	Bcc              []string
	Subject          string
	Body             string
	ReplyToMessageID string
}

// SendResult reports a send attempt.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	ThreadID  string `json:"thread_id,omitempty"`
	Error     string `json:"error,omitempty"`
}
