package tools

import (
	"context"

	"mailpilot/inbox"
)

type searchTool struct {
	svc *inbox.Service
}

func (t *searchTool) Name() string { return "gmail_search" }

func (t *searchTool) Description() string {
	return "Search emails using Gmail query syntax. Returns matching emails with subject, sender, date, and snippet. Supports operators like 'from:', 'subject:', 'is:unread', 'has:attachment', 'after:', 'before:'."
}

func (t *searchTool) Parameters() []ParameterSpec {
	return []ParameterSpec{
		{Name: "query", Type: "string", Description: "Gmail search query string, e.g. 'from:john@example.com is:unread'", Required: true},
		{Name: "max_results", Type: "integer", Description: "Maximum number of emails to return (1-100)", Default: 20},
	}
}

func (t *searchTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	query := stringArg(args, "query", "")
	if query == "" {
		return errorResult("query is required"), nil
	}
	results, err := t.svc.SearchEmails(ctx, query, intArg(args, "max_results", 20))
	if err != nil {
		return nil, err
	}
	return successResult(FormatEmailList(results)), nil
}

type listUnreadTool struct {
	svc *inbox.Service
}

func (t *listUnreadTool) Name() string { return "gmail_list_unread" }

func (t *listUnreadTool) Description() string {
	return "List unread emails from the inbox, optionally filtered by a configured category."
}

func (t *listUnreadTool) Parameters() []ParameterSpec {
	return []ParameterSpec{
		{Name: "category", Type: "string", Description: "Filter by configured category key. Leave empty for all unread emails."},
		{Name: "max_results", Type: "integer", Description: "Maximum number of emails to return", Default: 20},
	}
}

func (t *listUnreadTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	category := stringArg(args, "category", "")
	if category != "" {
		if _, ok := t.svc.Categories().Get(category); !ok {
			return errorResult("unknown category: %s", category), nil
		}
	}
	unread := true
	results, err := t.svc.ListEmails(ctx, inbox.SearchQuery{
		IsUnread:   &unread,
		Category:   category,
		MaxResults: intArg(args, "max_results", 20),
	})
	if err != nil {
		return nil, err
	}
	return successResult(FormatEmailList(results)), nil
}

type getEmailTool struct {
	svc *inbox.Service
}

func (t *getEmailTool) Name() string { return "gmail_get_email" }

func (t *getEmailTool) Description() string {
	return "Get the full content of one email by its message ID: subject, sender, recipients, date, labels, and body text."
}

func (t *getEmailTool) Parameters() []ParameterSpec {
	return []ParameterSpec{
		{Name: "email_id", Type: "string", Description: "Message ID from search or list results", Required: true},
	}
}

func (t *getEmailTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	id := stringArg(args, "email_id", "")
	if id == "" {
		return errorResult("email_id is required"), nil
	}
	email, err := t.svc.GetEmail(ctx, id)
	if err != nil {
		return nil, err
	}
	return successResult(FormatEmail(email)), nil
}
