package tools

import (
	"context"
	"fmt"
	"strings"

	"mailpilot/inbox"
)

type markReadByIDsTool struct {
	svc *inbox.Service
}

func (t *markReadByIDsTool) Name() string { return "gmail_mark_read" }

func (t *markReadByIDsTool) Description() string {
	return "Mark specific emails as read by their message IDs."
}

func (t *markReadByIDsTool) Parameters() []ParameterSpec {
	return []ParameterSpec{
		{Name: "email_ids", Type: "string", Description: "Comma-separated message IDs to mark as read", Required: true},
		{Name: "confirm", Type: "boolean", Description: "Must be true to actually modify; false previews", Required: true},
	}
}

func (t *markReadByIDsTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	ids := csvArg(args, "email_ids")
	if len(ids) == 0 {
		return errorResult("email_ids is required"), nil
	}
	if !boolArg(args, "confirm", false) {
		return successResult(fmt.Sprintf(
			"Preview: %d email(s) would be marked as read. Set confirm=true to proceed.", len(ids))), nil
	}
	result := t.svc.MarkRead(ctx, ids)
	if result.Succeeded == 0 && len(result.Errors) > 0 {
		return errorResult("failed to mark emails as read: %v", result.Errors), nil
	}
	text := fmt.Sprintf("Marked %d email(s) as read.", result.Succeeded)
	if len(result.Errors) > 0 {
		text += fmt.Sprintf(" Errors: %v", result.Errors)
	}
	return successResult(text), nil
}

type markReadByQueryTool struct {
	svc *inbox.Service
}

func (t *markReadByQueryTool) Name() string { return "gmail_mark_read_by_query" }

func (t *markReadByQueryTool) Description() string {
	return "Mark all unread emails matching a Gmail search query as read. Preview first with confirm=false to see what would be affected."
}

func (t *markReadByQueryTool) Parameters() []ParameterSpec {
	return []ParameterSpec{
		{Name: "query", Type: "string", Description: "Gmail search query, e.g. 'from:newsletter@example.com'", Required: true},
		{Name: "max_emails", Type: "integer", Description: "Maximum emails to modify (max 500)", Default: 100},
		{Name: "confirm", Type: "boolean", Description: "Must be true to actually modify; false previews", Required: true},
	}
}

func (t *markReadByQueryTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	query := stringArg(args, "query", "")
	if query == "" {
		return errorResult("query is required"), nil
	}
	maxEmails := intArg(args, "max_emails", 100)

	if !boolArg(args, "confirm", false) {
		previewMax := maxEmails
		if previewMax > 20 {
			previewMax = 20
		}
		matches, err := t.svc.SearchEmails(ctx, query+" is:unread", previewMax)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return successResult(fmt.Sprintf("No unread emails match query: %s", query)), nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Preview: the following unread email(s) would be marked as read (showing up to %d):\n\n", previewMax)
		for _, e := range matches {
			fmt.Fprintf(&b, "- %s (from %s)\n", e.Subject, e.Sender)
		}
		b.WriteString("\nSet confirm=true to proceed.")
		return successResult(b.String()), nil
	}

	result, err := t.svc.MarkReadByQuery(ctx, query, maxEmails)
	if err != nil {
		return nil, err
	}
	if result.Matched == 0 {
		return successResult(fmt.Sprintf("No unread emails match query: %s", query)), nil
	}
	text := fmt.Sprintf("Marked %d of %d matching email(s) as read.", result.Succeeded, result.Matched)
	if result.Truncated {
		text += " The match limit was reached; more unread emails may match this query."
	}
	if len(result.Errors) > 0 {
		text += fmt.Sprintf(" Errors: %v", result.Errors)
	}
	return successResult(text), nil
}
