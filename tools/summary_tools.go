package tools

import (
	"context"
	"errors"

	"mailpilot/inbox"
)

type dailySummaryTool struct {
	svc *inbox.Service
}

func (t *dailySummaryTool) Name() string { return "gmail_daily_summary" }

func (t *dailySummaryTool) Description() string {
	return "Generate a summary of recent emails organized by configured category, with unread counts and top emails per category."
}

func (t *dailySummaryTool) Parameters() []ParameterSpec {
	return []ParameterSpec{
		{Name: "hours", Type: "integer", Description: "How many hours back to look", Default: 24},
		{Name: "include_read", Type: "boolean", Description: "Include already-read emails", Default: false},
	}
}

func (t *dailySummaryTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	opts := inbox.DailySummaryOptions{LookbackHours: int(intArg(args, "hours", 0))}
	if v, ok := args["include_read"].(bool); ok {
		opts.IncludeRead = &v
	}
	summary, err := t.svc.DailySummary(ctx, opts)
	if err != nil {
		return nil, err
	}
	return successResult(FormatDailySummary(summary)), nil
}

type categorySummaryTool struct {
	svc *inbox.Service
}

func (t *categorySummaryTool) Name() string { return "gmail_category_summary" }

func (t *categorySummaryTool) Description() string {
	return "Get a summary of unread emails in one configured category."
}

func (t *categorySummaryTool) Parameters() []ParameterSpec {
	return []ParameterSpec{
		{Name: "category", Type: "string", Description: "Category key to summarize", Required: true},
	}
}

func (t *categorySummaryTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	key := stringArg(args, "category", "")
	if key == "" {
		return errorResult("category is required"), nil
	}
	summary, err := t.svc.CategorySummary(ctx, key)
	if err != nil {
		if errors.Is(err, inbox.ErrNotFound) {
			return errorResult("unknown category: %s", key), nil
		}
		return nil, err
	}
	return successResult(FormatCategorySummary(summary)), nil
}

type inboxStatsTool struct {
	svc *inbox.Service
}

func (t *inboxStatsTool) Name() string { return "gmail_inbox_stats" }

func (t *inboxStatsTool) Description() string {
	return "Get current inbox statistics: total messages, unread, starred, and important counts."
}

func (t *inboxStatsTool) Parameters() []ParameterSpec { return nil }

func (t *inboxStatsTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	stats, err := t.svc.InboxStats(ctx)
	if err != nil {
		return nil, err
	}
	return successResult(FormatInboxStats(stats)), nil
}

type getCategoriesTool struct {
	svc *inbox.Service
}

func (t *getCategoriesTool) Name() string { return "gmail_get_categories" }

func (t *getCategoriesTool) Description() string {
	return "List the configured email categories and their matching rules."
}

func (t *getCategoriesTool) Parameters() []ParameterSpec { return nil }

func (t *getCategoriesTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	return successResult(FormatCategories(t.svc.Categories())), nil
}
