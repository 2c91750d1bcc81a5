package tools

import (
	"fmt"
	"sort"
	"strings"

	"mailpilot/config"
	"mailpilot/inbox"
)

const (
	timeFormat     = "2006-01-02 15:04"
	longTimeFormat = "2006-01-02 15:04:05"
)

func priorityTag(p config.Priority) string {
	return strings.ToUpper(string(p))
}

// FormatEmailList renders a list of summaries for the assistant.
func FormatEmailList(emails []inbox.EmailSummary) string {
	if len(emails) == 0 {
		return "No emails found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d email(s):\n\n", len(emails))
	for _, e := range emails {
		status := "READ"
		if !e.IsRead {
			status = "UNREAD"
		}
		if e.IsStarred {
			status += " STARRED"
		}
		if e.HasAttachments {
			status += " HAS_ATTACHMENT"
		}
		categories := ""
		if len(e.Categories) > 0 {
			categories = fmt.Sprintf(" [%s]", strings.Join(e.Categories, ", "))
		}
		fmt.Fprintf(&b, "[%s] %s%s\n", status, e.Subject, categories)
		fmt.Fprintf(&b, "   From: %s\n", e.Sender)
		fmt.Fprintf(&b, "   Date: %s\n", e.Date.Format(timeFormat))
		fmt.Fprintf(&b, "   ID: %s\n", e.ID)
		fmt.Fprintf(&b, "   %s\n\n", clip(e.Snippet, 100))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatEmail renders one full email, body truncated for context size.
func FormatEmail(e *inbox.Email) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", e.Subject)
	fmt.Fprintf(&b, "From: %s\n", e.Sender)
	to := make([]string, len(e.To))
	for i, a := range e.To {
		to[i] = a.String()
	}
	fmt.Fprintf(&b, "To: %s\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Date: %s\n", e.Date.Format(longTimeFormat))
	fmt.Fprintf(&b, "Labels: %s\n", strings.Join(e.Labels, ", "))
	if len(e.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(e.Categories, ", "))
	}
	if len(e.Attachments) > 0 {
		names := make([]string, len(e.Attachments))
		for i, a := range e.Attachments {
			names[i] = a.Filename
		}
		fmt.Fprintf(&b, "Attachments: %s\n", strings.Join(names, ", "))
	}
	body := e.BodyText
	if body == "" {
		body = "(No text content)"
	}
	if len(body) > 2000 {
		body = body[:2000] + "\n\n... [truncated]"
	}
	fmt.Fprintf(&b, "\n---\n\n%s", body)
	return b.String()
}

// FormatDailySummary renders the digest.
func FormatDailySummary(s *inbox.DailySummary) string {
	var b strings.Builder
	b.WriteString("Daily Email Summary\n")
	fmt.Fprintf(&b, "Period: %s to %s\n",
		s.PeriodStart.Format(timeFormat), s.PeriodEnd.Format(timeFormat))
	fmt.Fprintf(&b, "Total Emails: %d (%d unread)\n", s.TotalEmails, s.UnreadEmails)

	for _, cat := range s.Categories {
		fmt.Fprintf(&b, "\n[%s] %s (%d unread)\n", priorityTag(cat.Priority), cat.CategoryName, cat.UnreadCount)
		for i, e := range cat.Emails {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "- %s - %s\n", e.Subject, e.Sender.Email)
			fmt.Fprintf(&b, "  %s...\n", clip(e.Snippet, 80))
		}
		if cat.TotalCount > 5 {
			fmt.Fprintf(&b, "  ...and %d more\n", cat.TotalCount-5)
		}
	}

	if len(s.Uncategorized) > 0 {
		fmt.Fprintf(&b, "\n[OTHER] Uncategorized (%d emails)\n", len(s.Uncategorized))
		for i, e := range s.Uncategorized {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "- %s - %s\n", e.Subject, e.Sender.Email)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatCategorySummary renders one category's summary.
func FormatCategorySummary(s *inbox.CategorySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Category: %s\n", s.CategoryName)
	fmt.Fprintf(&b, "Total: %d | Unread: %d\n\n", s.TotalCount, s.UnreadCount)
	for _, e := range s.Emails {
		status := "READ"
		if !e.IsRead {
			status = "UNREAD"
		}
		fmt.Fprintf(&b, "[%s] %s\n", status, e.Subject)
		fmt.Fprintf(&b, "   From: %s | %s\n", e.Sender.Email, e.Date.Format(timeFormat))
		fmt.Fprintf(&b, "   %s...\n", clip(e.Snippet, 100))
		fmt.Fprintf(&b, "   ID: %s\n\n", e.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatInboxStats renders the stat counters.
func FormatInboxStats(s *inbox.InboxStats) string {
	return fmt.Sprintf(
		"Inbox Statistics\n\n- Total Messages: %d\n- Unread: %d\n- Starred: %d\n- Important (Unread): %d\n\nUpdated: %s",
		s.TotalMessages, s.UnreadCount, s.StarredCount, s.ImportantCount,
		s.UpdatedAt.Format(longTimeFormat))
}

// FormatLabels renders labels grouped by system vs user, sorted by name.
func FormatLabels(labels []inbox.Label) string {
	var system, user []inbox.Label
	for _, l := range labels {
		if l.Type == "system" {
			system = append(system, l)
		} else {
			user = append(user, l)
		}
	}
	sort.Slice(system, func(i, j int) bool { return system[i].Name < system[j].Name })
	sort.Slice(user, func(i, j int) bool { return user[i].Name < user[j].Name })

	var b strings.Builder
	b.WriteString("Gmail Labels:\n")
	if len(system) > 0 {
		b.WriteString("\nSystem Labels:\n")
		for _, l := range system {
			fmt.Fprintf(&b, "  - %s (ID: %s)\n", l.Name, l.ID)
		}
	}
	if len(user) > 0 {
		b.WriteString("\nUser Labels:\n")
		for _, l := range user {
			color := ""
			if l.BackgroundColor != "" {
				color = fmt.Sprintf(" [color: %s]", l.BackgroundColor)
			}
			fmt.Fprintf(&b, "  - %s (ID: %s)%s\n", l.Name, l.ID, color)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatCategories renders the configured ruleset.
func FormatCategories(cfg *config.Categories) string {
	var b strings.Builder
	b.WriteString("Configured Email Categories\n")
	for _, cat := range cfg.Ordered() {
		fmt.Fprintf(&b, "\n[%s] %s\n", priorityTag(cat.Priority), cat.Name)
		fmt.Fprintf(&b, "Key: %s | Priority: %s\n", cat.Key, cat.Priority)
		if cat.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", cat.Description)
		}
		if len(cat.Matcher.Senders) > 0 {
			fmt.Fprintf(&b, "Sender patterns: %s\n", strings.Join(cat.Matcher.Senders, ", "))
		}
		if len(cat.Matcher.Subjects) > 0 {
			fmt.Fprintf(&b, "Subject patterns: %s\n", strings.Join(cat.Matcher.Subjects, ", "))
		}
		if len(cat.Matcher.Labels) > 0 {
			fmt.Fprintf(&b, "Labels: %s\n", strings.Join(cat.Matcher.Labels, ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
