// Package digest renders the daily summary for the terminal. It is the
// only terminal-facing output; everything else speaks JSON or plain text.
package digest

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mailpilot/config"
	"mailpilot/inbox"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("63")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	periodStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "244"})
	totalsStyle = lipgloss.NewStyle().Bold(true)

	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginTop(1)
	subjectStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"})
	senderStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "244"})
	snippetStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "238"}).PaddingLeft(4)
	moreStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "238"}).PaddingLeft(2)

	priorityStyles = map[config.Priority]lipgloss.Style{
		config.PriorityCritical: lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("196")).Foreground(lipgloss.Color("255")).Padding(0, 1),
		config.PriorityHigh:     lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("208")).Foreground(lipgloss.Color("232")).Padding(0, 1),
		config.PriorityNormal:   lipgloss.NewStyle().Background(lipgloss.Color("28")).Foreground(lipgloss.Color("255")).Padding(0, 1),
		config.PriorityLow:      lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("250")).Padding(0, 1),
	}
)

const timeFormat = "Mon Jan 2 15:04"

// Render formats the summary as a styled terminal digest.
func Render(s *inbox.DailySummary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Daily Email Digest"))
	b.WriteString("\n")
	b.WriteString(periodStyle.Render(fmt.Sprintf("%s — %s",
		s.PeriodStart.Format(timeFormat), s.PeriodEnd.Format(timeFormat))))
	b.WriteString("\n")
	b.WriteString(totalsStyle.Render(fmt.Sprintf("%d emails, %d unread", s.TotalEmails, s.UnreadEmails)))
	b.WriteString("\n")

	for _, cat := range s.Categories {
		b.WriteString(renderCategory(cat))
	}

	if len(s.Uncategorized) > 0 {
		b.WriteString(categoryStyle.Render(fmt.Sprintf("Uncategorized (%d)", len(s.Uncategorized))))
		b.WriteString("\n")
		for _, e := range s.Uncategorized {
			b.WriteString(renderEmail(e))
		}
	}

	return b.String()
}

func renderCategory(cat inbox.CategorySummary) string {
	var b strings.Builder
	badge, ok := priorityStyles[cat.Priority]
	if !ok {
		badge = priorityStyles[config.PriorityNormal]
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		badge.Render(strings.ToUpper(string(cat.Priority))),
		" ",
		categoryStyle.MarginTop(0).Render(cat.CategoryName),
		senderStyle.Render(fmt.Sprintf("  %d total, %d unread", cat.TotalCount, cat.UnreadCount)),
	)
	b.WriteString("\n")
	b.WriteString(header)
	b.WriteString("\n")
	for _, e := range cat.Emails {
		b.WriteString(renderEmail(e))
	}
	if hidden := cat.TotalCount - len(cat.Emails); hidden > 0 {
		b.WriteString(moreStyle.Render(fmt.Sprintf("...and %d more", hidden)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderEmail(e inbox.EmailSummary) string {
	var b strings.Builder
	marker := "  "
	if !e.IsRead {
		marker = "• "
	}
	b.WriteString(marker)
	b.WriteString(subjectStyle.Render(e.Subject))
	b.WriteString(senderStyle.Render("  " + e.Sender.Email))
	b.WriteString("\n")
	if snippet := strings.TrimSpace(e.Snippet); snippet != "" {
		if len(snippet) > 80 {
			snippet = snippet[:80] + "..."
		}
		b.WriteString(snippetStyle.Render(snippet))
		b.WriteString("\n")
	}
	return b.String()
}
