package inbox

import (
	"fmt"
	"strings"
)

const queryDateFormat = "2006/01/02"

// BuildQuery translates a structured search into Gmail query syntax.
// Category filtering is not expressible in that syntax; it is applied
// client-side after fetch and never contributes a token here.
func BuildQuery(q SearchQuery) string {
	var parts []string
	if q.FreeText != "" {
		parts = append(parts, q.FreeText)
	}
	if q.Sender != "" {
		parts = append(parts, "from:"+q.Sender)
	}
	if q.Subject != "" {
		parts = append(parts, "subject:"+q.Subject)
	}
	if q.IsUnread != nil {
		if *q.IsUnread {
			parts = append(parts, "is:unread")
		} else {
			parts = append(parts, "is:read")
		}
	}
	if q.HasAttachment {
		parts = append(parts, "has:attachment")
	}
	if !q.After.IsZero() {
		parts = append(parts, "after:"+q.After.Format(queryDateFormat))
	}
	if !q.Before.IsZero() {
		parts = append(parts, "before:"+q.Before.Format(queryDateFormat))
	}
	for _, label := range q.Labels {
		parts = append(parts, fmt.Sprintf("label:%s", label))
	}
	if len(parts) == 0 {
		return "in:inbox"
	}
	return strings.Join(parts, " ")
}
