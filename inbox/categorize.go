package inbox

import (
	"strings"

	"mailpilot/config"
)

// Categorize evaluates an email against the ruleset and returns all
// matching category keys in rule-evaluation order. For each category the
// sub-rules run sender, subject, then label; any single match qualifies
// the category and skips its remaining sub-rules.
func Categorize(e *Email, cfg *config.Categories) []string {
	senderEmail := strings.ToLower(e.Sender.Email)
	senderName := strings.ToLower(e.Sender.Name)
	subject := strings.ToLower(e.Subject)

	var matched []string
	for _, cat := range cfg.Ordered() {
		if matchesCategory(cat.Matcher, senderEmail, senderName, subject, e.Labels) {
			matched = append(matched, cat.Key)
		}
	}
	return matched
}

func matchesCategory(m config.Matcher, senderEmail, senderName, subject string, labels []string) bool {
	for _, pattern := range m.Senders {
		if strings.Contains(senderEmail, pattern) || strings.Contains(senderName, pattern) {
			return true
		}
	}
	for _, pattern := range m.Subjects {
		if strings.Contains(subject, pattern) {
			return true
		}
	}
	for _, name := range m.Labels {
		for _, label := range labels {
			if strings.EqualFold(label, name) {
				return true
			}
		}
	}
	return false
}

// ResolvePriority returns the lowest-rank priority among the matched
// categories, or normal when nothing matched.
func ResolvePriority(matched []string, cfg *config.Categories) config.Priority {
	best := config.PriorityNormal
	bestRank := best.Rank()
	for _, key := range matched {
		cat, ok := cfg.Get(key)
		if !ok {
			continue
		}
		if r := cat.Priority.Rank(); r < bestRank {
			best = cat.Priority
			bestRank = r
		}
	}
	return best
}
