package inbox

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	gmailapi "google.golang.org/api/gmail/v1"

	"mailpilot/config"
	"mailpilot/metrics"
)

const (
	// FormatMetadata fetches headers only; FormatFull includes the part tree.
	FormatMetadata = "metadata"
	FormatFull     = "full"

	defaultMaxResults = 20
	searchCap         = 100

	// fetchConcurrency bounds parallel per-message detail fetches.
	fetchConcurrency = 5
)

// Backend is the remote mail provider consumed by the engine. All
// operations address opaque backend-assigned string IDs.
type Backend interface {
	SearchMessageIDs(ctx context.Context, query string, maxResults int64) (ids []string, estimate int64, err error)
	GetMessage(ctx context.Context, id, format string) (*gmailapi.Message, error)
	ListLabels(ctx context.Context) ([]*gmailapi.Label, error)
	CreateLabel(ctx context.Context, name, backgroundColor, textColor string) (*gmailapi.Label, error)
	DeleteLabel(ctx context.Context, id string) error
	PatchLabel(ctx context.Context, id, newName string) (*gmailapi.Label, error)
	BatchModify(ctx context.Context, ids, addLabelIDs, removeLabelIDs []string) error
	Send(ctx context.Context, raw, threadID string) (*gmailapi.Message, error)
}

// Service composes parsing, categorization, and aggregation over a Backend.
// It holds no per-request state; one instance serves both adapters.
type Service struct {
	backend Backend
	cfg     *config.Categories
	log     *zap.Logger
	now     func() time.Time
}

// NewService builds the engine over a backend and a loaded ruleset.
func NewService(backend Backend, cfg *config.Categories, log *zap.Logger) *Service {
	return &Service{backend: backend, cfg: cfg, log: log, now: time.Now}
}

// Categories exposes the active ruleset for the config tool.
func (s *Service) Categories() *config.Categories { return s.cfg }

// parseMessage turns one raw record into a canonical Email. Categorization
// always runs; body extraction only when includeBody is set (attachment
// metadata is extracted either way).
func (s *Service) parseMessage(msg *gmailapi.Message, includeBody bool) *Email {
	var headers []*gmailapi.MessagePartHeader
	if msg.Payload != nil {
		headers = msg.Payload.Headers
	}

	subject := HeaderValue(headers, "Subject")
	if subject == "" {
		subject = "(No Subject)"
	}

	email := &Email{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Subject:  subject,
		Snippet:  msg.Snippet,
		Sender:   ParseAddress(HeaderValue(headers, "From")),
		To:       ParseAddressList(HeaderValue(headers, "To")),
		Cc:       ParseAddressList(HeaderValue(headers, "Cc")),
		Date:     MessageDate(msg),
		Labels:   msg.LabelIds,
	}
	if raw := HeaderValue(headers, "Reply-To"); raw != "" {
		replyTo := ParseAddress(raw)
		email.ReplyTo = &replyTo
	}

	email.IsRead = !hasLabel(msg.LabelIds, "UNREAD")
	email.IsStarred = hasLabel(msg.LabelIds, "STARRED")
	email.IsImportant = hasLabel(msg.LabelIds, "IMPORTANT")

	if msg.Payload != nil {
		if includeBody {
			email.BodyText, email.BodyHTML = ExtractBody(msg.Payload)
		}
		email.Attachments = ExtractAttachments(msg.Payload)
	}
	email.HasAttachments = len(email.Attachments) > 0

	email.Categories = Categorize(email, s.cfg)
	email.Priority = ResolvePriority(email.Categories, s.cfg)
	if len(email.Categories) > 0 {
		metrics.EmailsCategorized.WithLabelValues("matched").Inc()
	} else {
		metrics.EmailsCategorized.WithLabelValues("uncategorized").Inc()
	}
	return email
}

// Summary projects an Email into its list-view form.
func Summary(e *Email) EmailSummary {
	return EmailSummary{
		ID:             e.ID,
		ThreadID:       e.ThreadID,
		Subject:        e.Subject,
		Snippet:        e.Snippet,
		Sender:         e.Sender,
		Date:           e.Date,
		IsRead:         e.IsRead,
		IsStarred:      e.IsStarred,
		Labels:         e.Labels,
		Categories:     e.Categories,
		HasAttachments: e.HasAttachments,
	}
}

// GetEmail fetches a single message with full content.
func (s *Service) GetEmail(ctx context.Context, messageID string) (*Email, error) {
	if messageID == "" {
		return nil, fmt.Errorf("message ID is required")
	}
	msg, err := s.backend.GetMessage(ctx, messageID, FormatFull)
	if err != nil {
		return nil, err
	}
	return s.parseMessage(msg, true), nil
}

// ListEmails searches and normalizes matching messages, preserving search
// order. Detail fetches run concurrently; category filtering happens
// client-side after normalization.
func (s *Service) ListEmails(ctx context.Context, q SearchQuery) ([]EmailSummary, error) {
	if q.MaxResults <= 0 {
		q.MaxResults = defaultMaxResults
	}
	if q.MaxResults > searchCap {
		q.MaxResults = searchCap
	}

	query := BuildQuery(q)
	s.log.Debug("searching emails", zap.String("query", query), zap.Int64("max", q.MaxResults))

	ids, _, err := s.backend.SearchMessageIDs(ctx, query, q.MaxResults)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []EmailSummary{}, nil
	}

	emails := make([]*Email, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			msg, err := s.backend.GetMessage(gctx, id, FormatMetadata)
			if err != nil {
				return err
			}
			emails[i] = s.parseMessage(msg, false)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]EmailSummary, 0, len(emails))
	for _, email := range emails {
		if q.Category != "" && !containsString(email.Categories, q.Category) {
			continue
		}
		summaries = append(summaries, Summary(email))
	}
	return summaries, nil
}

// SearchEmails is the free-text search entry point used by the tools.
func (s *Service) SearchEmails(ctx context.Context, query string, maxResults int64) ([]EmailSummary, error) {
	return s.ListEmails(ctx, SearchQuery{FreeText: query, MaxResults: maxResults})
}

// UnreadCount returns the backend's estimate of unread inbox messages.
func (s *Service) UnreadCount(ctx context.Context) (int64, error) {
	_, estimate, err := s.backend.SearchMessageIDs(ctx, "is:unread in:inbox", 1)
	return estimate, err
}

// InboxStats issues four independent count queries concurrently; they
// target disjoint results and combine only after all complete.
func (s *Service) InboxStats(ctx context.Context) (*InboxStats, error) {
	stats := &InboxStats{UpdatedAt: s.now().UTC()}
	counts := []struct {
		query string
		dest  *int64
	}{
		{"in:inbox", &stats.TotalMessages},
		{"is:unread in:inbox", &stats.UnreadCount},
		{"is:starred", &stats.StarredCount},
		{"is:important is:unread", &stats.ImportantCount},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range counts {
		c := c
		g.Go(func() error {
			_, estimate, err := s.backend.SearchMessageIDs(gctx, c.query, 1)
			if err != nil {
				return err
			}
			*c.dest = estimate
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// DailySummaryOptions carries optional overrides; zero values fall back
// to the configured summary settings.
type DailySummaryOptions struct {
	LookbackHours int
	IncludeRead   *bool
}

// DailySummary fetches one recent batch and buckets it by category. An
// email matching several categories is listed and counted under each;
// TotalEmails still counts it once.
func (s *Service) DailySummary(ctx context.Context, opts DailySummaryOptions) (*DailySummary, error) {
	lookback := opts.LookbackHours
	if lookback <= 0 {
		lookback = s.cfg.LookbackHours()
	}
	includeRead := s.cfg.Summary.IncludeRead
	if opts.IncludeRead != nil {
		includeRead = *opts.IncludeRead
	}
	maxPerCategory := s.cfg.MaxPerCategory()

	now := s.now().UTC()
	periodStart := now.Add(-time.Duration(lookback) * time.Hour)

	q := SearchQuery{After: periodStart, MaxResults: searchCap}
	if !includeRead {
		unread := true
		q.IsUnread = &unread
	}

	all, err := s.ListEmails(ctx, q)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string][]EmailSummary)
	var uncategorized []EmailSummary
	unreadTotal := 0
	for _, email := range all {
		if !email.IsRead {
			unreadTotal++
		}
		if len(email.Categories) == 0 {
			uncategorized = append(uncategorized, email)
			continue
		}
		for _, key := range email.Categories {
			buckets[key] = append(buckets[key], email)
		}
	}

	var categories []CategorySummary
	for _, cat := range s.cfg.Ordered() {
		matched := buckets[cat.Key]
		if len(matched) == 0 {
			continue
		}
		categories = append(categories, CategorySummary{
			CategoryKey:  cat.Key,
			CategoryName: cat.Name,
			Priority:     cat.Priority,
			TotalCount:   len(matched),
			UnreadCount:  countUnread(matched),
			Emails:       truncate(matched, maxPerCategory),
		})
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Priority.Rank() < categories[j].Priority.Rank()
	})

	return &DailySummary{
		GeneratedAt:   now,
		PeriodStart:   periodStart,
		PeriodEnd:     now,
		TotalEmails:   len(all),
		UnreadEmails:  unreadTotal,
		Categories:    categories,
		Uncategorized: truncate(uncategorized, maxPerCategory),
	}, nil
}

// CategorySummary reports one category's unread mail from an independent
// fetch. Unknown keys yield ErrNotFound.
func (s *Service) CategorySummary(ctx context.Context, categoryKey string) (*CategorySummary, error) {
	cat, ok := s.cfg.Get(categoryKey)
	if !ok {
		return nil, fmt.Errorf("category %q: %w", categoryKey, ErrNotFound)
	}

	unread := true
	emails, err := s.ListEmails(ctx, SearchQuery{
		Category:   categoryKey,
		IsUnread:   &unread,
		MaxResults: 50,
	})
	if err != nil {
		return nil, err
	}

	return &CategorySummary{
		CategoryKey:  cat.Key,
		CategoryName: cat.Name,
		Priority:     cat.Priority,
		TotalCount:   len(emails),
		UnreadCount:  countUnread(emails),
		Emails:       truncate(emails, s.cfg.MaxPerCategory()),
	}, nil
}

// Labels lists all backend labels, normalized.
func (s *Service) Labels(ctx context.Context) ([]Label, error) {
	raw, err := s.backend.ListLabels(ctx)
	if err != nil {
		return nil, err
	}
	labels := make([]Label, 0, len(raw))
	for _, l := range raw {
		label := Label{ID: l.Id, Name: l.Name, Type: l.Type}
		if l.Color != nil {
			label.BackgroundColor = l.Color.BackgroundColor
		}
		labels = append(labels, label)
	}
	return labels, nil
}

// FindLabelByName resolves a label case-insensitively, yielding
// ErrNotFound when absent.
func (s *Service) FindLabelByName(ctx context.Context, name string) (*Label, error) {
	labels, err := s.Labels(ctx)
	if err != nil {
		return nil, err
	}
	for i := range labels {
		if strings.EqualFold(labels[i].Name, name) {
			return &labels[i], nil
		}
	}
	return nil, fmt.Errorf("label %q: %w", name, ErrNotFound)
}

// CreateLabel creates a user label with optional colors.
func (s *Service) CreateLabel(ctx context.Context, name, backgroundColor, textColor string) (*Label, error) {
	if name == "" {
		return nil, fmt.Errorf("label name is required")
	}
	created, err := s.backend.CreateLabel(ctx, name, backgroundColor, textColor)
	if err != nil {
		return nil, err
	}
	s.log.Info("created label", zap.String("name", name), zap.String("id", created.Id))
	return &Label{ID: created.Id, Name: created.Name, Type: created.Type}, nil
}

// DeleteLabel removes a label by ID.
func (s *Service) DeleteLabel(ctx context.Context, labelID string) error {
	if labelID == "" {
		return fmt.Errorf("label ID is required")
	}
	if err := s.backend.DeleteLabel(ctx, labelID); err != nil {
		return err
	}
	s.log.Info("deleted label", zap.String("id", labelID))
	return nil
}

// RenameLabel renames a label by ID.
func (s *Service) RenameLabel(ctx context.Context, labelID, newName string) (*Label, error) {
	if labelID == "" || newName == "" {
		return nil, fmt.Errorf("label ID and new name are required")
	}
	patched, err := s.backend.PatchLabel(ctx, labelID, newName)
	if err != nil {
		return nil, err
	}
	s.log.Info("renamed label", zap.String("id", labelID), zap.String("name", newName))
	return &Label{ID: patched.Id, Name: patched.Name, Type: patched.Type}, nil
}

func hasLabel(labels []string, name string) bool {
	for _, l := range labels {
		if l == name {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func countUnread(emails []EmailSummary) int {
	n := 0
	for _, e := range emails {
		if !e.IsRead {
			n++
		}
	}
	return n
}

func truncate(emails []EmailSummary, max int) []EmailSummary {
	if len(emails) > max {
		return emails[:max]
	}
	return emails
}
