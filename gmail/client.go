// Package gmail wraps the Gmail API behind the narrow surface the
// categorization engine consumes: message search and fetch, label CRUD,
// batch label mutation, and send.
package gmail

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"mailpilot/metrics"
)

const user = "me"

// metadataHeaders is the header set requested for metadata-format fetches.
// It covers everything the normalizer reads plus the threading headers
// needed for replies.
var metadataHeaders = []string{
	"From", "To", "Cc", "Reply-To", "Subject", "Date",
	"Message-ID", "In-Reply-To", "References",
}

// Client is the Mail Backend collaborator. It is stateless beyond its
// credential: constructed once at startup and shared by both adapters.
type Client struct {
	svc *gmailapi.Service
	cb  *gobreaker.CircuitBreaker
	log *zap.Logger
}

// NewClient builds a Gmail client from an option (typically
// option.WithTokenSource or option.WithHTTPClient).
func NewClient(ctx context.Context, log *zap.Logger, opts ...option.ClientOption) (*Client, error) {
	svc, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return nil, wrapErr("new_service", err)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "gmail-api",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{svc: svc, cb: cb, log: log}, nil
}

func (c *Client) call(op string, fn func() (any, error)) (any, error) {
	start := time.Now()
	res, err := c.cb.Execute(fn)
	status := "ok"
	if err != nil {
		status = "error"
		c.log.Error("gmail call failed", zap.String("operation", op), zap.Error(err))
	}
	metrics.ObserveBackendCall(op, status, time.Since(start))
	return res, wrapErr(op, err)
}

// SearchMessageIDs lists message IDs matching a Gmail query, newest first,
// along with the backend's result-size estimate.
func (c *Client) SearchMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, int64, error) {
	res, err := c.call("messages.list", func() (any, error) {
		return c.svc.Users.Messages.List(user).Q(query).MaxResults(maxResults).Context(ctx).Do()
	})
	if err != nil {
		return nil, 0, err
	}
	list := res.(*gmailapi.ListMessagesResponse)
	ids := make([]string, 0, len(list.Messages))
	for _, m := range list.Messages {
		ids = append(ids, m.Id)
	}
	return ids, list.ResultSizeEstimate, nil
}

// GetMessage fetches one message. Format "metadata" returns headers only
// (restricted to metadataHeaders); "full" includes the MIME part tree.
func (c *Client) GetMessage(ctx context.Context, id, format string) (*gmailapi.Message, error) {
	res, err := c.call("messages.get", func() (any, error) {
		call := c.svc.Users.Messages.Get(user, id).Format(format).Context(ctx)
		if format == "metadata" {
			call = call.MetadataHeaders(metadataHeaders...)
		}
		return call.Do()
	})
	if err != nil {
		return nil, err
	}
	return res.(*gmailapi.Message), nil
}

// ListLabels returns all labels, system and user.
func (c *Client) ListLabels(ctx context.Context) ([]*gmailapi.Label, error) {
	res, err := c.call("labels.list", func() (any, error) {
		return c.svc.Users.Labels.List(user).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return res.(*gmailapi.ListLabelsResponse).Labels, nil
}

// CreateLabel creates a user label, optionally with custom colors.
func (c *Client) CreateLabel(ctx context.Context, name, backgroundColor, textColor string) (*gmailapi.Label, error) {
	label := &gmailapi.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}
	if backgroundColor != "" || textColor != "" {
		label.Color = &gmailapi.LabelColor{
			BackgroundColor: backgroundColor,
			TextColor:       textColor,
		}
	}
	res, err := c.call("labels.create", func() (any, error) {
		return c.svc.Users.Labels.Create(user, label).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return res.(*gmailapi.Label), nil
}

// DeleteLabel removes a label by ID.
func (c *Client) DeleteLabel(ctx context.Context, id string) error {
	_, err := c.call("labels.delete", func() (any, error) {
		return nil, c.svc.Users.Labels.Delete(user, id).Context(ctx).Do()
	})
	return err
}

// PatchLabel renames a label.
func (c *Client) PatchLabel(ctx context.Context, id, newName string) (*gmailapi.Label, error) {
	res, err := c.call("labels.patch", func() (any, error) {
		return c.svc.Users.Labels.Patch(user, id, &gmailapi.Label{Name: newName}).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return res.(*gmailapi.Label), nil
}

// BatchModify adds/removes labels on up to 1000 messages in one call.
// Chunking to the 1000-ID limit is the caller's responsibility.
func (c *Client) BatchModify(ctx context.Context, ids, addLabelIDs, removeLabelIDs []string) error {
	req := &gmailapi.BatchModifyMessagesRequest{
		Ids:            ids,
		AddLabelIds:    addLabelIDs,
		RemoveLabelIds: removeLabelIDs,
	}
	_, err := c.call("messages.batchModify", func() (any, error) {
		return nil, c.svc.Users.Messages.BatchModify(user, req).Context(ctx).Do()
	})
	return err
}

// Send submits a base64url-encoded RFC 5322 message, optionally within an
// existing thread.
func (c *Client) Send(ctx context.Context, raw, threadID string) (*gmailapi.Message, error) {
	msg := &gmailapi.Message{Raw: raw, ThreadId: threadID}
	res, err := c.call("messages.send", func() (any, error) {
		return c.svc.Users.Messages.Send(user, msg).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return res.(*gmailapi.Message), nil
}
