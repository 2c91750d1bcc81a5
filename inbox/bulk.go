package inbox

import (
	"context"

	"go.uber.org/zap"
)

const (
	// batchLimit is the backend's ceiling on IDs per batch-modify call.
	batchLimit = 1000

	// byQueryCap bounds how many messages a query-based mutation may touch.
	byQueryCap     = 500
	byQueryDefault = 100
)

// unreadLabel is the reserved backend label whose presence marks a
// message unread.
const unreadLabel = "UNREAD"

// ModifyLabels applies label changes across messageIDs in chunks of at
// most batchLimit. Chunks run sequentially to bound backend-side load; a
// chunk failure stops the loop, preserving prior chunks' counts. Empty
// IDs or no label changes is a no-op result, not an error.
func (s *Service) ModifyLabels(ctx context.Context, messageIDs, addLabelIDs, removeLabelIDs []string) *ModifyResult {
	result := &ModifyResult{Matched: len(messageIDs)}
	if len(messageIDs) == 0 || (len(addLabelIDs) == 0 && len(removeLabelIDs) == 0) {
		result.Matched = 0
		return result
	}

	for start := 0; start < len(messageIDs); start += batchLimit {
		end := start + batchLimit
		if end > len(messageIDs) {
			end = len(messageIDs)
		}
		chunk := messageIDs[start:end]
		if err := s.backend.BatchModify(ctx, chunk, addLabelIDs, removeLabelIDs); err != nil {
			s.log.Error("batch modify chunk failed",
				zap.Int("offset", start),
				zap.Int("size", len(chunk)),
				zap.Error(err))
			result.Errors = append(result.Errors, err.Error())
			break
		}
		result.Succeeded += len(chunk)
	}
	return result
}

// MarkRead removes the UNREAD label from the given messages.
func (s *Service) MarkRead(ctx context.Context, messageIDs []string) *ModifyResult {
	return s.ModifyLabels(ctx, messageIDs, nil, []string{unreadLabel})
}

// MarkUnread adds the UNREAD label to the given messages.
func (s *Service) MarkUnread(ctx context.Context, messageIDs []string) *ModifyResult {
	return s.ModifyLabels(ctx, messageIDs, []string{unreadLabel}, nil)
}

// MarkReadByQuery marks up to maxEmails unread messages matching the
// query as read. When the match count hits the cap, Truncated flags that
// more matches may exist beyond it.
func (s *Service) MarkReadByQuery(ctx context.Context, query string, maxEmails int64) (*ModifyResult, error) {
	return s.markByQuery(ctx, query+" is:unread", maxEmails, s.MarkRead)
}

// MarkUnreadByQuery marks up to maxEmails read messages matching the
// query as unread.
func (s *Service) MarkUnreadByQuery(ctx context.Context, query string, maxEmails int64) (*ModifyResult, error) {
	return s.markByQuery(ctx, query+" -is:unread", maxEmails, s.MarkUnread)
}

func (s *Service) markByQuery(ctx context.Context, query string, maxEmails int64, apply func(context.Context, []string) *ModifyResult) (*ModifyResult, error) {
	if maxEmails <= 0 {
		maxEmails = byQueryDefault
	}
	if maxEmails > byQueryCap {
		maxEmails = byQueryCap
	}

	ids, _, err := s.backend.SearchMessageIDs(ctx, query, maxEmails)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &ModifyResult{}, nil
	}

	result := apply(ctx, ids)
	result.Matched = len(ids)
	result.Truncated = int64(len(ids)) == maxEmails
	return result, nil
}
