package inbox

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"
	gmailapi "google.golang.org/api/gmail/v1"
)

// Send builds and submits an outgoing message. When ReplyToMessageID is
// set, the original's Message-ID/References headers are fetched to thread
// the reply; failure to fetch them is non-fatal — the send proceeds
// unthreaded with a logged warning.
func (s *Service) Send(ctx context.Context, req SendRequest) *SendResult {
	if len(req.To) == 0 {
		return &SendResult{Error: "at least one recipient is required"}
	}
	if req.Subject == "" {
		return &SendResult{Error: "subject is required"}
	}
	if req.Body == "" {
		return &SendResult{Error: "body is required"}
	}

	var threadID string
	var threading []string
	if req.ReplyToMessageID != "" {
		original, err := s.backend.GetMessage(ctx, req.ReplyToMessageID, FormatMetadata)
		if err != nil {
			s.log.Warn("could not fetch original message for threading, sending unthreaded",
				zap.String("reply_to", req.ReplyToMessageID),
				zap.Error(err))
		} else {
			threadID = original.ThreadId
			threading = threadingHeaders(original)
		}
	}

	raw := buildMIME(req, threading)
	sent, err := s.backend.Send(ctx, raw, threadID)
	if err != nil {
		return &SendResult{Error: err.Error()}
	}

	s.log.Info("email sent",
		zap.String("message_id", sent.Id),
		zap.Strings("to", req.To),
		zap.String("subject", req.Subject))
	return &SendResult{Success: true, MessageID: sent.Id, ThreadID: sent.ThreadId}
}

// threadingHeaders derives In-Reply-To/References lines from the original
// message: In-Reply-To is the original Message-ID, References is the
// original References with the Message-ID appended.
func threadingHeaders(original *gmailapi.Message) []string {
	var headers []*gmailapi.MessagePartHeader
	if original.Payload != nil {
		headers = original.Payload.Headers
	}
	messageID := HeaderValue(headers, "Message-ID")
	if messageID == "" {
		return nil
	}
	references := HeaderValue(headers, "References")
	if references != "" {
		references = references + " " + messageID
	} else {
		references = messageID
	}
	return []string{
		"In-Reply-To: " + messageID,
		"References: " + references,
	}
}

// buildMIME assembles a plain-text RFC 5322 message and base64url-encodes
// it the way the backend's send endpoint expects.
func buildMIME(req SendRequest, threading []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(req.To, ", "))
	if len(req.Cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(req.Cc, ", "))
	}
	if len(req.Bcc) > 0 {
		fmt.Fprintf(&b, "Bcc: %s\r\n", strings.Join(req.Bcc, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", req.Subject)
	for _, h := range threading {
		b.WriteString(h)
		b.WriteString("\r\n")
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(req.Body)
	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}
