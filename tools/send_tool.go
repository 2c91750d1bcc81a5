package tools

import (
	"context"
	"fmt"
	"strings"

	"mailpilot/inbox"
)

type sendEmailTool struct {
	svc *inbox.Service
}

func (t *sendEmailTool) Name() string { return "gmail_send_email" }

func (t *sendEmailTool) Description() string {
	return "Send a plain-text email, optionally as a threaded reply to an existing message. Preview first with confirm=false."
}

func (t *sendEmailTool) Parameters() []ParameterSpec {
	return []ParameterSpec{
		{Name: "to", Type: "string", Description: "Comma-separated recipient addresses", Required: true},
		{Name: "subject", Type: "string", Description: "Email subject line", Required: true},
		{Name: "body", Type: "string", Description: "Plain-text email body", Required: true},
		{Name: "cc", Type: "string", Description: "Comma-separated CC addresses"},
		{Name: "bcc", Type: "string", Description: "Comma-separated BCC addresses"},
		{Name: "reply_to_message_id", Type: "string", Description: "Message ID to reply to; threads the email into that conversation"},
		{Name: "confirm", Type: "boolean", Description: "Must be true to actually send; false previews", Required: true},
	}
}

func (t *sendEmailTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	req := inbox.SendRequest{
		To:               csvArg(args, "to"),
		Cc:               csvArg(args, "cc"),
		Bcc:              csvArg(args, "bcc"),
		Subject:          stringArg(args, "subject", ""),
		Body:             stringArg(args, "body", ""),
		ReplyToMessageID: stringArg(args, "reply_to_message_id", ""),
	}
	if len(req.To) == 0 {
		return errorResult("to is required"), nil
	}
	if req.Subject == "" {
		return errorResult("subject is required"), nil
	}
	if req.Body == "" {
		return errorResult("body is required"), nil
	}

	if !boolArg(args, "confirm", false) {
		var b strings.Builder
		b.WriteString("Preview: this email would be sent.\n\n")
		fmt.Fprintf(&b, "To: %s\n", strings.Join(req.To, ", "))
		if len(req.Cc) > 0 {
			fmt.Fprintf(&b, "Cc: %s\n", strings.Join(req.Cc, ", "))
		}
		if len(req.Bcc) > 0 {
			fmt.Fprintf(&b, "Bcc: %s\n", strings.Join(req.Bcc, ", "))
		}
		fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
		if req.ReplyToMessageID != "" {
			fmt.Fprintf(&b, "In reply to: %s\n", req.ReplyToMessageID)
		}
		body := req.Body
		if len(body) > 500 {
			body = body[:500] + "\n... [truncated]"
		}
		fmt.Fprintf(&b, "\n%s\n", body)
		b.WriteString("\nSet confirm=true to send.")
		return successResult(b.String()), nil
	}

	result := t.svc.Send(ctx, req)
	if !result.Success {
		return errorResult("failed to send email: %s", result.Error), nil
	}
	text := fmt.Sprintf("Email sent. Message ID: %s", result.MessageID)
	if result.ThreadID != "" {
		text += fmt.Sprintf(" (thread %s)", result.ThreadID)
	}
	return successResult(text), nil
}
