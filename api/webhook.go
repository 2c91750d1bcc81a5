package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailpilot/inbox"
	"mailpilot/tools"
)

// webhookPayload is the body pushed to the hub: the structured summary
// plus the pre-rendered notification text.
type webhookPayload struct {
	Summary *inbox.DailySummary `json:"summary"`
	Text    string              `json:"text"`
}

// TriggerWebhook handles POST /api/webhook/trigger: generates the daily
// summary and pushes it to the configured hub webhook.
func (h *Handler) TriggerWebhook(c *gin.Context) {
	if h.webhook.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no webhook URL configured"})
		return
	}

	opts, ok := h.summaryOptions(c)
	if !ok {
		return
	}
	summary, err := h.svc.DailySummary(c.Request.Context(), opts)
	if err != nil {
		h.serverError(c, "daily summary failed", err)
		return
	}

	if err := h.pushWebhook(c, summary); err != nil {
		h.log.Error("webhook push failed", zap.String("url", h.webhook.URL), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.log.Info("webhook delivered",
		zap.String("url", h.webhook.URL),
		zap.Int("total_emails", summary.TotalEmails))
	c.JSON(http.StatusOK, gin.H{
		"delivered":    true,
		"total_emails": summary.TotalEmails,
	})
}

func (h *Handler) pushWebhook(c *gin.Context, summary *inbox.DailySummary) error {
	body, err := json.Marshal(webhookPayload{
		Summary: summary,
		Text:    tools.FormatDailySummary(summary),
	})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.webhook.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.webhook.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.webhook.Token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
