// Package api is the REST adapter: a thin gin surface over the engine
// for a home-automation hub, plus the tool registry exposed over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailpilot/config"
	"mailpilot/inbox"
	"mailpilot/tools"
)

// categoriesLookbackHours is the window for the per-category unread
// counts endpoint; a week keeps slow categories from reading as empty.
const categoriesLookbackHours = 168

// Handler bundles the engine and registry behind the HTTP routes.
type Handler struct {
	svc           *inbox.Service
	registry      *tools.Registry
	webhook       config.WebhookConfig
	log           *zap.Logger
	authenticated bool
}

// NewHandler wires the REST surface. authenticated reports whether a
// mail backend token was available at startup; health checks expose it
// so the hub can alert on expired credentials.
func NewHandler(svc *inbox.Service, registry *tools.Registry, webhook config.WebhookConfig, authenticated bool, log *zap.Logger) *Handler {
	return &Handler{
		svc:           svc,
		registry:      registry,
		webhook:       webhook,
		log:           log,
		authenticated: authenticated,
	}
}

// Health handles GET/HEAD /healthz and /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"authenticated": h.authenticated,
	})
}

// Unread handles GET /api/unread: the unread-count sensor.
func (h *Handler) Unread(c *gin.Context) {
	count, err := h.svc.UnreadCount(c.Request.Context())
	if err != nil {
		h.serverError(c, "unread count failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// UnreadByCategory handles GET /api/unread/categories: per-category
// unread counts over the last week.
func (h *Handler) UnreadByCategory(c *gin.Context) {
	summary, err := h.svc.DailySummary(c.Request.Context(), inbox.DailySummaryOptions{
		LookbackHours: categoriesLookbackHours,
	})
	if err != nil {
		h.serverError(c, "category counts failed", err)
		return
	}
	counts := make(map[string]int, len(summary.Categories))
	for _, cat := range summary.Categories {
		counts[cat.CategoryKey] = cat.UnreadCount
	}
	c.JSON(http.StatusOK, gin.H{
		"categories":    counts,
		"uncategorized": len(summary.Uncategorized),
	})
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.InboxStats(c.Request.Context())
	if err != nil {
		h.serverError(c, "inbox stats failed", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DailySummary handles GET /api/summary/daily?hours=24&include_read=false.
func (h *Handler) DailySummary(c *gin.Context) {
	opts, ok := h.summaryOptions(c)
	if !ok {
		return
	}
	summary, err := h.svc.DailySummary(c.Request.Context(), opts)
	if err != nil {
		h.serverError(c, "daily summary failed", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DailySummaryText handles GET /api/summary/daily/text: the same digest
// rendered as notification-ready plain text.
func (h *Handler) DailySummaryText(c *gin.Context) {
	opts, ok := h.summaryOptions(c)
	if !ok {
		return
	}
	summary, err := h.svc.DailySummary(c.Request.Context(), opts)
	if err != nil {
		h.serverError(c, "daily summary failed", err)
		return
	}
	c.String(http.StatusOK, tools.FormatDailySummary(summary))
}

func (h *Handler) summaryOptions(c *gin.Context) (inbox.DailySummaryOptions, bool) {
	var opts inbox.DailySummaryOptions
	if raw := c.Query("hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours < 1 || hours > 168 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be an integer between 1 and 168"})
			return opts, false
		}
		opts.LookbackHours = hours
	}
	if raw := c.Query("include_read"); raw != "" {
		includeRead, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "include_read must be a boolean"})
			return opts, false
		}
		opts.IncludeRead = &includeRead
	}
	return opts, true
}

// CategorySummary handles GET /api/summary/category/:key.
func (h *Handler) CategorySummary(c *gin.Context) {
	summary, err := h.svc.CategorySummary(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, inbox.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown category: " + c.Param("key")})
			return
		}
		h.serverError(c, "category summary failed", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListTools handles GET /api/tools: names, descriptions, and parameter
// schemas for every registered tool.
func (h *Handler) ListTools(c *gin.Context) {
	list := h.registry.List()
	out := make([]gin.H, 0, len(list))
	for _, t := range list {
		out = append(out, gin.H{
			"name":        t.Name(),
			"description": t.Description(),
			"parameters":  t.Parameters(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"tools": out})
}

// CallTool handles POST /api/tools/:name with a JSON arguments object.
func (h *Handler) CallTool(c *gin.Context) {
	var args map[string]any
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&args); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid arguments: " + err.Error()})
			return
		}
	}
	res := h.registry.Call(c.Request.Context(), c.Param("name"), args)
	c.JSON(http.StatusOK, res)
}

func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
