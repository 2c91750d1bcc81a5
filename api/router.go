package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mailpilot/metrics"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), metricsMiddleware())

	// Health first so probes never contend with API routes.
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.GET("/health", h.Health)
	r.HEAD("/health", h.Health)

	api := r.Group("/api")
	{
		api.GET("/unread", h.Unread)
		api.GET("/unread/categories", h.UnreadByCategory)
		api.GET("/stats", h.Stats)
		api.GET("/summary/daily", h.DailySummary)
		api.GET("/summary/daily/text", h.DailySummaryText)
		api.GET("/summary/category/:key", h.CategorySummary)
		api.GET("/tools", h.ListTools)
		api.POST("/tools/:name", h.CallTool)
		api.POST("/webhook/trigger", h.TriggerWebhook)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// metricsMiddleware records request duration per route template. The
// template (not the raw URL) keeps label cardinality bounded.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
