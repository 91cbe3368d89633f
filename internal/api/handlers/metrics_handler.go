package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/metrics"
)

// MetricsHandler exposes operational metrics and health
type MetricsHandler struct {
	metrics *metrics.Metrics
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(m *metrics.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: m}
}

// HandleMetrics returns all collected metrics
func (h *MetricsHandler) HandleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.GetAllMetrics())
}

// HandleHealth reports component health. Any unhealthy component turns
// the overall status degraded but still returns 200; orchestration reads
// the body.
func (h *MetricsHandler) HandleHealth(c *gin.Context) {
	checks := h.metrics.GetHealthChecks()

	status := "healthy"
	for _, healthy := range checks {
		if !healthy {
			status = "degraded"
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"checks": checks,
		"uptime": h.metrics.GetUptimeSeconds(),
	})
}

// RegisterRoutes registers the handler's routes
func (h *MetricsHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/metrics", h.HandleMetrics)
	router.GET("/health", h.HandleHealth)
}
