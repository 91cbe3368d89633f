package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/services"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

// NotificationHandler serves the derived admin notification feed
type NotificationHandler struct {
	notificationService *services.NotificationService
	tracer              tracing.Tracer
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService, tracer tracing.Tracer) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		tracer:              tracer,
	}
}

// HandleListNotifications rebuilds and returns the feed. Filters come in
// as query parameters: type, status, date_from, date_to (RFC 3339).
func (h *NotificationHandler) HandleListNotifications(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-list-notifications")
	defer h.tracer.EndTransaction(txn)

	filter := services.NotificationFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
	}

	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must be RFC 3339"})
			return
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_to must be RFC 3339"})
			return
		}
		filter.DateTo = &to
	}

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), filter)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(notifications), "notifications": notifications})
}

// RegisterRoutes registers the handler's routes
func (h *NotificationHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/admin/notifications", h.HandleListNotifications)
}
