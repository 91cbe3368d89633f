package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/search"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

// SearchHandler serves back-office order search backed by Elasticsearch
type SearchHandler struct {
	elastic *search.ElasticClient
	tracer  tracing.Tracer
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(elastic *search.ElasticClient, tracer tracing.Tracer) *SearchHandler {
	return &SearchHandler{
		elastic: elastic,
		tracer:  tracer,
	}
}

// HandleSearchOrders searches indexed orders. Supports a free-text q over
// customer fields and an optional status filter.
func (h *SearchHandler) HandleSearchOrders(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-search-orders")
	defer h.tracer.EndTransaction(txn)

	if h.elastic == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not available"})
		return
	}

	must := make([]map[string]interface{}, 0, 2)
	if q := c.Query("q"); q != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q,
				"fields": []string{"customer_name", "customer_email", "payment_method"},
			},
		})
	}
	if status := c.Query("status"); status != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"status": status},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
		"sort": []map[string]interface{}{
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
	}

	docs, err := h.elastic.SearchOrders(c.Request.Context(), query)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(docs), "orders": docs})
}

// RegisterRoutes registers the handler's routes
func (h *SearchHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/admin/orders/search", h.HandleSearchOrders)
}
