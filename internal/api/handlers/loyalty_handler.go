package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/services"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

// LoyaltyHandler handles loyalty ledger HTTP requests
type LoyaltyHandler struct {
	loyaltyService *services.LoyaltyService
	tracer         tracing.Tracer
}

// NewLoyaltyHandler creates a new loyalty handler
func NewLoyaltyHandler(loyaltyService *services.LoyaltyService, tracer tracing.Tracer) *LoyaltyHandler {
	return &LoyaltyHandler{
		loyaltyService: loyaltyService,
		tracer:         tracer,
	}
}

// AdjustPointsRequest is the admin point-adjustment payload. Delta is
// signed: positive awards, negative redeems.
type AdjustPointsRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// HandleAdjustPoints applies a point adjustment to a customer
func (h *LoyaltyHandler) HandleAdjustPoints(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-adjust-points")
	defer h.tracer.EndTransaction(txn)

	customerID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	var req AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := h.loyaltyService.AdjustPoints(c.Request.Context(), customerID, req.Delta, req.Reason)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer_id": customerID, "balance": balance})
}

// HandleGetLedger returns a customer's ledger entries, newest first
func (h *LoyaltyHandler) HandleGetLedger(c *gin.Context) {
	customerID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	transactions, err := h.loyaltyService.Ledger(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer_id": customerID, "transactions": transactions})
}

// RegisterRoutes registers the handler's routes
func (h *LoyaltyHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/customers/:id/points", h.HandleAdjustPoints)
	router.GET("/api/customers/:id/points", h.HandleGetLedger)
}
