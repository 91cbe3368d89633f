package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/services"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

// ReviewHandler handles review moderation HTTP requests
type ReviewHandler struct {
	reviewService *services.ReviewService
	tracer        tracing.Tracer
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService, tracer tracing.Tracer) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		tracer:        tracer,
	}
}

// SubmitReviewRequest is the customer review payload
type SubmitReviewRequest struct {
	CustomerID uint   `json:"customer_id" binding:"required"`
	MenuItemID uint   `json:"menu_item_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Title      string `json:"title"`
	Comment    string `json:"comment"`
}

// ModerateReviewRequest is the moderation payload
type ModerateReviewRequest struct {
	Status     string `json:"status" binding:"required"`
	IsFeatured bool   `json:"is_featured"`
	AdminNotes string `json:"admin_notes"`
}

// HandleSubmitReview stores a new review for moderation
func (h *ReviewHandler) HandleSubmitReview(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-submit-review")
	defer h.tracer.EndTransaction(txn)

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.SubmitReview(c.Request.Context(), services.SubmitReviewInput{
		CustomerID: req.CustomerID,
		MenuItemID: req.MenuItemID,
		Rating:     req.Rating,
		Title:      req.Title,
		Comment:    req.Comment,
	})
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// HandleGetReview returns a review by id
func (h *ReviewHandler) HandleGetReview(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	review, err := h.reviewService.GetReview(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// HandleModerateReview sets a review's moderation status
func (h *ReviewHandler) HandleModerateReview(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-moderate-review")
	defer h.tracer.EndTransaction(txn)

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	var req ModerateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reviewService.UpdateReviewStatus(c.Request.Context(), id, req.Status, req.IsFeatured, req.AdminNotes); err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review_id": id, "status": req.Status})
}

// RegisterRoutes registers the handler's routes
func (h *ReviewHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/reviews", h.HandleSubmitReview)
	router.GET("/api/reviews/:id", h.HandleGetReview)
	router.PATCH("/api/reviews/:id/status", h.HandleModerateReview)
}
