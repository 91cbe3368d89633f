package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/services"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *services.OrderService
	tracer       tracing.Tracer
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService, tracer tracing.Tracer) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		tracer:       tracer,
	}
}

// PlaceOrderRequest is the storefront checkout payload. Items carry menu
// ids and quantities; prices are snapshotted server-side from the menu.
type PlaceOrderRequest struct {
	CustomerID          *uint              `json:"customer_id"`
	CustomerName        string             `json:"customer_name" binding:"required"`
	CustomerEmail       string             `json:"customer_email"`
	CustomerPhone       string             `json:"customer_phone"`
	OrderType           string             `json:"order_type" binding:"required"`
	Items               []OrderItemRequest `json:"items" binding:"required"`
	DeliveryAddress     string             `json:"delivery_address"`
	SpecialInstructions string             `json:"special_instructions"`
	PaymentMethod       string             `json:"payment_method"`
	IdempotencyKey      *uuid.UUID         `json:"idempotency_key"`
}

// OrderItemRequest is one requested order line
type OrderItemRequest struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required"`
}

// UpdateOrderStatusRequest is the admin status-transition payload
type UpdateOrderStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

// HandlePlaceOrder handles a storefront checkout
func (h *OrderHandler) HandlePlaceOrder(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-place-order")
	defer h.tracer.EndTransaction(txn)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Invalid place order request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.tracer.AddAttribute(txn, "order_type", req.OrderType)
	h.tracer.AddAttribute(txn, "items", len(req.Items))

	items := make([]services.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = services.OrderItemInput{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
		}
	}

	priced, err := h.orderService.PriceItems(c.Request.Context(), items)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), services.PlaceOrderInput{
		CustomerID:          req.CustomerID,
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		OrderType:           req.OrderType,
		Items:               priced,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
		PaymentMethod:       req.PaymentMethod,
		IdempotencyKey:      req.IdempotencyKey,
	})
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// HandleGetOrder returns an order with its items
func (h *OrderHandler) HandleGetOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// HandleUpdateOrderStatus transitions an order's status
func (h *OrderHandler) HandleUpdateOrderStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changed, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status, req.AdminNotes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": id, "status": req.Status, "changed": changed})
}

// HandleDeleteOrder removes an order and its items
func (h *OrderHandler) HandleDeleteOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the handler's routes
func (h *OrderHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/orders", h.HandlePlaceOrder)
	router.GET("/api/orders/:id", h.HandleGetOrder)
	router.PATCH("/api/orders/:id/status", h.HandleUpdateOrderStatus)
	router.DELETE("/api/orders/:id", h.HandleDeleteOrder)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
