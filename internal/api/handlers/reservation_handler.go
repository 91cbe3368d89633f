package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/services"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

// ReservationHandler handles reservation-related HTTP requests
type ReservationHandler struct {
	reservationService *services.ReservationService
	tracer             tracing.Tracer
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *services.ReservationService, tracer tracing.Tracer) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		tracer:             tracer,
	}
}

// RequestReservationRequest is the booking payload
type RequestReservationRequest struct {
	CustomerID      *uint  `json:"customer_id"`
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	PartySize       int    `json:"party_size" binding:"required"`
	SpecialRequests string `json:"special_requests"`
}

// UpdateReservationStatusRequest is the admin status-transition payload
type UpdateReservationStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	TableNumber *int   `json:"table_number"`
	Notes       string `json:"notes"`
}

// HandleRequestReservation handles a booking request
func (h *ReservationHandler) HandleRequestReservation(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-request-reservation")
	defer h.tracer.EndTransaction(txn)

	var req RequestReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	h.tracer.AddAttribute(txn, "date", req.Date)
	h.tracer.AddAttribute(txn, "time", req.Time)

	reservation, err := h.reservationService.RequestReservation(c.Request.Context(), services.RequestReservationInput{
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Date:            date,
		Time:            req.Time,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// HandleGetReservation returns a reservation by id
func (h *ReservationHandler) HandleGetReservation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	reservation, err := h.reservationService.GetReservation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// HandleUpdateReservationStatus transitions a reservation's status and
// optionally assigns a table
func (h *ReservationHandler) HandleUpdateReservationStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	var req UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reservationService.UpdateStatus(c.Request.Context(), id, req.Status, req.TableNumber, req.Notes); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservation_id": id, "status": req.Status})
}

// HandleDeleteReservation hard-deletes a reservation
func (h *ReservationHandler) HandleDeleteReservation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	if err := h.reservationService.DeleteReservation(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the handler's routes
func (h *ReservationHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/reservations", h.HandleRequestReservation)
	router.GET("/api/reservations/:id", h.HandleGetReservation)
	router.PATCH("/api/reservations/:id/status", h.HandleUpdateReservationStatus)
	router.DELETE("/api/reservations/:id", h.HandleDeleteReservation)
}
