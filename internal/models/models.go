package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Order types
const (
	OrderTypeDelivery = "delivery"
	OrderTypePickup   = "pickup"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Reservation statuses
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusSeated    = "seated"
	ReservationStatusCompleted = "completed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusNoShow    = "no_show"
)

// Review statuses
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Loyalty transaction types
const (
	LoyaltyTypeAdded    = "added"
	LoyaltyTypeDeducted = "deducted"
)

// ValidOrderStatuses enumerates every status an order may carry.
var ValidOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// ValidReservationStatuses enumerates every status a reservation may carry.
var ValidReservationStatuses = []string{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusSeated,
	ReservationStatusCompleted,
	ReservationStatusCancelled,
	ReservationStatusNoShow,
}

// ValidReviewStatuses enumerates every status a review may carry.
var ValidReviewStatuses = []string{
	ReviewStatusPending,
	ReviewStatusApproved,
	ReviewStatusRejected,
}

// Customer represents a registered customer. LoyaltyPoints is a cached
// balance; the loyalty_transactions ledger is the source of truth and the
// two are only ever written together in one transaction.
type Customer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"uniqueIndex" json:"email"`
	Phone         string    `json:"phone"`
	LoyaltyPoints int       `gorm:"not null;default:0" json:"loyalty_points"`

	LoyaltyTransactions []LoyaltyTransaction `gorm:"foreignKey:CustomerID" json:"-"`
}

// MenuItem represents an item on the café menu.
type MenuItem struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Name              string    `gorm:"not null" json:"name"`
	Description       string    `json:"description"`
	Price             float64   `gorm:"not null" json:"price"`
	Category          string    `gorm:"index" json:"category"`
	Stock             int       `gorm:"not null;default:0" json:"stock"`
	LowStockThreshold int       `gorm:"not null;default:5" json:"low_stock_threshold"`
	IsAvailable       bool      `gorm:"not null;default:true" json:"is_available"`
}

// Order represents a customer order. Contact fields are denormalized at
// order time so the record stays meaningful if the customer is later
// removed. TotalAmount is computed once at creation and never recomputed.
type Order struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CustomerID          *uint      `gorm:"index" json:"customer_id"`
	CustomerName        string     `gorm:"not null" json:"customer_name"`
	CustomerEmail       string     `json:"customer_email"`
	CustomerPhone       string     `json:"customer_phone"`
	OrderType           string     `gorm:"not null" json:"order_type"`
	TotalAmount         float64    `gorm:"not null" json:"total_amount"`
	Status              string     `gorm:"not null;default:pending;index" json:"status"`
	DeliveryAddress     string     `json:"delivery_address"`
	SpecialInstructions string     `json:"special_instructions"`
	AdminNotes          string     `json:"admin_notes"`
	PaymentMethod       string     `json:"payment_method"`
	IdempotencyKey      *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"idempotency_key,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem is one line of an order. UnitPrice is a snapshot of the menu
// price at order time, not a live join to the menu.
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	MenuItemID uint      `gorm:"not null" json:"menu_item_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitPrice  float64   `gorm:"not null" json:"unit_price"`
}

// Reservation represents a table booking. The (ReservationDate,
// ReservationTime) pair is the slot key used for capacity admission.
type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	CustomerID      *uint     `gorm:"index" json:"customer_id"`
	CustomerName    string    `gorm:"not null" json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone"`
	ReservationDate time.Time `gorm:"type:date;not null;index:idx_reservation_slot" json:"reservation_date"`
	ReservationTime string    `gorm:"not null;index:idx_reservation_slot" json:"reservation_time"`
	PartySize       int       `gorm:"not null" json:"party_size"`
	SpecialRequests string    `json:"special_requests"`
	Status          string    `gorm:"not null;default:pending;index" json:"status"`
	TableNumber     *int      `json:"table_number"`
	Notes           string    `json:"notes"`
}

// LoyaltyTransaction is one entry of the append-only points ledger.
// Points is always a positive magnitude; Type carries the sign.
type LoyaltyTransaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Points     int       `gorm:"not null" json:"points"`
	Type       string    `gorm:"not null" json:"type"`
	Reason     string    `gorm:"not null" json:"reason"`
}

// Review is a customer review of a menu item, moderated by staff.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	MenuItemID uint      `gorm:"not null;index" json:"menu_item_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Title      string    `json:"title"`
	Comment    string    `json:"comment"`
	Status     string    `gorm:"not null;default:pending;index" json:"status"`
	IsFeatured bool      `gorm:"not null;default:false" json:"is_featured"`
	AdminNotes string    `json:"admin_notes"`
}

// Notification is a derived projection over pending orders, reservations,
// reviews and low-stock menu items. It is never persisted; the feed is
// rebuilt from the source tables on every read. ID is a per-read key for
// client-side list rendering only.
type Notification struct {
	ID         string    `json:"id"`
	SourceType string    `json:"source_type"`
	SourceID   uint      `json:"source_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Priority   string    `json:"priority"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notification source types and priorities
const (
	NotificationSourceOrder       = "order"
	NotificationSourceReservation = "reservation"
	NotificationSourceReview      = "review"
	NotificationSourceInventory   = "inventory"

	NotificationPriorityHigh   = "high"
	NotificationPriorityMedium = "medium"
	NotificationPriorityLow    = "low"

	NotificationStatusUnread = "unread"
)

// SetupModels configures GORM models and runs migrations
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Customer{},
		&MenuItem{},
		&Order{},
		&OrderItem{},
		&Reservation{},
		&LoyaltyTransaction{},
		&Review{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}
	return nil
}
