package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/cache"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/metrics"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

const menuItemCacheTTL = 5 * time.Minute

type orderStore interface {
	CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status, notes string) (int64, error)
	DeleteWithItems(ctx context.Context, id uint) (int64, error)
}

type menuSource interface {
	GetByID(ctx context.Context, id uint) (*models.MenuItem, error)
}

type menuCache interface {
	Get(ctx context.Context, key string, value interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

type orderIndexer interface {
	IndexOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
}

type eventPublisher interface {
	SendMessage(ctx context.Context, body interface{}, sessionID string) error
}

// OrderService owns the order lifecycle: placement, status transitions
// and deletion. Order and item writes are atomic at the store; search
// indexing and event publishing happen after commit and are best-effort.
type OrderService struct {
	store       orderStore
	menu        menuSource
	cache       menuCache
	indexer     orderIndexer
	events      eventPublisher
	metrics     *metrics.Metrics
	tracer      tracing.Tracer
	taxRate     float64
	deliveryFee float64
}

// NewOrderService creates a new order service. cache, indexer and events
// may be nil; the corresponding side channel is then skipped.
func NewOrderService(
	store orderStore,
	menu menuSource,
	menuCache menuCache,
	indexer orderIndexer,
	events eventPublisher,
	m *metrics.Metrics,
	tracer tracing.Tracer,
	taxRate float64,
	deliveryFee float64,
) *OrderService {
	return &OrderService{
		store:       store,
		menu:        menu,
		cache:       menuCache,
		indexer:     indexer,
		events:      events,
		metrics:     m,
		tracer:      tracer,
		taxRate:     taxRate,
		deliveryFee: deliveryFee,
	}
}

// OrderItemInput is one requested order line. UnitPrice is the snapshot
// price the order will carry; PriceItems fills it from the menu when the
// caller does not supply it.
type OrderItemInput struct {
	MenuItemID uint    `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// PlaceOrderInput carries everything needed to place an order. Contact
// fields are denormalized onto the order record.
type PlaceOrderInput struct {
	CustomerID          *uint            `json:"customer_id"`
	CustomerName        string           `json:"customer_name"`
	CustomerEmail       string           `json:"customer_email"`
	CustomerPhone       string           `json:"customer_phone"`
	OrderType           string           `json:"order_type"`
	Items               []OrderItemInput `json:"items"`
	DeliveryAddress     string           `json:"delivery_address"`
	SpecialInstructions string           `json:"special_instructions"`
	PaymentMethod       string           `json:"payment_method"`
	IdempotencyKey      *uuid.UUID       `json:"idempotency_key"`
}

// PlaceOrder validates the input, computes the immutable total
// (subtotal + tax, plus the flat fee for delivery orders) and inserts the
// order with all of its items in one storage transaction. Nothing is
// visible to other readers until the whole order committed.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	txn := s.tracer.StartTransaction("place-order")
	defer s.tracer.EndTransaction(txn)

	if in.OrderType != models.OrderTypeDelivery && in.OrderType != models.OrderTypePickup {
		return nil, errors.Wrapf(ErrInvalidArgument, "unknown order type %q", in.OrderType)
	}
	if in.OrderType == models.OrderTypeDelivery && in.DeliveryAddress == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "delivery orders require a delivery address")
	}
	if len(in.Items) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "order requires at least one item")
	}

	var subtotal float64
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return nil, errors.Wrapf(ErrInvalidArgument, "quantity must be at least 1 for menu item %d", item.MenuItemID)
		}
		if item.UnitPrice < 0 {
			return nil, errors.Wrapf(ErrInvalidArgument, "negative unit price for menu item %d", item.MenuItemID)
		}
		subtotal += item.UnitPrice * float64(item.Quantity)
		items = append(items, models.OrderItem{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		})
	}

	total := roundCents(subtotal + roundCents(subtotal*s.taxRate))
	if in.OrderType == models.OrderTypeDelivery {
		total = roundCents(total + s.deliveryFee)
	}

	order := &models.Order{
		CustomerID:          in.CustomerID,
		CustomerName:        in.CustomerName,
		CustomerEmail:       in.CustomerEmail,
		CustomerPhone:       in.CustomerPhone,
		OrderType:           in.OrderType,
		TotalAmount:         total,
		Status:              models.OrderStatusPending,
		DeliveryAddress:     in.DeliveryAddress,
		SpecialInstructions: in.SpecialInstructions,
		PaymentMethod:       in.PaymentMethod,
		IdempotencyKey:      in.IdempotencyKey,
	}

	span := s.tracer.StartSpan("create-order", txn)
	err := s.store.CreateWithItems(ctx, order, items)
	span.End()
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, mapStorageErr(err, "failed to place order")
	}

	s.metrics.IncrementCounter("orders_placed")
	log.Info().
		Uint("order_id", order.ID).
		Str("order_type", order.OrderType).
		Float64("total", order.TotalAmount).
		Int("items", len(items)).
		Msg("Order placed")

	// Post-commit side channels; the order stands regardless.
	if s.indexer != nil {
		if err := s.indexer.IndexOrder(ctx, order, items); err != nil {
			log.Warn().Err(err).Uint("order_id", order.ID).Msg("Failed to index order")
		}
	}
	s.publish(ctx, "order.placed", order.ID, order.Status)

	return order, nil
}

// PriceItems snapshots current menu prices onto the requested lines,
// consulting the cache before the menu store. Unavailable or unknown
// items reject the whole request.
func (s *OrderService) PriceItems(ctx context.Context, items []OrderItemInput) ([]OrderItemInput, error) {
	priced := make([]OrderItemInput, len(items))
	for i, item := range items {
		menuItem, err := s.lookupMenuItem(ctx, item.MenuItemID)
		if err != nil {
			return nil, err
		}
		if !menuItem.IsAvailable {
			return nil, errors.Wrapf(ErrInvalidArgument, "menu item %q is unavailable", menuItem.Name)
		}
		priced[i] = item
		priced[i].UnitPrice = menuItem.Price
	}
	return priced, nil
}

func (s *OrderService) lookupMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	key := cache.MenuItemCacheKey(id)
	if s.cache != nil {
		var cached models.MenuItem
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	menuItem, err := s.menu.GetByID(ctx, id)
	if err != nil {
		return nil, mapStorageErr(err, "failed to look up menu item")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, menuItem, menuItemCacheTTL); err != nil {
			log.Debug().Err(err).Uint("menu_item_id", id).Msg("Failed to cache menu item")
		}
	}
	return menuItem, nil
}

// UpdateStatus sets the order's status and admin notes. Any status from
// the enumerated set is accepted from any other; there is no transition
// table. Returns false when the order already held the same status and
// notes (a no-op, not an error).
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status, notes string) (bool, error) {
	if !statusAllowed(models.ValidOrderStatuses, status) {
		return false, errors.Wrapf(ErrInvalidArgument, "unknown order status %q", status)
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		return false, mapStorageErr(err, "failed to load order")
	}

	rows, err := s.store.UpdateStatus(ctx, id, status, notes)
	if err != nil {
		return false, mapStorageErr(err, "failed to update order status")
	}
	if rows == 0 {
		log.Info().Uint("order_id", id).Str("status", status).Msg("Order status unchanged")
		return false, nil
	}

	s.metrics.IncrementCounter("order_status_updates")
	log.Info().Uint("order_id", id).Str("status", status).Msg("Order status updated")
	s.publish(ctx, "order.status_changed", id, status)

	return true, nil
}

// GetOrder returns an order with its items
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, mapStorageErr(err, "failed to load order")
	}
	return order, nil
}

// DeleteOrder removes the order and all of its items in one storage
// transaction, so no reader ever observes orphaned items.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	rows, err := s.store.DeleteWithItems(ctx, id)
	if err != nil {
		return mapStorageErr(err, "failed to delete order")
	}
	if rows == 0 {
		return errors.Wrapf(ErrNotFound, "order %d", id)
	}

	s.metrics.IncrementCounter("orders_deleted")
	log.Info().Uint("order_id", id).Msg("Order deleted")
	return nil
}

func (s *OrderService) publish(ctx context.Context, event string, orderID uint, status string) {
	if s.events == nil {
		return
	}
	body := map[string]interface{}{
		"event":    event,
		"order_id": orderID,
		"status":   status,
		"time":     time.Now().UTC(),
	}
	if err := s.events.SendMessage(ctx, body, ""); err != nil {
		log.Warn().Err(err).Str("event", event).Uint("order_id", orderID).Msg("Failed to publish order event")
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
