package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
)

// OrderRepository provides access to order data
type OrderRepository struct {
	db         *gorm.DB // Write database
	readOnlyDB *gorm.DB // Read-only database
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB, readOnlyDB *gorm.DB) *OrderRepository {
	return &OrderRepository{
		db:         db,
		readOnlyDB: readOnlyDB,
	}
}

// CreateWithItems inserts the order and all of its items in one
// transaction. Either everything commits or nothing does; no reader ever
// sees an order without its items.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return errors.Wrap(err, "failed to insert order")
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return errors.Wrap(err, "failed to insert order items")
		}
		order.Items = items
		return nil
	})
}

// GetByID gets an order with its items
func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.readOnlyDB.WithContext(ctx).
		Preload("Items").
		First(&order, id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get order by ID")
	}
	return &order, nil
}

// UpdateStatus sets the order status and admin notes. The guard clause
// skips the write when both values already match, so the returned row
// count distinguishes a real change from a no-op.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status, notes string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND (status <> ? OR admin_notes <> ?)", id, status, notes).
		Updates(map[string]interface{}{
			"status":      status,
			"admin_notes": notes,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to update order status")
	}
	return result.RowsAffected, nil
}

// DeleteWithItems removes the order's items and then the order inside one
// transaction, so items never outlive their parent even to a concurrent
// reader. Returns the number of order rows removed (0 when absent).
func (r *OrderRepository) DeleteWithItems(ctx context.Context, id uint) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete order items")
		}
		result := tx.Delete(&models.Order{}, id)
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to delete order")
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// FindPending returns orders awaiting staff action, newest first
func (r *OrderRepository) FindPending(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.readOnlyDB.WithContext(ctx).
		Where("status = ?", models.OrderStatusPending).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find pending orders")
	}
	return orders, nil
}
