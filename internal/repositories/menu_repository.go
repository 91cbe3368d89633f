package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
)

// MenuRepository provides access to menu item data
type MenuRepository struct {
	db         *gorm.DB // Write database
	readOnlyDB *gorm.DB // Read-only database
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB, readOnlyDB *gorm.DB) *MenuRepository {
	return &MenuRepository{
		db:         db,
		readOnlyDB: readOnlyDB,
	}
}

// GetByID gets a menu item by ID
func (r *MenuRepository) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.readOnlyDB.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get menu item by ID")
	}
	return &item, nil
}

// FindLowStock returns available items at or below their alert threshold
func (r *MenuRepository) FindLowStock(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.readOnlyDB.WithContext(ctx).
		Where("stock <= low_stock_threshold AND is_available = ?", true).
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find low stock items")
	}
	return items, nil
}
