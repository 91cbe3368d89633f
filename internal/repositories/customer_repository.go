package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
)

// CustomerRepository provides access to customer and loyalty ledger data
type CustomerRepository struct {
	db         *gorm.DB // Write database
	readOnlyDB *gorm.DB // Read-only database
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB, readOnlyDB *gorm.DB) *CustomerRepository {
	return &CustomerRepository{
		db:         db,
		readOnlyDB: readOnlyDB,
	}
}

// ApplyAdjustment updates the cached balance and appends the ledger entry
// in one transaction. The customer row is locked for the duration so two
// concurrent adjustments cannot both read the same starting balance.
// Returns the new balance.
func (r *CustomerRepository) ApplyAdjustment(ctx context.Context, customerID uint, delta int, entry *models.LoyaltyTransaction) (int, error) {
	var newBalance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&customer, customerID).Error; err != nil {
			return err
		}

		newBalance = customer.LoyaltyPoints + delta
		if err := tx.Model(&models.Customer{}).
			Where("id = ?", customerID).
			Update("loyalty_points", newBalance).Error; err != nil {
			return errors.Wrap(err, "failed to update loyalty balance")
		}

		entry.CustomerID = customerID
		if err := tx.Create(entry).Error; err != nil {
			return errors.Wrap(err, "failed to append loyalty transaction")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

// ListTransactions returns a customer's ledger entries, newest first
func (r *CustomerRepository) ListTransactions(ctx context.Context, customerID uint) ([]models.LoyaltyTransaction, error) {
	var transactions []models.LoyaltyTransaction
	err := r.readOnlyDB.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list loyalty transactions")
	}
	return transactions, nil
}
