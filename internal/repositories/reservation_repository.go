package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
)

var activeReservationStatuses = []string{
	models.ReservationStatusPending,
	models.ReservationStatusConfirmed,
}

// ReservationRepository provides access to reservation data
type ReservationRepository struct {
	db         *gorm.DB // Write database
	readOnlyDB *gorm.DB // Read-only database
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *gorm.DB, readOnlyDB *gorm.DB) *ReservationRepository {
	return &ReservationRepository{
		db:         db,
		readOnlyDB: readOnlyDB,
	}
}

// CreateIfCapacity counts the active reservations holding the slot and
// inserts the new one only while the count is below capacity. The count
// and insert share one transaction serialized per slot by an advisory
// lock; a row lock cannot do this because concurrent requests on a slot
// with free capacity have no common row to contend on, and a waiter's
// count must include rows the winner inserted after the waiter's
// snapshot. The advisory lock is released at transaction end, so the
// next admission counts after the previous one committed.
// Returns false when the slot is full.
func (r *ReservationRepository) CreateIfCapacity(ctx context.Context, res *models.Reservation, capacity int) (bool, error) {
	admitted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))",
			slotLockKey(res.ReservationDate, res.ReservationTime)).Error; err != nil {
			return errors.Wrap(err, "failed to lock reservation slot")
		}

		var count int64
		err := tx.Model(&models.Reservation{}).
			Where("reservation_date = ? AND reservation_time = ? AND status IN ?",
				res.ReservationDate, res.ReservationTime, activeReservationStatuses).
			Count(&count).Error
		if err != nil {
			return errors.Wrap(err, "failed to count active reservations for slot")
		}

		if count >= int64(capacity) {
			return nil
		}

		if err := tx.Create(res).Error; err != nil {
			return errors.Wrap(err, "failed to insert reservation")
		}
		admitted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return admitted, nil
}

// slotLockKey is the advisory-lock key text for one slot. All admissions
// carrying the same date and time must serialize on the same key.
func slotLockKey(date time.Time, timeOfDay string) string {
	return date.Format("2006-01-02") + " " + timeOfDay
}

// GetByID gets a reservation by ID
func (r *ReservationRepository) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.readOnlyDB.WithContext(ctx).First(&reservation, id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reservation by ID")
	}
	return &reservation, nil
}

// UpdateStatus sets the reservation status, notes and, when provided, the
// table assignment. Table assignment is independent of the status value.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id uint, status string, tableNumber *int, notes string) (int64, error) {
	updates := map[string]interface{}{
		"status":     status,
		"notes":      notes,
		"updated_at": time.Now(),
	}
	if tableNumber != nil {
		updates["table_number"] = *tableNumber
	}

	result := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to update reservation status")
	}
	return result.RowsAffected, nil
}

// Delete hard-deletes a reservation, bypassing the status workflow.
// Returns the number of rows removed (0 when absent).
func (r *ReservationRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Reservation{}, id)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete reservation")
	}
	return result.RowsAffected, nil
}

// FindPending returns reservations awaiting staff action, newest first
func (r *ReservationRepository) FindPending(ctx context.Context) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.readOnlyDB.WithContext(ctx).
		Where("status = ?", models.ReservationStatusPending).
		Order("created_at DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find pending reservations")
	}
	return reservations, nil
}

// FindOverdueActive returns still-active reservations whose date is on or
// before the given day. The caller narrows the set further by combining
// date and time into the exact slot instant.
func (r *ReservationRepository) FindOverdueActive(ctx context.Context, onOrBefore time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.readOnlyDB.WithContext(ctx).
		Where("status IN ? AND reservation_date <= ?", activeReservationStatuses, onOrBefore).
		Find(&reservations).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find overdue reservations")
	}
	return reservations, nil
}
