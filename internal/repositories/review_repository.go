package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
)

// ReviewRepository provides access to review data
type ReviewRepository struct {
	db         *gorm.DB // Write database
	readOnlyDB *gorm.DB // Read-only database
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB, readOnlyDB *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		db:         db,
		readOnlyDB: readOnlyDB,
	}
}

// Create inserts a new review
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return errors.Wrap(err, "failed to insert review")
	}
	return nil
}

// GetByID gets a review by ID
func (r *ReviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.readOnlyDB.WithContext(ctx).First(&review, id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get review by ID")
	}
	return &review, nil
}

// UpdateStatus sets the moderation status, featured flag and admin notes
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id uint, status string, featured bool, notes string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"is_featured": featured,
			"admin_notes": notes,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to update review status")
	}
	return result.RowsAffected, nil
}

// FindPending returns reviews awaiting moderation, newest first
func (r *ReviewRepository) FindPending(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := r.readOnlyDB.WithContext(ctx).
		Where("status = ?", models.ReviewStatusPending).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find pending reviews")
	}
	return reviews, nil
}
