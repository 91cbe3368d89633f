package services

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/metrics"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
)

type reviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	UpdateStatus(ctx context.Context, id uint, status string, featured bool, notes string) (int64, error)
}

type reviewAwarder interface {
	AwardForReview(ctx context.Context, customerID uint) (int, error)
}

// ReviewService handles review submission and moderation. Moderation has
// the same unconditional status-transition shape as orders and
// reservations. The featured flag is stored as given; pairing it with
// approved status is left to staff.
type ReviewService struct {
	store   reviewStore
	loyalty reviewAwarder
	metrics *metrics.Metrics
}

// NewReviewService creates a new review service. loyalty may be nil; the
// submission award is then skipped.
func NewReviewService(store reviewStore, loyalty reviewAwarder, m *metrics.Metrics) *ReviewService {
	return &ReviewService{
		store:   store,
		loyalty: loyalty,
		metrics: m,
	}
}

// SubmitReviewInput carries a customer's review of a menu item
type SubmitReviewInput struct {
	CustomerID uint   `json:"customer_id"`
	MenuItemID uint   `json:"menu_item_id"`
	Rating     int    `json:"rating"`
	Title      string `json:"title"`
	Comment    string `json:"comment"`
}

// SubmitReview stores a new review awaiting moderation and grants the
// submitting customer the loyalty award. The award is best-effort: a
// failure there never takes the stored review with it.
func (s *ReviewService) SubmitReview(ctx context.Context, in SubmitReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, errors.Wrapf(ErrInvalidArgument, "rating %d out of range [1,5]", in.Rating)
	}
	if in.CustomerID == 0 || in.MenuItemID == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "customer and menu item are required")
	}

	review := &models.Review{
		CustomerID: in.CustomerID,
		MenuItemID: in.MenuItemID,
		Rating:     in.Rating,
		Title:      in.Title,
		Comment:    in.Comment,
		Status:     models.ReviewStatusPending,
	}
	if err := s.store.Create(ctx, review); err != nil {
		return nil, mapStorageErr(err, "failed to store review")
	}

	s.metrics.IncrementCounter("reviews_submitted")
	log.Info().
		Uint("review_id", review.ID).
		Uint("customer_id", in.CustomerID).
		Int("rating", in.Rating).
		Msg("Review submitted")

	if s.loyalty != nil {
		if _, err := s.loyalty.AwardForReview(ctx, in.CustomerID); err != nil {
			log.Warn().Err(err).Uint("customer_id", in.CustomerID).Msg("Failed to grant review award")
		}
	}

	return review, nil
}

// UpdateReviewStatus sets the moderation status, featured flag and admin
// notes on a review.
func (s *ReviewService) UpdateReviewStatus(ctx context.Context, id uint, status string, featured bool, notes string) error {
	if !statusAllowed(models.ValidReviewStatuses, status) {
		return errors.Wrapf(ErrInvalidArgument, "unknown review status %q", status)
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		return mapStorageErr(err, "failed to load review")
	}

	rows, err := s.store.UpdateStatus(ctx, id, status, featured, notes)
	if err != nil {
		return mapStorageErr(err, "failed to update review status")
	}
	// The load above raced a delete
	if rows == 0 {
		return errors.Wrapf(ErrNotFound, "review %d", id)
	}

	s.metrics.IncrementCounter("review_moderations")
	log.Info().
		Uint("review_id", id).
		Str("status", status).
		Bool("featured", featured).
		Msg("Review moderated")
	return nil
}

// GetReview returns a review by ID
func (s *ReviewService) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	review, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, mapStorageErr(err, "failed to load review")
	}
	return review, nil
}
