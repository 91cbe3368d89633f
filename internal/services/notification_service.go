package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

type pendingOrderSource interface {
	FindPending(ctx context.Context) ([]models.Order, error)
}

type pendingReservationSource interface {
	FindPending(ctx context.Context) ([]models.Reservation, error)
}

type pendingReviewSource interface {
	FindPending(ctx context.Context) ([]models.Review, error)
}

type lowStockSource interface {
	FindLowStock(ctx context.Context) ([]models.MenuItem, error)
}

// NotificationFilter narrows the derived feed. Zero values match
// everything.
type NotificationFilter struct {
	Type     string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// NotificationService derives the admin inbox from four independent
// sources: pending orders, pending reservations, pending reviews and
// low-stock menu items. The feed is never persisted; it is rebuilt on
// every read, and a failing source drops out without taking the rest of
// the feed with it.
type NotificationService struct {
	orders       pendingOrderSource
	reservations pendingReservationSource
	reviews      pendingReviewSource
	menu         lowStockSource
	tracer       tracing.Tracer
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	orders pendingOrderSource,
	reservations pendingReservationSource,
	reviews pendingReviewSource,
	menu lowStockSource,
	tracer tracing.Tracer,
) *NotificationService {
	return &NotificationService{
		orders:       orders,
		reservations: reservations,
		reviews:      reviews,
		menu:         menu,
		tracer:       tracer,
	}
}

// ListNotifications builds the feed, applies the filter in memory and
// returns it sorted by creation time, newest first. The sort is stable,
// so entries sharing a timestamp keep source insertion order. The
// aggregator never mutates any source table.
func (s *NotificationService) ListNotifications(ctx context.Context, filter NotificationFilter) ([]models.Notification, error) {
	txn := s.tracer.StartTransaction("list-notifications")
	defer s.tracer.EndTransaction(txn)

	feed := make([]models.Notification, 0, 32)

	if orders, err := s.orders.FindPending(ctx); err != nil {
		log.Warn().Err(err).Msg("Skipping order notifications")
	} else {
		for _, order := range orders {
			feed = append(feed, models.Notification{
				ID:         uuid.NewString(),
				SourceType: models.NotificationSourceOrder,
				SourceID:   order.ID,
				Title:      fmt.Sprintf("New order #%d", order.ID),
				Message:    fmt.Sprintf("%s order from %s, total %.2f", order.OrderType, order.CustomerName, order.TotalAmount),
				Priority:   models.NotificationPriorityHigh,
				Status:     models.NotificationStatusUnread,
				CreatedAt:  order.CreatedAt,
			})
		}
	}

	if reservations, err := s.reservations.FindPending(ctx); err != nil {
		log.Warn().Err(err).Msg("Skipping reservation notifications")
	} else {
		for _, reservation := range reservations {
			feed = append(feed, models.Notification{
				ID:         uuid.NewString(),
				SourceType: models.NotificationSourceReservation,
				SourceID:   reservation.ID,
				Title:      fmt.Sprintf("New reservation #%d", reservation.ID),
				Message: fmt.Sprintf("%s, party of %d on %s at %s",
					reservation.CustomerName, reservation.PartySize,
					reservation.ReservationDate.Format("2006-01-02"), reservation.ReservationTime),
				Priority:  models.NotificationPriorityMedium,
				Status:    models.NotificationStatusUnread,
				CreatedAt: reservation.CreatedAt,
			})
		}
	}

	if reviews, err := s.reviews.FindPending(ctx); err != nil {
		log.Warn().Err(err).Msg("Skipping review notifications")
	} else {
		for _, review := range reviews {
			feed = append(feed, models.Notification{
				ID:         uuid.NewString(),
				SourceType: models.NotificationSourceReview,
				SourceID:   review.ID,
				Title:      fmt.Sprintf("Review #%d awaiting moderation", review.ID),
				Message:    fmt.Sprintf("Rating %d/5: %s", review.Rating, review.Title),
				Priority:   models.NotificationPriorityLow,
				Status:     models.NotificationStatusUnread,
				CreatedAt:  review.CreatedAt,
			})
		}
	}

	if items, err := s.menu.FindLowStock(ctx); err != nil {
		log.Warn().Err(err).Msg("Skipping inventory notifications")
	} else {
		for _, item := range items {
			feed = append(feed, models.Notification{
				ID:         uuid.NewString(),
				SourceType: models.NotificationSourceInventory,
				SourceID:   item.ID,
				Title:      fmt.Sprintf("Low stock: %s", item.Name),
				Message:    fmt.Sprintf("%d left, alert threshold %d", item.Stock, item.LowStockThreshold),
				Priority:   models.NotificationPriorityHigh,
				Status:     models.NotificationStatusUnread,
				CreatedAt:  item.UpdatedAt,
			})
		}
	}

	filtered := feed[:0]
	for _, n := range feed {
		if filter.Type != "" && n.SourceType != filter.Type {
			continue
		}
		if filter.Status != "" && n.Status != filter.Status {
			continue
		}
		if filter.DateFrom != nil && n.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && n.CreatedAt.After(*filter.DateTo) {
			continue
		}
		filtered = append(filtered, n)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return filtered, nil
}
