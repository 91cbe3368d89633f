package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/metrics"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

// ReviewAwardReason is the ledger reason recorded for review awards.
const ReviewAwardReason = "review submitted"

type loyaltyStore interface {
	ApplyAdjustment(ctx context.Context, customerID uint, delta int, entry *models.LoyaltyTransaction) (int, error)
	ListTransactions(ctx context.Context, customerID uint) ([]models.LoyaltyTransaction, error)
}

// LoyaltyService maintains the append-only points ledger and the cached
// balance on the customer row. The two are written together in one
// storage transaction; the ledger is the source of truth.
type LoyaltyService struct {
	store             loyaltyStore
	metrics           *metrics.Metrics
	tracer            tracing.Tracer
	reviewAwardPoints int
}

// NewLoyaltyService creates a new loyalty service
func NewLoyaltyService(store loyaltyStore, reviewAwardPoints int, m *metrics.Metrics, tracer tracing.Tracer) *LoyaltyService {
	return &LoyaltyService{
		store:             store,
		metrics:           m,
		tracer:            tracer,
		reviewAwardPoints: reviewAwardPoints,
	}
}

// AdjustPoints applies a signed point delta to a customer's balance and
// appends the matching ledger entry. Positive delta awards, negative
// redeems. The balance may go negative; callers authorize over-redemption.
// Returns the new balance.
func (s *LoyaltyService) AdjustPoints(ctx context.Context, customerID uint, delta int, reason string) (int, error) {
	txn := s.tracer.StartTransaction("adjust-points")
	defer s.tracer.EndTransaction(txn)

	if delta == 0 {
		return 0, errors.Wrap(ErrInvalidArgument, "delta must be nonzero")
	}
	if strings.TrimSpace(reason) == "" {
		return 0, errors.Wrap(ErrInvalidArgument, "reason is required")
	}

	entry := &models.LoyaltyTransaction{
		Points: delta,
		Type:   models.LoyaltyTypeAdded,
		Reason: reason,
	}
	if delta < 0 {
		entry.Points = -delta
		entry.Type = models.LoyaltyTypeDeducted
	}

	newBalance, err := s.store.ApplyAdjustment(ctx, customerID, delta, entry)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return 0, mapStorageErr(err, "failed to adjust points")
	}

	s.metrics.IncrementCounter("loyalty_adjustments")
	log.Info().
		Uint("customer_id", customerID).
		Int("delta", delta).
		Int("new_balance", newBalance).
		Str("reason", reason).
		Msg("Loyalty points adjusted")

	return newBalance, nil
}

// AwardForReview grants the fixed review award. Calling it twice for the
// same review double-awards; deduplication is the caller's problem.
func (s *LoyaltyService) AwardForReview(ctx context.Context, customerID uint) (int, error) {
	return s.AdjustPoints(ctx, customerID, s.reviewAwardPoints, ReviewAwardReason)
}

// Ledger returns a customer's ledger entries, newest first
func (s *LoyaltyService) Ledger(ctx context.Context, customerID uint) ([]models.LoyaltyTransaction, error) {
	transactions, err := s.store.ListTransactions(ctx, customerID)
	if err != nil {
		return nil, mapStorageErr(err, "failed to list loyalty transactions")
	}
	return transactions, nil
}
