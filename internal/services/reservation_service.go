package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/config"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/metrics"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

const slotTimeLayout = "15:04"

type reservationStore interface {
	CreateIfCapacity(ctx context.Context, res *models.Reservation, capacity int) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, id uint, status string, tableNumber *int, notes string) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	FindOverdueActive(ctx context.Context, onOrBefore time.Time) ([]models.Reservation, error)
}

// ReservationService owns the reservation lifecycle: slot-capacity
// admission, status transitions, table assignment and the no-show sweep.
type ReservationService struct {
	store   reservationStore
	events  eventPublisher
	metrics *metrics.Metrics
	tracer  tracing.Tracer
	cfg     config.ReservationConfig
	now     func() time.Time
}

// NewReservationService creates a new reservation service. events may be
// nil; lifecycle events are then skipped.
func NewReservationService(store reservationStore, events eventPublisher, m *metrics.Metrics, tracer tracing.Tracer, cfg config.ReservationConfig) *ReservationService {
	return &ReservationService{
		store:   store,
		events:  events,
		metrics: m,
		tracer:  tracer,
		cfg:     cfg,
		now:     time.Now,
	}
}

// RequestReservationInput carries a booking request. Date holds the day;
// Time is the slot time of day in 24h "15:04" form. Together they form
// the slot key.
type RequestReservationInput struct {
	CustomerID      *uint     `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone"`
	Date            time.Time `json:"date"`
	Time            string    `json:"time"`
	PartySize       int       `json:"party_size"`
	SpecialRequests string    `json:"special_requests"`
}

// RequestReservation validates the booking and admits it against the
// slot's capacity. The capacity count and the insert run in one storage
// transaction, so concurrent requests cannot overfill a slot. A full
// slot fails with ErrConflict; the caller should offer alternate times.
func (s *ReservationService) RequestReservation(ctx context.Context, in RequestReservationInput) (*models.Reservation, error) {
	txn := s.tracer.StartTransaction("request-reservation")
	defer s.tracer.EndTransaction(txn)

	if in.PartySize < s.cfg.MinPartySize || in.PartySize > s.cfg.MaxPartySize {
		return nil, errors.Wrapf(ErrInvalidArgument, "party size %d out of range [%d,%d]",
			in.PartySize, s.cfg.MinPartySize, s.cfg.MaxPartySize)
	}

	slot, err := slotInstant(in.Date, in.Time)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidArgument, "bad reservation time %q", in.Time)
	}
	if slot.Before(s.now()) {
		return nil, errors.Wrap(ErrInvalidArgument, "past datetime")
	}

	reservation := &models.Reservation{
		CustomerID:      in.CustomerID,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		ReservationDate: in.Date,
		ReservationTime: in.Time,
		PartySize:       in.PartySize,
		SpecialRequests: in.SpecialRequests,
		Status:          models.ReservationStatusPending,
	}

	span := s.tracer.StartSpan("admit-reservation", txn)
	admitted, err := s.store.CreateIfCapacity(ctx, reservation, s.cfg.SlotCapacity)
	span.End()
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, mapStorageErr(err, "failed to create reservation")
	}
	if !admitted {
		s.metrics.IncrementCounter("reservations_slot_full")
		return nil, errors.Wrapf(ErrConflict, "slot %s %s is full",
			in.Date.Format("2006-01-02"), in.Time)
	}

	s.metrics.IncrementCounter("reservations_booked")
	log.Info().
		Uint("reservation_id", reservation.ID).
		Str("date", in.Date.Format("2006-01-02")).
		Str("time", in.Time).
		Int("party_size", in.PartySize).
		Msg("Reservation booked")
	s.publish(ctx, "reservation.booked", reservation.ID, reservation.Status)

	return reservation, nil
}

// UpdateStatus sets the reservation's status and notes, and assigns a
// table when one is given. Table assignment is independent of status; any
// status from the enumerated set is accepted from any other.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uint, status string, tableNumber *int, notes string) error {
	if !statusAllowed(models.ValidReservationStatuses, status) {
		return errors.Wrapf(ErrInvalidArgument, "unknown reservation status %q", status)
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		return mapStorageErr(err, "failed to load reservation")
	}

	rows, err := s.store.UpdateStatus(ctx, id, status, tableNumber, notes)
	if err != nil {
		return mapStorageErr(err, "failed to update reservation status")
	}
	// The load above raced a delete
	if rows == 0 {
		return errors.Wrapf(ErrNotFound, "reservation %d", id)
	}

	s.metrics.IncrementCounter("reservation_status_updates")
	log.Info().Uint("reservation_id", id).Str("status", status).Msg("Reservation status updated")
	s.publish(ctx, "reservation.status_changed", id, status)
	return nil
}

// GetReservation returns a reservation by ID
func (s *ReservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	reservation, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, mapStorageErr(err, "failed to load reservation")
	}
	return reservation, nil
}

// DeleteReservation hard-deletes a reservation, bypassing the status
// workflow. Meant for erroneous or duplicate bookings, not for normal
// lifecycle completion.
func (s *ReservationService) DeleteReservation(ctx context.Context, id uint) error {
	rows, err := s.store.Delete(ctx, id)
	if err != nil {
		return mapStorageErr(err, "failed to delete reservation")
	}
	if rows == 0 {
		return errors.Wrapf(ErrNotFound, "reservation %d", id)
	}

	log.Info().Uint("reservation_id", id).Msg("Reservation deleted")
	return nil
}

// SweepNoShows marks still-active reservations whose slot passed more
// than the grace period ago as no_show. Run periodically by the worker.
// Returns the number of reservations swept.
func (s *ReservationService) SweepNoShows(ctx context.Context) (int, error) {
	now := s.now()

	candidates, err := s.store.FindOverdueActive(ctx, now)
	if err != nil {
		return 0, mapStorageErr(err, "failed to find overdue reservations")
	}

	swept := 0
	for _, reservation := range candidates {
		slot, err := slotInstant(reservation.ReservationDate, reservation.ReservationTime)
		if err != nil {
			log.Warn().
				Uint("reservation_id", reservation.ID).
				Str("time", reservation.ReservationTime).
				Msg("Skipping reservation with unparseable slot time")
			continue
		}
		if !now.After(slot.Add(s.cfg.NoShowGrace)) {
			continue
		}

		rows, err := s.store.UpdateStatus(ctx, reservation.ID, models.ReservationStatusNoShow, nil, reservation.Notes)
		if err != nil {
			log.Error().Err(err).Uint("reservation_id", reservation.ID).Msg("Failed to mark reservation as no-show")
			continue
		}
		// Deleted since the candidate query; nothing to sweep
		if rows == 0 {
			continue
		}
		swept++
		log.Info().Uint("reservation_id", reservation.ID).Msg("Reservation marked as no-show")
	}

	if swept > 0 {
		s.metrics.IncrementCounter("reservations_no_show_swept")
	}
	return swept, nil
}

func (s *ReservationService) publish(ctx context.Context, event string, reservationID uint, status string) {
	if s.events == nil {
		return
	}
	body := map[string]interface{}{
		"event":          event,
		"reservation_id": reservationID,
		"status":         status,
		"time":           time.Now().UTC(),
	}
	if err := s.events.SendMessage(ctx, body, ""); err != nil {
		log.Warn().Err(err).Str("event", event).Uint("reservation_id", reservationID).Msg("Failed to publish reservation event")
	}
}

// slotInstant combines the slot key's date and time-of-day into the
// moment the reservation starts.
func slotInstant(date time.Time, timeOfDay string) (time.Time, error) {
	t, err := time.Parse(slotTimeLayout, timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
