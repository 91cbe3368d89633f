package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/config"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/metrics"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

// Mock reservation store for testing
type MockReservationStore struct {
	mock.Mock
}

func (m *MockReservationStore) CreateIfCapacity(ctx context.Context, res *models.Reservation, capacity int) (bool, error) {
	args := m.Called(ctx, res, capacity)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationStore) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationStore) UpdateStatus(ctx context.Context, id uint, status string, tableNumber *int, notes string) (int64, error) {
	args := m.Called(ctx, id, status, tableNumber, notes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationStore) Delete(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationStore) FindOverdueActive(ctx context.Context, onOrBefore time.Time) ([]models.Reservation, error) {
	args := m.Called(ctx, onOrBefore)
	return args.Get(0).([]models.Reservation), args.Error(1)
}

var testReservationConfig = config.ReservationConfig{
	SlotCapacity: 5,
	MinPartySize: 1,
	MaxPartySize: 20,
	NoShowGrace:  time.Hour,
}

// newTestReservationService pins the clock to a fixed instant so the
// past-datetime and no-show checks are deterministic.
func newTestReservationService(store reservationStore, now time.Time) *ReservationService {
	return &ReservationService{
		store:   store,
		metrics: metrics.NewMetrics(),
		tracer:  tracing.NewNoopTracer(),
		cfg:     testReservationConfig,
		now:     func() time.Time { return now },
	}
}

func TestRequestReservationAdmitted(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	mockStore := new(MockReservationStore)
	mockStore.On("CreateIfCapacity", mock.Anything, mock.AnythingOfType("*models.Reservation"), 5).
		Return(true, nil)

	service := newTestReservationService(mockStore, now)

	reservation, err := service.RequestReservation(context.Background(), RequestReservationInput{
		CustomerName: "Leila",
		Date:         time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local),
		Time:         "18:30",
		PartySize:    4,
	})

	require.NoError(t, err)
	require.NotNil(t, reservation)
	require.Equal(t, models.ReservationStatusPending, reservation.Status)
	require.Equal(t, "18:30", reservation.ReservationTime)
	mockStore.AssertExpectations(t)
}

func TestRequestReservationSlotFull(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	mockStore := new(MockReservationStore)
	mockStore.On("CreateIfCapacity", mock.Anything, mock.AnythingOfType("*models.Reservation"), 5).
		Return(false, nil)

	service := newTestReservationService(mockStore, now)

	_, err := service.RequestReservation(context.Background(), RequestReservationInput{
		CustomerName: "Leila",
		Date:         time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local),
		Time:         "18:30",
		PartySize:    4,
	})

	require.ErrorIs(t, err, ErrConflict)
	mockStore.AssertExpectations(t)
}

func TestRequestReservationPastDatetime(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	mockStore := new(MockReservationStore)
	service := newTestReservationService(mockStore, now)

	_, err := service.RequestReservation(context.Background(), RequestReservationInput{
		CustomerName: "Leila",
		Date:         time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local),
		Time:         "18:30",
		PartySize:    4,
	})

	require.ErrorIs(t, err, ErrInvalidArgument)
	mockStore.AssertNotCalled(t, "CreateIfCapacity", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestReservationPartySizeBounds(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	service := newTestReservationService(new(MockReservationStore), now)
	ctx := context.Background()

	in := RequestReservationInput{
		CustomerName: "Leila",
		Date:         time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local),
		Time:         "18:30",
	}

	in.PartySize = 0
	_, err := service.RequestReservation(ctx, in)
	require.ErrorIs(t, err, ErrInvalidArgument)

	in.PartySize = 21
	_, err = service.RequestReservation(ctx, in)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRequestReservationBadTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	service := newTestReservationService(new(MockReservationStore), now)

	_, err := service.RequestReservation(context.Background(), RequestReservationInput{
		CustomerName: "Leila",
		Date:         time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local),
		Time:         "half past six",
		PartySize:    2,
	})

	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdateReservationStatusAssignsTable(t *testing.T) {
	mockStore := new(MockReservationStore)
	table := 12
	mockStore.On("GetByID", mock.Anything, uint(3)).
		Return(&models.Reservation{ID: 3, Status: models.ReservationStatusPending}, nil)
	mockStore.On("UpdateStatus", mock.Anything, uint(3), models.ReservationStatusSeated, &table, "").
		Return(int64(1), nil)

	service := newTestReservationService(mockStore, time.Now())

	err := service.UpdateStatus(context.Background(), 3, models.ReservationStatusSeated, &table, "")
	require.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestUpdateReservationStatusUnknownStatus(t *testing.T) {
	service := newTestReservationService(new(MockReservationStore), time.Now())

	err := service.UpdateStatus(context.Background(), 3, "waitlisted", nil, "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdateReservationStatusNotFound(t *testing.T) {
	mockStore := new(MockReservationStore)
	mockStore.On("GetByID", mock.Anything, uint(99)).
		Return((*models.Reservation)(nil), gorm.ErrRecordNotFound)

	service := newTestReservationService(mockStore, time.Now())

	err := service.UpdateStatus(context.Background(), 99, models.ReservationStatusConfirmed, nil, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateReservationStatusRowVanished(t *testing.T) {
	// The reservation exists at load time but is deleted before the
	// UPDATE lands; zero rows affected must surface as not-found
	mockStore := new(MockReservationStore)
	mockStore.On("GetByID", mock.Anything, uint(3)).
		Return(&models.Reservation{ID: 3, Status: models.ReservationStatusPending}, nil)
	mockStore.On("UpdateStatus", mock.Anything, uint(3), models.ReservationStatusConfirmed, (*int)(nil), "").
		Return(int64(0), nil)

	service := newTestReservationService(mockStore, time.Now())

	err := service.UpdateStatus(context.Background(), 3, models.ReservationStatusConfirmed, nil, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSweepNoShowsSkipsVanishedRows(t *testing.T) {
	now := time.Date(2026, 3, 10, 21, 0, 0, 0, time.Local)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	mockStore := new(MockReservationStore)
	mockStore.On("FindOverdueActive", mock.Anything, now).Return([]models.Reservation{
		{ID: 1, ReservationDate: today, ReservationTime: "19:00", Status: models.ReservationStatusConfirmed},
	}, nil)
	mockStore.On("UpdateStatus", mock.Anything, uint(1), models.ReservationStatusNoShow, (*int)(nil), "").
		Return(int64(0), nil)

	service := newTestReservationService(mockStore, now)

	swept, err := service.SweepNoShows(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, swept)
}

func TestDeleteReservationNotFound(t *testing.T) {
	mockStore := new(MockReservationStore)
	mockStore.On("Delete", mock.Anything, uint(99)).Return(int64(0), nil)

	service := newTestReservationService(mockStore, time.Now())

	err := service.DeleteReservation(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSweepNoShows(t *testing.T) {
	now := time.Date(2026, 3, 10, 21, 0, 0, 0, time.Local)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	mockStore := new(MockReservationStore)
	mockStore.On("FindOverdueActive", mock.Anything, now).Return([]models.Reservation{
		// Slot passed two hours ago, beyond the one hour grace
		{ID: 1, ReservationDate: today, ReservationTime: "19:00", Status: models.ReservationStatusConfirmed},
		// Slot passed half an hour ago, still within grace
		{ID: 2, ReservationDate: today, ReservationTime: "20:30", Status: models.ReservationStatusConfirmed},
	}, nil)
	mockStore.On("UpdateStatus", mock.Anything, uint(1), models.ReservationStatusNoShow, (*int)(nil), "").
		Return(int64(1), nil)

	service := newTestReservationService(mockStore, now)

	swept, err := service.SweepNoShows(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, swept)
	mockStore.AssertExpectations(t)
	mockStore.AssertNotCalled(t, "UpdateStatus", mock.Anything, uint(2), mock.Anything, mock.Anything, mock.Anything)
}
