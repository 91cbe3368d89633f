package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/metrics"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
)

// Mock review store for testing
type MockReviewStore struct {
	mock.Mock
}

func (m *MockReviewStore) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewStore) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewStore) UpdateStatus(ctx context.Context, id uint, status string, featured bool, notes string) (int64, error) {
	args := m.Called(ctx, id, status, featured, notes)
	return args.Get(0).(int64), args.Error(1)
}

func TestSubmitReviewAwardsPoints(t *testing.T) {
	mockStore := new(MockReviewStore)
	mockStore.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).Return(nil)

	loyaltyStore := newFakeLoyaltyStore()
	loyaltyStore.balances[7] = 0

	service := NewReviewService(mockStore, newTestLoyaltyService(loyaltyStore), metrics.NewMetrics())

	review, err := service.SubmitReview(context.Background(), SubmitReviewInput{
		CustomerID: 7,
		MenuItemID: 3,
		Rating:     5,
		Title:      "Great espresso",
	})

	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusPending, review.Status)
	require.Equal(t, 10, loyaltyStore.balances[7])
	mockStore.AssertExpectations(t)
}

func TestSubmitReviewValidation(t *testing.T) {
	service := NewReviewService(new(MockReviewStore), nil, metrics.NewMetrics())
	ctx := context.Background()

	_, err := service.SubmitReview(ctx, SubmitReviewInput{CustomerID: 7, MenuItemID: 3, Rating: 0})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = service.SubmitReview(ctx, SubmitReviewInput{CustomerID: 7, MenuItemID: 3, Rating: 6})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = service.SubmitReview(ctx, SubmitReviewInput{MenuItemID: 3, Rating: 4})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSubmitReviewSurvivesAwardFailure(t *testing.T) {
	mockStore := new(MockReviewStore)
	mockStore.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).Return(nil)

	loyaltyStore := newFakeLoyaltyStore()
	loyaltyStore.failWith = gorm.ErrInvalidTransaction

	service := NewReviewService(mockStore, newTestLoyaltyService(loyaltyStore), metrics.NewMetrics())

	review, err := service.SubmitReview(context.Background(), SubmitReviewInput{
		CustomerID: 7,
		MenuItemID: 3,
		Rating:     4,
	})

	require.NoError(t, err)
	require.NotNil(t, review)
}

func TestModerateReviewApproveAndFeature(t *testing.T) {
	mockStore := new(MockReviewStore)
	mockStore.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Review{ID: 5, Status: models.ReviewStatusPending}, nil)
	mockStore.On("UpdateStatus", mock.Anything, uint(5), models.ReviewStatusApproved, true, "front page").
		Return(int64(1), nil)

	service := NewReviewService(mockStore, nil, metrics.NewMetrics())

	err := service.UpdateReviewStatus(context.Background(), 5, models.ReviewStatusApproved, true, "front page")
	require.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestModerateReviewUnknownStatus(t *testing.T) {
	mockStore := new(MockReviewStore)
	service := NewReviewService(mockStore, nil, metrics.NewMetrics())

	err := service.UpdateReviewStatus(context.Background(), 5, "archived", false, "")
	require.ErrorIs(t, err, ErrInvalidArgument)
	mockStore.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestModerateReviewNotFound(t *testing.T) {
	mockStore := new(MockReviewStore)
	mockStore.On("GetByID", mock.Anything, uint(99)).
		Return((*models.Review)(nil), gorm.ErrRecordNotFound)

	service := NewReviewService(mockStore, nil, metrics.NewMetrics())

	err := service.UpdateReviewStatus(context.Background(), 99, models.ReviewStatusRejected, false, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestModerateReviewRowVanished(t *testing.T) {
	// The review exists at load time but is deleted before the UPDATE
	// lands; zero rows affected must surface as not-found
	mockStore := new(MockReviewStore)
	mockStore.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Review{ID: 5, Status: models.ReviewStatusPending}, nil)
	mockStore.On("UpdateStatus", mock.Anything, uint(5), models.ReviewStatusApproved, false, "").
		Return(int64(0), nil)

	service := NewReviewService(mockStore, nil, metrics.NewMetrics())

	err := service.UpdateReviewStatus(context.Background(), 5, models.ReviewStatusApproved, false, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetReview(t *testing.T) {
	mockStore := new(MockReviewStore)
	mockStore.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Review{ID: 5, Rating: 4, Title: "Great espresso"}, nil)

	service := NewReviewService(mockStore, nil, metrics.NewMetrics())

	review, err := service.GetReview(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 4, review.Rating)
}
