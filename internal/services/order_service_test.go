package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/metrics"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/models"
	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/internal/tracing"
)

// Mock order store for testing
type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}

func (m *MockOrderStore) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderStore) UpdateStatus(ctx context.Context, id uint, status, notes string) (int64, error) {
	args := m.Called(ctx, id, status, notes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderStore) DeleteWithItems(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// Mock menu source for testing
type MockMenuSource struct {
	mock.Mock
}

func (m *MockMenuSource) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func newTestOrderService(store orderStore, menu menuSource) *OrderService {
	return &OrderService{
		store:       store,
		menu:        menu,
		metrics:     metrics.NewMetrics(),
		tracer:      tracing.NewNoopTracer(),
		taxRate:     0.05,
		deliveryFee: 3.50,
	}
}

func TestPlaceOrderPickupTotal(t *testing.T) {
	mockStore := new(MockOrderStore)
	mockStore.On("CreateWithItems", mock.Anything, mock.AnythingOfType("*models.Order"), mock.Anything).Return(nil)

	service := newTestOrderService(mockStore, nil)

	order, err := service.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerName: "Amina",
		OrderType:    models.OrderTypePickup,
		Items: []OrderItemInput{
			{MenuItemID: 1, Quantity: 2, UnitPrice: 100},
			{MenuItemID: 2, Quantity: 1, UnitPrice: 50},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, order)
	// 250 subtotal + 12.50 tax, no delivery fee
	require.Equal(t, 262.50, order.TotalAmount)
	require.Equal(t, models.OrderStatusPending, order.Status)
	mockStore.AssertExpectations(t)
}

func TestPlaceOrderDeliveryAddsFee(t *testing.T) {
	mockStore := new(MockOrderStore)
	mockStore.On("CreateWithItems", mock.Anything, mock.AnythingOfType("*models.Order"), mock.Anything).Return(nil)

	service := newTestOrderService(mockStore, nil)

	order, err := service.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerName:    "Amina",
		OrderType:       models.OrderTypeDelivery,
		DeliveryAddress: "12 Acacia Ave",
		Items: []OrderItemInput{
			{MenuItemID: 1, Quantity: 2, UnitPrice: 100},
			{MenuItemID: 2, Quantity: 1, UnitPrice: 50},
		},
	})

	require.NoError(t, err)
	require.Equal(t, 266.00, order.TotalAmount)
	mockStore.AssertExpectations(t)
}

func TestPlaceOrderValidation(t *testing.T) {
	service := newTestOrderService(new(MockOrderStore), nil)
	ctx := context.Background()

	item := OrderItemInput{MenuItemID: 1, Quantity: 1, UnitPrice: 100}

	_, err := service.PlaceOrder(ctx, PlaceOrderInput{
		CustomerName: "Amina", OrderType: "dine-in", Items: []OrderItemInput{item},
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = service.PlaceOrder(ctx, PlaceOrderInput{
		CustomerName: "Amina", OrderType: models.OrderTypeDelivery, Items: []OrderItemInput{item},
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = service.PlaceOrder(ctx, PlaceOrderInput{
		CustomerName: "Amina", OrderType: models.OrderTypePickup,
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = service.PlaceOrder(ctx, PlaceOrderInput{
		CustomerName: "Amina", OrderType: models.OrderTypePickup,
		Items: []OrderItemInput{{MenuItemID: 1, Quantity: 0, UnitPrice: 100}},
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPlaceOrderStorageFailure(t *testing.T) {
	mockStore := new(MockOrderStore)
	mockStore.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Return(gorm.ErrInvalidTransaction)

	service := newTestOrderService(mockStore, nil)

	_, err := service.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerName: "Amina",
		OrderType:    models.OrderTypePickup,
		Items:        []OrderItemInput{{MenuItemID: 1, Quantity: 1, UnitPrice: 100}},
	})

	require.ErrorIs(t, err, ErrStorage)
	mockStore.AssertExpectations(t)
}

func TestPriceItemsSnapshotsMenuPrice(t *testing.T) {
	mockMenu := new(MockMenuSource)
	mockMenu.On("GetByID", mock.Anything, uint(7)).
		Return(&models.MenuItem{ID: 7, Name: "Flat White", Price: 4.75, IsAvailable: true}, nil)

	service := newTestOrderService(new(MockOrderStore), mockMenu)

	priced, err := service.PriceItems(context.Background(), []OrderItemInput{
		{MenuItemID: 7, Quantity: 2},
	})

	require.NoError(t, err)
	require.Len(t, priced, 1)
	require.Equal(t, 4.75, priced[0].UnitPrice)
	mockMenu.AssertExpectations(t)
}

func TestPriceItemsRejectsUnavailable(t *testing.T) {
	mockMenu := new(MockMenuSource)
	mockMenu.On("GetByID", mock.Anything, uint(7)).
		Return(&models.MenuItem{ID: 7, Name: "Seasonal Tart", IsAvailable: false}, nil)

	service := newTestOrderService(new(MockOrderStore), mockMenu)

	_, err := service.PriceItems(context.Background(), []OrderItemInput{
		{MenuItemID: 7, Quantity: 1},
	})

	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdateOrderStatus(t *testing.T) {
	mockStore := new(MockOrderStore)
	mockStore.On("GetByID", mock.Anything, uint(1)).
		Return(&models.Order{ID: 1, Status: models.OrderStatusPending}, nil)
	mockStore.On("UpdateStatus", mock.Anything, uint(1), models.OrderStatusReady, "").
		Return(int64(1), nil)

	service := newTestOrderService(mockStore, nil)

	changed, err := service.UpdateStatus(context.Background(), 1, models.OrderStatusReady, "")
	require.NoError(t, err)
	require.True(t, changed)
	mockStore.AssertExpectations(t)
}

func TestUpdateOrderStatusNoOp(t *testing.T) {
	mockStore := new(MockOrderStore)
	mockStore.On("GetByID", mock.Anything, uint(1)).
		Return(&models.Order{ID: 1, Status: models.OrderStatusReady}, nil)
	mockStore.On("UpdateStatus", mock.Anything, uint(1), models.OrderStatusReady, "").
		Return(int64(0), nil)

	service := newTestOrderService(mockStore, nil)

	changed, err := service.UpdateStatus(context.Background(), 1, models.OrderStatusReady, "")
	require.NoError(t, err)
	require.False(t, changed)
	mockStore.AssertExpectations(t)
}

func TestUpdateOrderStatusUnknownStatus(t *testing.T) {
	mockStore := new(MockOrderStore)
	service := newTestOrderService(mockStore, nil)

	_, err := service.UpdateStatus(context.Background(), 1, "shipped", "")
	require.ErrorIs(t, err, ErrInvalidArgument)
	mockStore.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	mockStore := new(MockOrderStore)
	mockStore.On("GetByID", mock.Anything, uint(99)).
		Return((*models.Order)(nil), gorm.ErrRecordNotFound)

	service := newTestOrderService(mockStore, nil)

	_, err := service.UpdateStatus(context.Background(), 99, models.OrderStatusReady, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOrder(t *testing.T) {
	mockStore := new(MockOrderStore)
	mockStore.On("DeleteWithItems", mock.Anything, uint(1)).Return(int64(1), nil)

	service := newTestOrderService(mockStore, nil)

	require.NoError(t, service.DeleteOrder(context.Background(), 1))
	mockStore.AssertExpectations(t)
}

func TestDeleteOrderNotFound(t *testing.T) {
	mockStore := new(MockOrderStore)
	mockStore.On("DeleteWithItems", mock.Anything, uint(99)).Return(int64(0), nil)

	service := newTestOrderService(mockStore, nil)

	err := service.DeleteOrder(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}
