package service_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	appErrors "github.com/ecommkit/storefront/internal/errors"
	"github.com/ecommkit/storefront/internal/models"
	repository "github.com/ecommkit/storefront/internal/repositories"
	"github.com/ecommkit/storefront/internal/repositories/mocks"
	service "github.com/ecommkit/storefront/internal/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures fired notifications so tests can wait for the
// post-commit goroutine.
type recordingNotifier struct {
	mu     sync.Mutex
	orders []*models.Order
	fired  chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{fired: make(chan struct{}, 1)}
}

func (n *recordingNotifier) NotifyOrderCreated(_ context.Context, order *models.Order) {
	n.mu.Lock()
	n.orders = append(n.orders, order)
	n.mu.Unlock()

	n.fired <- struct{}{}
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.orders)
}

func cartWithItems(cartID uuid.UUID) *models.Cart {
	return &models.Cart{
		ID:        cartID,
		CreatedAt: time.Now(),
		Items: []models.CartItem{
			{
				ID:        1,
				CartID:    cartID,
				ProductID: 7,
				Quantity:  2,
				Product: models.CartProduct{
					ID:    7,
					Title: "Mechanical Keyboard",
					Price: decimal.RequireFromString("49.99"),
				},
			},
		},
	}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Order Created And Notification Fired Once", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		orderRepo := new(mocks.OrderRepository)
		notifier := newRecordingNotifier()
		orderService := service.NewOrderService(orderRepo, cartRepo, notifier)

		cartID := uuid.New()
		customerID := uuid.New()
		cart := cartWithItems(cartID)

		order := &models.Order{
			ID:         uuid.New(),
			CustomerID: customerID,
			Status:     models.OrderStatusUnpaid,
			Items: []models.OrderItem{
				{ID: 1, ProductID: 7, Quantity: 2, Price: decimal.RequireFromString("49.99")},
			},
		}

		cartRepo.On("GetCart", mock.Anything, cartID).Return(cart, nil).Once()
		orderRepo.On("CreateFromCart", mock.Anything, cartID, customerID).Return(order, nil).Once()

		// Act
		created, err := orderService.Checkout(ctx, cartID, customerID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, order.ID, created.ID)
		assert.Equal(t, models.OrderStatusUnpaid, created.Status)
		assert.True(t, created.Total().Equal(decimal.RequireFromString("99.98")))

		select {
		case <-notifier.fired:
		case <-time.After(time.Second):
			t.Fatal("notification was not fired")
		}

		assert.Equal(t, 1, notifier.count())
		cartRepo.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
	})

	t.Run("Failure - Cart Not Found", func(t *testing.T) {
		cartRepo := new(mocks.CartRepository)
		orderRepo := new(mocks.OrderRepository)
		notifier := newRecordingNotifier()
		orderService := service.NewOrderService(orderRepo, cartRepo, notifier)

		cartID := uuid.New()

		cartRepo.On("GetCart", mock.Anything, cartID).Return(nil, sql.ErrNoRows).Once()

		_, err := orderService.Checkout(ctx, cartID, uuid.New())

		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.StatusCode)
		assert.Equal(t, 0, notifier.count())
		orderRepo.AssertNotCalled(t, "CreateFromCart", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Empty Cart Is A Validation Error", func(t *testing.T) {
		cartRepo := new(mocks.CartRepository)
		orderRepo := new(mocks.OrderRepository)
		notifier := newRecordingNotifier()
		orderService := service.NewOrderService(orderRepo, cartRepo, notifier)

		cartID := uuid.New()

		cartRepo.On("GetCart", mock.Anything, cartID).
			Return(&models.Cart{ID: cartID, Items: []models.CartItem{}}, nil).Once()

		_, err := orderService.Checkout(ctx, cartID, uuid.New())

		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.StatusCode)
		assert.Equal(t, 0, notifier.count())
	})

	t.Run("Failure - Cart Emptied Inside Transaction", func(t *testing.T) {
		cartRepo := new(mocks.CartRepository)
		orderRepo := new(mocks.OrderRepository)
		orderService := service.NewOrderService(orderRepo, cartRepo, newRecordingNotifier())

		cartID := uuid.New()
		customerID := uuid.New()

		cartRepo.On("GetCart", mock.Anything, cartID).Return(cartWithItems(cartID), nil).Once()
		orderRepo.On("CreateFromCart", mock.Anything, cartID, customerID).
			Return(nil, repository.ErrEmptyCart).Once()

		_, err := orderService.Checkout(ctx, cartID, customerID)

		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.StatusCode)
	})

	t.Run("Failure - Lost Concurrent Checkout Race Is Not Found", func(t *testing.T) {
		// A concurrent checkout deleted the cart between the read and the
		// transaction's lock; the loser sees the same 404 as a missing cart.
		cartRepo := new(mocks.CartRepository)
		orderRepo := new(mocks.OrderRepository)
		notifier := newRecordingNotifier()
		orderService := service.NewOrderService(orderRepo, cartRepo, notifier)

		cartID := uuid.New()
		customerID := uuid.New()

		cartRepo.On("GetCart", mock.Anything, cartID).Return(cartWithItems(cartID), nil).Once()
		orderRepo.On("CreateFromCart", mock.Anything, cartID, customerID).
			Return(nil, sql.ErrNoRows).Once()

		_, err := orderService.Checkout(ctx, cartID, customerID)

		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.StatusCode)
		assert.Equal(t, 0, notifier.count())
	})

	t.Run("Success - Notifier Absence Does Not Break Checkout", func(t *testing.T) {
		cartRepo := new(mocks.CartRepository)
		orderRepo := new(mocks.OrderRepository)
		orderService := service.NewOrderService(orderRepo, cartRepo, nil)

		cartID := uuid.New()
		customerID := uuid.New()
		order := &models.Order{ID: uuid.New(), CustomerID: customerID, Status: models.OrderStatusUnpaid}

		cartRepo.On("GetCart", mock.Anything, cartID).Return(cartWithItems(cartID), nil).Once()
		orderRepo.On("CreateFromCart", mock.Anything, cartID, customerID).Return(order, nil).Once()

		created, err := orderService.Checkout(ctx, cartID, customerID)

		require.NoError(t, err)
		assert.Equal(t, order.ID, created.ID)
	})
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Owner Reads Own Order", func(t *testing.T) {
		orderRepo := new(mocks.OrderRepository)
		orderService := service.NewOrderService(orderRepo, new(mocks.CartRepository), nil)

		customerID := uuid.New()
		order := &models.Order{ID: uuid.New(), CustomerID: customerID, Status: models.OrderStatusPaid}

		orderRepo.On("GetOrderByID", mock.Anything, order.ID).Return(order, nil).Once()

		got, err := orderService.GetOrder(ctx, order.ID, customerID)

		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("Failure - Foreign Order Looks Missing", func(t *testing.T) {
		orderRepo := new(mocks.OrderRepository)
		orderService := service.NewOrderService(orderRepo, new(mocks.CartRepository), nil)

		order := &models.Order{ID: uuid.New(), CustomerID: uuid.New()}

		orderRepo.On("GetOrderByID", mock.Anything, order.ID).Return(order, nil).Once()

		_, err := orderService.GetOrder(ctx, order.ID, uuid.New())

		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.StatusCode)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		orderRepo := new(mocks.OrderRepository)
		orderService := service.NewOrderService(orderRepo, new(mocks.CartRepository), nil)

		id := uuid.New()
		updated := &models.Order{ID: id, Status: models.OrderStatusCanceled}

		orderRepo.On("UpdateOrderStatus", mock.Anything, id, models.OrderStatusCanceled).Return(nil).Once()
		orderRepo.On("GetOrderByID", mock.Anything, id).Return(updated, nil).Once()

		order, err := orderService.UpdateOrderStatus(ctx, id, models.OrderStatusCanceled)

		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCanceled, order.Status)
	})

	t.Run("Failure - Unknown Order", func(t *testing.T) {
		orderRepo := new(mocks.OrderRepository)
		orderService := service.NewOrderService(orderRepo, new(mocks.CartRepository), nil)

		id := uuid.New()

		orderRepo.On("UpdateOrderStatus", mock.Anything, id, models.OrderStatusPaid).Return(sql.ErrNoRows).Once()

		_, err := orderService.UpdateOrderStatus(ctx, id, models.OrderStatusPaid)

		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.StatusCode)
	})
}
