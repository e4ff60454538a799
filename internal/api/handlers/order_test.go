package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecommkit/storefront/internal/api/handlers"
	"github.com/ecommkit/storefront/internal/config"
	"github.com/ecommkit/storefront/internal/models"
	"github.com/ecommkit/storefront/internal/repositories/mocks"
	service "github.com/ecommkit/storefront/internal/services"
	"github.com/ecommkit/storefront/internal/testutils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderHandlerDeps struct {
	cartRepo  *mocks.CartRepository
	orderRepo *mocks.OrderRepository
	handler   *handlers.OrderHandler
}

func setupOrderHandlerTest() orderHandlerDeps {
	cartRepo := new(mocks.CartRepository)
	orderRepo := new(mocks.OrderRepository)
	orderService := service.NewOrderService(orderRepo, cartRepo, nil)
	cfg := &config.Store{DefaultPageSize: 10, MaxPageSize: 50}

	return orderHandlerDeps{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		handler:   handlers.NewOrderHandler(orderService, cfg),
	}
}

func checkoutCart(cartID uuid.UUID) *models.Cart {
	return &models.Cart{
		ID:        cartID,
		CreatedAt: time.Now(),
		Items: []models.CartItem{
			{ID: 1, ProductID: 7, Quantity: 2, Product: models.CartProduct{ID: 7, Title: "Keyboard", Price: decimal.RequireFromString("49.99")}},
		},
	}
}

func TestCheckoutHandler(t *testing.T) {
	t.Run("Success - 200 With Snapshot Prices", func(t *testing.T) {
		// Arrange
		deps := setupOrderHandlerTest()
		cartID := uuid.New()
		customerID := uuid.New()

		order := &models.Order{
			ID:         uuid.New(),
			CustomerID: customerID,
			Status:     models.OrderStatusUnpaid,
			Items: []models.OrderItem{
				{ID: 1, ProductID: 7, Quantity: 2, Price: decimal.RequireFromString("49.99"), Product: models.OrderProduct{ID: 7, Title: "Keyboard"}},
			},
		}

		deps.cartRepo.On("GetCart", mock.Anything, cartID).Return(checkoutCart(cartID), nil).Once()
		deps.orderRepo.On("CreateFromCart", mock.Anything, cartID, customerID).Return(order, nil).Once()

		body, _ := json.Marshal(models.CheckoutRequest{CartID: cartID})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders",
			bytes.NewReader(body), customerID, nil)
		recorder := httptest.NewRecorder()

		// Act
		deps.handler.Checkout()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp struct {
			Success bool                 `json:"success"`
			Data    models.OrderResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, models.OrderStatusUnpaid, resp.Data.Status)
		assert.True(t, resp.Data.Total.Equal(decimal.RequireFromString("99.98")))
		deps.orderRepo.AssertExpectations(t)
	})

	t.Run("Failure - 401 Without Claims", func(t *testing.T) {
		deps := setupOrderHandlerTest()

		body, _ := json.Marshal(models.CheckoutRequest{CartID: uuid.New()})
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/orders",
			bytes.NewReader(body), nil)
		recorder := httptest.NewRecorder()

		deps.handler.Checkout()(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		deps.orderRepo.AssertNotCalled(t, "CreateFromCart", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - 400 Empty Cart", func(t *testing.T) {
		deps := setupOrderHandlerTest()
		cartID := uuid.New()
		customerID := uuid.New()

		deps.cartRepo.On("GetCart", mock.Anything, cartID).
			Return(&models.Cart{ID: cartID, Items: []models.CartItem{}}, nil).Once()

		body, _ := json.Marshal(models.CheckoutRequest{CartID: cartID})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders",
			bytes.NewReader(body), customerID, nil)
		recorder := httptest.NewRecorder()

		deps.handler.Checkout()(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Failure - 404 Cart Missing", func(t *testing.T) {
		deps := setupOrderHandlerTest()
		cartID := uuid.New()

		deps.cartRepo.On("GetCart", mock.Anything, cartID).Return(nil, sql.ErrNoRows).Once()

		body, _ := json.Marshal(models.CheckoutRequest{CartID: cartID})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders",
			bytes.NewReader(body), uuid.New(), nil)
		recorder := httptest.NewRecorder()

		deps.handler.Checkout()(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestGetOrderHandler(t *testing.T) {
	t.Run("Success - 200 For Owner", func(t *testing.T) {
		deps := setupOrderHandlerTest()
		customerID := uuid.New()
		order := &models.Order{ID: uuid.New(), CustomerID: customerID, Status: models.OrderStatusPaid}

		deps.orderRepo.On("GetOrderByID", mock.Anything, order.ID).Return(order, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/"+order.ID.String(),
			nil, customerID, map[string]string{"id": order.ID.String()})
		recorder := httptest.NewRecorder()

		deps.handler.GetOrder()(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Failure - 404 For Non-Owner", func(t *testing.T) {
		deps := setupOrderHandlerTest()
		order := &models.Order{ID: uuid.New(), CustomerID: uuid.New()}

		deps.orderRepo.On("GetOrderByID", mock.Anything, order.ID).Return(order, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/"+order.ID.String(),
			nil, uuid.New(), map[string]string{"id": order.ID.String()})
		recorder := httptest.NewRecorder()

		deps.handler.GetOrder()(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestListOrdersHandler(t *testing.T) {
	t.Run("Success - Status Filter Passed Through", func(t *testing.T) {
		deps := setupOrderHandlerTest()
		customerID := uuid.New()
		paid := models.OrderStatusPaid

		deps.orderRepo.On("ListOrdersByCustomer", mock.Anything, customerID, &paid, 1, 10).
			Return([]models.Order{{ID: uuid.New(), CustomerID: customerID, Status: paid}}, 1, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders?status=paid",
			nil, customerID, nil)
		recorder := httptest.NewRecorder()

		deps.handler.ListOrders()(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		deps.orderRepo.AssertExpectations(t)
	})

	t.Run("Failure - 400 Bad Status Filter", func(t *testing.T) {
		deps := setupOrderHandlerTest()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders?status=shipped",
			nil, uuid.New(), nil)
		recorder := httptest.NewRecorder()

		deps.handler.ListOrders()(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		deps.orderRepo.AssertNotCalled(t, "ListOrdersByCustomer",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	t.Run("Success - 200", func(t *testing.T) {
		deps := setupOrderHandlerTest()
		orderID := uuid.New()

		deps.orderRepo.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusCanceled).Return(nil).Once()
		deps.orderRepo.On("GetOrderByID", mock.Anything, orderID).
			Return(&models.Order{ID: orderID, Status: models.OrderStatusCanceled}, nil).Once()

		body, _ := json.Marshal(models.UpdateOrderStatusRequest{Status: models.OrderStatusCanceled})
		req := testutils.CreateTestRequestWithContext(http.MethodPatch,
			"/api/v1/orders/"+orderID.String()+"/status", bytes.NewReader(body),
			uuid.New(), map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		deps.handler.UpdateOrderStatus()(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Failure - 400 Unknown Status Value", func(t *testing.T) {
		deps := setupOrderHandlerTest()
		orderID := uuid.New()

		body := []byte(`{"status":"shipped"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPatch,
			"/api/v1/orders/"+orderID.String()+"/status", bytes.NewReader(body),
			uuid.New(), map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		deps.handler.UpdateOrderStatus()(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		deps.orderRepo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}
