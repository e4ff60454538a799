package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecommkit/storefront/internal/api/handlers"
	"github.com/ecommkit/storefront/internal/models"
	"github.com/ecommkit/storefront/internal/repositories/mocks"
	service "github.com/ecommkit/storefront/internal/services"
	"github.com/ecommkit/storefront/internal/testutils"
	"github.com/ecommkit/storefront/internal/utils/response"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCartHandlerTest() (*mocks.CartRepository, *mocks.ProductRepository, *handlers.CartHandler) {
	cartRepo := new(mocks.CartRepository)
	productRepo := new(mocks.ProductRepository)
	cartService := service.NewCartService(cartRepo, productRepo)

	return cartRepo, productRepo, handlers.NewCartHandler(cartService)
}

func TestCreateCartHandler(t *testing.T) {
	t.Run("Success - 201 With Cart Token", func(t *testing.T) {
		// Arrange
		cartRepo, _, handler := setupCartHandlerTest()
		cartID := uuid.New()

		cartRepo.On("CreateCart", mock.Anything).
			Return(&models.Cart{ID: cartID, Items: []models.CartItem{}}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/carts", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.CreateCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		cartRepo.AssertExpectations(t)
	})
}

func TestGetCartHandler(t *testing.T) {
	t.Run("Success - 200 With Computed Totals", func(t *testing.T) {
		cartRepo, _, handler := setupCartHandlerTest()
		cartID := uuid.New()

		cart := &models.Cart{
			ID: cartID,
			Items: []models.CartItem{
				{ID: 1, ProductID: 7, Quantity: 2, Product: models.CartProduct{ID: 7, Title: "Keyboard", Price: decimal.RequireFromString("49.99")}},
			},
		}

		cartRepo.On("GetCart", mock.Anything, cartID).Return(cart, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/carts/"+cartID.String(), nil,
			map[string]string{"id": cartID.String()})
		recorder := httptest.NewRecorder()

		handler.GetCart()(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp struct {
			Success bool                `json:"success"`
			Data    models.CartResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Data.Total.Equal(decimal.RequireFromString("99.98")))
	})

	t.Run("Failure - 404 Unknown Cart", func(t *testing.T) {
		cartRepo, _, handler := setupCartHandlerTest()
		cartID := uuid.New()

		cartRepo.On("GetCart", mock.Anything, cartID).Return(nil, sql.ErrNoRows).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/carts/"+cartID.String(), nil,
			map[string]string{"id": cartID.String()})
		recorder := httptest.NewRecorder()

		handler.GetCart()(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Failure - 400 Malformed Cart ID", func(t *testing.T) {
		_, _, handler := setupCartHandlerTest()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/carts/not-a-uuid", nil,
			map[string]string{"id": "not-a-uuid"})
		recorder := httptest.NewRecorder()

		handler.GetCart()(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestAddItemHandler(t *testing.T) {
	t.Run("Success - 200 Even When Line Already Existed", func(t *testing.T) {
		cartRepo, productRepo, handler := setupCartHandlerTest()
		cartID := uuid.New()

		body, _ := json.Marshal(models.AddCartItemRequest{ProductID: 7, Quantity: 3})

		cartRepo.On("GetCart", mock.Anything, cartID).Return(&models.Cart{ID: cartID}, nil).Once()
		productRepo.On("GetProductByID", mock.Anything, int64(7)).
			Return(&models.Product{ID: 7, Title: "Keyboard", Price: decimal.RequireFromString("49.99")}, nil).Once()
		cartRepo.On("UpsertItem", mock.Anything, cartID, int64(7), int64(3)).
			Return(&models.CartItem{ID: 1, CartID: cartID, ProductID: 7, Quantity: 5}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/carts/"+cartID.String()+"/items",
			bytes.NewReader(body), map[string]string{"id": cartID.String()})
		recorder := httptest.NewRecorder()

		handler.AddItem()(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp struct {
			Success bool            `json:"success"`
			Data    models.CartItem `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, int64(5), resp.Data.Quantity)
	})

	t.Run("Failure - 400 Zero Quantity", func(t *testing.T) {
		cartRepo, _, handler := setupCartHandlerTest()
		cartID := uuid.New()

		body, _ := json.Marshal(map[string]any{"product_id": 7, "quantity": 0})

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/carts/"+cartID.String()+"/items",
			bytes.NewReader(body), map[string]string{"id": cartID.String()})
		recorder := httptest.NewRecorder()

		handler.AddItem()(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		cartRepo.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - 404 Unknown Product", func(t *testing.T) {
		cartRepo, productRepo, handler := setupCartHandlerTest()
		cartID := uuid.New()

		body, _ := json.Marshal(models.AddCartItemRequest{ProductID: 404, Quantity: 1})

		cartRepo.On("GetCart", mock.Anything, cartID).Return(&models.Cart{ID: cartID}, nil).Once()
		productRepo.On("GetProductByID", mock.Anything, int64(404)).Return(nil, sql.ErrNoRows).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/carts/"+cartID.String()+"/items",
			bytes.NewReader(body), map[string]string{"id": cartID.String()})
		recorder := httptest.NewRecorder()

		handler.AddItem()(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestRemoveItemHandler(t *testing.T) {
	t.Run("Success - 204 No Body", func(t *testing.T) {
		cartRepo, _, handler := setupCartHandlerTest()
		cartID := uuid.New()

		cartRepo.On("DeleteItem", mock.Anything, cartID, int64(1)).Return(nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodDelete,
			"/api/v1/carts/"+cartID.String()+"/items/1", nil,
			map[string]string{"id": cartID.String(), "item_id": "1"})
		recorder := httptest.NewRecorder()

		handler.RemoveItem()(recorder, req)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Empty(t, recorder.Body.String())
	})

	t.Run("Failure - 404 Already Removed", func(t *testing.T) {
		cartRepo, _, handler := setupCartHandlerTest()
		cartID := uuid.New()

		cartRepo.On("DeleteItem", mock.Anything, cartID, int64(1)).Return(sql.ErrNoRows).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodDelete,
			"/api/v1/carts/"+cartID.String()+"/items/1", nil,
			map[string]string{"id": cartID.String(), "item_id": "1"})
		recorder := httptest.NewRecorder()

		handler.RemoveItem()(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
