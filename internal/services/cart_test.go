package service_test

import (
	"context"
	"database/sql"
	"testing"

	appErrors "github.com/ecommkit/storefront/internal/errors"
	"github.com/ecommkit/storefront/internal/models"
	"github.com/ecommkit/storefront/internal/repositories/mocks"
	service "github.com/ecommkit/storefront/internal/services"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCartTest() (*mocks.CartRepository, *mocks.ProductRepository, *service.CartService) {
	cartRepo := new(mocks.CartRepository)
	productRepo := new(mocks.ProductRepository)

	return cartRepo, productRepo, service.NewCartService(cartRepo, productRepo)
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - New Line", func(t *testing.T) {
		// Arrange
		cartRepo, productRepo, cartService := setupCartTest()
		cartID := uuid.New()

		product := &models.Product{
			ID:    7,
			Title: "Mechanical Keyboard",
			Price: decimal.RequireFromString("49.99"),
		}

		cartRepo.On("GetCart", mock.Anything, cartID).Return(&models.Cart{ID: cartID}, nil).Once()
		productRepo.On("GetProductByID", mock.Anything, int64(7)).Return(product, nil).Once()
		cartRepo.On("UpsertItem", mock.Anything, cartID, int64(7), int64(2)).
			Return(&models.CartItem{ID: 1, CartID: cartID, ProductID: 7, Quantity: 2}, nil).Once()

		// Act
		item, err := cartService.AddItem(ctx, cartID, &models.AddCartItemRequest{ProductID: 7, Quantity: 2})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(2), item.Quantity)
		assert.Equal(t, "Mechanical Keyboard", item.Product.Title)
		cartRepo.AssertExpectations(t)
		productRepo.AssertExpectations(t)
	})

	t.Run("Success - Duplicate Product Merges Quantities", func(t *testing.T) {
		// The upsert returns the merged line; adding 3 to an existing line
		// of 2 yields one line of 5.
		cartRepo, productRepo, cartService := setupCartTest()
		cartID := uuid.New()

		product := &models.Product{ID: 7, Title: "Mechanical Keyboard", Price: decimal.RequireFromString("49.99")}

		cartRepo.On("GetCart", mock.Anything, cartID).Return(&models.Cart{ID: cartID}, nil).Once()
		productRepo.On("GetProductByID", mock.Anything, int64(7)).Return(product, nil).Once()
		cartRepo.On("UpsertItem", mock.Anything, cartID, int64(7), int64(3)).
			Return(&models.CartItem{ID: 1, CartID: cartID, ProductID: 7, Quantity: 5}, nil).Once()

		item, err := cartService.AddItem(ctx, cartID, &models.AddCartItemRequest{ProductID: 7, Quantity: 3})

		require.NoError(t, err)
		assert.Equal(t, int64(5), item.Quantity)
	})

	t.Run("Failure - Non-Positive Quantity", func(t *testing.T) {
		cartRepo, _, cartService := setupCartTest()

		_, err := cartService.AddItem(ctx, uuid.New(), &models.AddCartItemRequest{ProductID: 7, Quantity: 0})

		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.StatusCode)
		cartRepo.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Cart Not Found", func(t *testing.T) {
		cartRepo, productRepo, cartService := setupCartTest()
		cartID := uuid.New()

		cartRepo.On("GetCart", mock.Anything, cartID).Return(nil, sql.ErrNoRows).Once()

		_, err := cartService.AddItem(ctx, cartID, &models.AddCartItemRequest{ProductID: 7, Quantity: 1})

		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.StatusCode)
		productRepo.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Cart Deleted Before Upsert Is Not Found", func(t *testing.T) {
		// A concurrent checkout can delete the cart after the existence
		// check passed; the upsert then trips the cart_id foreign key.
		cartRepo, productRepo, cartService := setupCartTest()
		cartID := uuid.New()

		cartRepo.On("GetCart", mock.Anything, cartID).Return(&models.Cart{ID: cartID}, nil).Once()
		productRepo.On("GetProductByID", mock.Anything, int64(7)).
			Return(&models.Product{ID: 7, Title: "Mechanical Keyboard", Price: decimal.RequireFromString("49.99")}, nil).Once()
		cartRepo.On("UpsertItem", mock.Anything, cartID, int64(7), int64(1)).
			Return(nil, &pq.Error{Code: "23503", Constraint: "cart_items_cart_id_fkey"}).Once()

		_, err := cartService.AddItem(ctx, cartID, &models.AddCartItemRequest{ProductID: 7, Quantity: 1})

		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.StatusCode)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		cartRepo, productRepo, cartService := setupCartTest()
		cartID := uuid.New()

		cartRepo.On("GetCart", mock.Anything, cartID).Return(&models.Cart{ID: cartID}, nil).Once()
		productRepo.On("GetProductByID", mock.Anything, int64(404)).Return(nil, sql.ErrNoRows).Once()

		_, err := cartService.AddItem(ctx, cartID, &models.AddCartItemRequest{ProductID: 404, Quantity: 1})

		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.StatusCode)
	})
}

func TestUpdateItemQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cartRepo, _, cartService := setupCartTest()
		cartID := uuid.New()

		cartRepo.On("UpdateItemQuantity", mock.Anything, cartID, int64(1), int64(4)).
			Return(&models.CartItem{ID: 1, CartID: cartID, ProductID: 7, Quantity: 4}, nil).Once()

		item, err := cartService.UpdateItemQuantity(ctx, cartID, 1, &models.UpdateCartItemRequest{Quantity: 4})

		require.NoError(t, err)
		assert.Equal(t, int64(4), item.Quantity)
	})

	t.Run("Failure - Item Not In Cart", func(t *testing.T) {
		cartRepo, _, cartService := setupCartTest()
		cartID := uuid.New()

		cartRepo.On("UpdateItemQuantity", mock.Anything, cartID, int64(99), int64(4)).
			Return(nil, sql.ErrNoRows).Once()

		_, err := cartService.UpdateItemQuantity(ctx, cartID, 99, &models.UpdateCartItemRequest{Quantity: 4})

		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.StatusCode)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cartRepo, _, cartService := setupCartTest()
		cartID := uuid.New()

		cartRepo.On("DeleteItem", mock.Anything, cartID, int64(1)).Return(nil).Once()

		require.NoError(t, cartService.RemoveItem(ctx, cartID, 1))
	})

	t.Run("Failure - Removing A Missing Line Is Not Found", func(t *testing.T) {
		cartRepo, _, cartService := setupCartTest()
		cartID := uuid.New()

		cartRepo.On("DeleteItem", mock.Anything, cartID, int64(1)).Return(sql.ErrNoRows).Once()

		err := cartService.RemoveItem(ctx, cartID, 1)

		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.StatusCode)
	})
}

func TestGetCartTotals(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Totals Recomputed From Current Prices", func(t *testing.T) {
		cartRepo, _, cartService := setupCartTest()
		cartID := uuid.New()

		cart := &models.Cart{
			ID: cartID,
			Items: []models.CartItem{
				{ID: 1, ProductID: 7, Quantity: 2, Product: models.CartProduct{ID: 7, Price: decimal.RequireFromString("49.99")}},
				{ID: 2, ProductID: 8, Quantity: 1, Product: models.CartProduct{ID: 8, Price: decimal.RequireFromString("10.01")}},
			},
		}

		cartRepo.On("GetCart", mock.Anything, cartID).Return(cart, nil).Once()

		got, err := cartService.GetCart(ctx, cartID)

		require.NoError(t, err)

		view := got.View()
		assert.True(t, view.Total.Equal(decimal.RequireFromString("109.99")))
		assert.True(t, view.Items[0].Total.Equal(decimal.RequireFromString("99.98")))
	})
}
