package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ecommkit/storefront/internal/api/middleware"
	"github.com/ecommkit/storefront/internal/models"
	service "github.com/ecommkit/storefront/internal/services"
	"github.com/ecommkit/storefront/internal/utils"
	"github.com/ecommkit/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// Cart endpoints are deliberately unauthenticated: the cart id is an
// unguessable token and holding it is the only capability needed.
type CartHandler struct {
	cartService *service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// CreateCart godoc
//	@Summary		Create a new cart
//	@Description	Creates an empty anonymous cart and returns its token.
//	@Tags			Carts
//	@Produce		json
//	@Success		201	{object}	models.CartResponse		"Successfully created cart"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/carts [post]
func (h *CartHandler) CreateCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		cart, err := h.cartService.CreateCart(r.Context())
		if err != nil {
			logger.Error("Failed to create cart", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Cart created successfully", slog.String("cartId", cart.ID.String()))
		response.Success(w, http.StatusCreated, cart.View())
	}
}

// GetCart godoc
//	@Summary		Get a cart
//	@Description	Retrieves the cart with line and cart totals computed from current catalog prices.
//	@Tags			Carts
//	@Produce		json
//	@Param			id	path		string					true	"Cart ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.CartResponse		"Successfully retrieved cart"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid cart ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Cart not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/carts/{id} [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseUUID(r, "id")
		if err != nil {
			logger.Warn("Invalid cart id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		cart, err := h.cartService.GetCart(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get cart", slog.String("cartId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart.View())
	}
}

// AddItem godoc
//	@Summary		Add an item to a cart
//	@Description	Adds a product to the cart. Adding a product already in the cart merges the quantities into one line.
//	@Tags			Carts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Cart ID (UUID)"	Format(uuid)
//	@Param			item	body		models.AddCartItemRequest	true	"Product and quantity"
//	@Success		200		{object}	models.CartItem				"Resulting cart line"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		404		{object}	response.ErrorResponse		"Cart or product not found"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Router			/carts/{id}/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseUUID(r, "id")
		if err != nil {
			logger.Warn("Invalid cart id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		var req models.AddCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")

			return
		}

		item, err := h.cartService.AddItem(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to add cart item",
				slog.String("cartId", id.String()),
				slog.Int64("productId", req.ProductID),
				slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Cart item added",
			slog.String("cartId", id.String()),
			slog.Int64("productId", req.ProductID),
			slog.Int64("quantity", item.Quantity))
		response.Success(w, http.StatusOK, item)
	}
}

// UpdateItem godoc
//	@Summary		Update a cart line quantity
//	@Description	Replaces the quantity of an existing cart line.
//	@Tags			Carts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Cart ID (UUID)"	Format(uuid)
//	@Param			item_id	path		int								true	"Cart item ID"
//	@Param			item	body		models.UpdateCartItemRequest	true	"New quantity"
//	@Success		200		{object}	models.CartItem					"Updated cart line"
//	@Failure		400		{object}	response.ErrorResponse			"Validation error"
//	@Failure		404		{object}	response.ErrorResponse			"Cart item not found"
//	@Failure		500		{object}	response.ErrorResponse			"Internal server error"
//	@Router			/carts/{id}/items/{item_id} [patch]
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseUUID(r, "id")
		if err != nil {
			logger.Warn("Invalid cart id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		itemID, err := utils.ParseInt64(r, "item_id")
		if err != nil {
			logger.Warn("Invalid cart item id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		var req models.UpdateCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update item input")

			return
		}

		item, err := h.cartService.UpdateItemQuantity(r.Context(), id, itemID, &req)
		if err != nil {
			logger.Error("Failed to update cart item",
				slog.String("cartId", id.String()),
				slog.Int64("itemId", itemID),
				slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, item)
	}
}

// RemoveItem godoc
//	@Summary		Remove a cart line
//	@Description	Deletes the line from the cart. Removing a line that is already gone is a 404.
//	@Tags			Carts
//	@Param			id		path	string	true	"Cart ID (UUID)"	Format(uuid)
//	@Param			item_id	path	int		true	"Cart item ID"
//	@Success		204		"Item removed"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid id format"
//	@Failure		404		{object}	response.ErrorResponse	"Cart item not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/carts/{id}/items/{item_id} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseUUID(r, "id")
		if err != nil {
			logger.Warn("Invalid cart id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		itemID, err := utils.ParseInt64(r, "item_id")
		if err != nil {
			logger.Warn("Invalid cart item id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		if err := h.cartService.RemoveItem(r.Context(), id, itemID); err != nil {
			logger.Error("Failed to remove cart item",
				slog.String("cartId", id.String()),
				slog.Int64("itemId", itemID),
				slog.Any("error", err))
			response.Error(w, err)

			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteCart godoc
//	@Summary		Delete a cart
//	@Description	Deletes the cart and all of its lines.
//	@Tags			Carts
//	@Param			id	path	string	true	"Cart ID (UUID)"	Format(uuid)
//	@Success		204	"Cart deleted"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid cart ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Cart not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/carts/{id} [delete]
func (h *CartHandler) DeleteCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseUUID(r, "id")
		if err != nil {
			logger.Warn("Invalid cart id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		if err := h.cartService.DeleteCart(r.Context(), id); err != nil {
			logger.Error("Failed to delete cart", slog.String("cartId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Cart deleted", slog.String("cartId", id.String()))
		w.WriteHeader(http.StatusNoContent)
	}
}
