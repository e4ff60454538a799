package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ecommkit/storefront/internal/api/middleware"
	"github.com/ecommkit/storefront/internal/config"
	"github.com/ecommkit/storefront/internal/errors"
	"github.com/ecommkit/storefront/internal/models"
	service "github.com/ecommkit/storefront/internal/services"
	"github.com/ecommkit/storefront/internal/utils"
	"github.com/ecommkit/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService *service.OrderService
	validator    *validator.Validate
	cfg          *config.Store
}

func NewOrderHandler(orderService *service.OrderService, cfg *config.Store) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New(), cfg: cfg}
}

// Checkout godoc
//	@Summary		Checkout a cart
//	@Description	Atomically converts the cart into an order with prices snapshotted at this moment, then deletes the cart. Requires authentication.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			checkout	body		models.CheckoutRequest	true	"Cart to check out"
//	@Success		200			{object}	models.OrderResponse	"Successfully created order"
//	@Failure		400			{object}	response.ErrorResponse	"Validation error or empty cart"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404			{object}	response.ErrorResponse	"Cart not found"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized checkout attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")

			return
		}

		order, err := h.orderService.Checkout(r.Context(), req.CartID, claims.UserID)
		if err != nil {
			logger.Error("Checkout failed",
				slog.String("cartId", req.CartID.String()),
				slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Order created successfully",
			slog.String("orderId", order.ID.String()),
			slog.String("cartId", req.CartID.String()))
		response.Success(w, http.StatusOK, order.View())
	}
}

// GetOrder godoc
//	@Summary		Get an order by ID
//	@Description	Retrieves an order placed by the authenticated user. Orders owned by someone else are indistinguishable from missing ones.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.OrderResponse	"Successfully retrieved order"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid order ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		id, err := utils.ParseUUID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		order, err := h.orderService.GetOrder(r.Context(), id, claims.UserID)
		if err != nil {
			logger.Error("Failed to get order",
				slog.String("orderId", id.String()),
				slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, order.View())
	}
}

// ListOrders godoc
//	@Summary		List user's orders
//	@Description	Retrieves a paginated list of the authenticated user's orders, optionally filtered by status.
//	@Tags			Orders
//	@Produce		json
//	@Param			page	query		int												false	"Page number (default: 1)"	minimum(1)
//	@Param			size	query		int												false	"Items per page"			minimum(1)
//	@Param			status	query		string											false	"Filter by order status"	Enums(unpaid, paid, canceled)
//	@Success		200		{object}	models.PaginatedResponse{Data=[]models.Order}	"Successfully retrieved orders"
//	@Failure		400		{object}	response.ErrorResponse							"Invalid status filter"
//	@Failure		401		{object}	response.ErrorResponse							"Authentication required"
//	@Failure		500		{object}	response.ErrorResponse							"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order list attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		page, size := utils.ParsePagination(r, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)

		var status *models.OrderStatus

		if raw := r.URL.Query().Get("status"); raw != "" {
			s := models.OrderStatus(raw)
			if s != models.OrderStatusUnpaid && s != models.OrderStatusPaid && s != models.OrderStatusCanceled {
				logger.Warn("Invalid order status filter", slog.String("status", raw))
				response.Error(w, errors.AddValidationError("status", "must be one of unpaid, paid, canceled"))

				return
			}

			status = &s
		}

		orders, total, err := h.orderService.ListOrders(r.Context(), claims.UserID, status, page, size)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		views := make([]models.OrderResponse, 0, len(orders))
		for _, order := range orders {
			views = append(views, order.View())
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     views,
			Total:    total,
			Page:     page,
			PageSize: size,
		})
	}
}

// UpdateOrderStatus godoc
//	@Summary		Update order status
//	@Description	Updates the status of an order. Intended for administrative use.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Order ID (UUID)"	Format(uuid)
//	@Param			status	body		models.UpdateOrderStatusRequest	true	"New order status"
//	@Success		200		{object}	models.OrderResponse			"Successfully updated order status"
//	@Failure		400		{object}	response.ErrorResponse			"Invalid order ID or status value"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse			"Order not found"
//	@Failure		500		{object}	response.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order status update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		logger = logger.With(slog.String("updaterUserId", claims.UserID.String()))

		id, err := utils.ParseUUID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update order status input")

			return
		}

		order, err := h.orderService.UpdateOrderStatus(r.Context(), id, req.Status)
		if err != nil {
			logger.Error("Failed to update order status",
				slog.String("orderId", id.String()),
				slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Order status updated",
			slog.String("orderId", id.String()),
			slog.String("status", string(req.Status)))
		response.Success(w, http.StatusOK, order.View())
	}
}
