package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/ecommkit/storefront/internal/api/middleware"
	"github.com/ecommkit/storefront/internal/errors"
	"github.com/ecommkit/storefront/internal/models"
	service "github.com/ecommkit/storefront/internal/services"
	"github.com/ecommkit/storefront/internal/utils"
	"github.com/ecommkit/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// Stripe caps webhook payloads well below this.
const maxWebhookBodyBytes = 1 << 16

type PaymentHandler struct {
	paymentService *service.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validator: validator.New()}
}

// CreatePayment godoc
//	@Summary		Create a payment intent
//	@Description	Opens a stripe PaymentIntent for an unpaid order owned by the authenticated user.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			payment	body		models.CreatePaymentRequest	true	"Order to pay"
//	@Success		201		{object}	models.PaymentResponse		"Payment intent created"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error or order not payable"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Order not found"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/payments [post]
func (h *PaymentHandler) CreatePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized payment attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.CreatePaymentRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid payment input")

			return
		}

		payment, err := h.paymentService.CreatePayment(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to create payment",
				slog.String("orderId", req.OrderID.String()),
				slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Payment intent created",
			slog.String("orderId", req.OrderID.String()),
			slog.String("paymentIntentId", payment.PaymentIntent.ID))
		response.Success(w, http.StatusCreated, payment)
	}
}

// HandleWebhook godoc
//	@Summary		Stripe webhook
//	@Description	Receives signed stripe events; payment_intent.succeeded marks the matching order paid.
//	@Tags			Payments
//	@Accept			json
//	@Success		200	"Event processed"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid signature or payload"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/payments/webhook [post]
func (h *PaymentHandler) HandleWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
		if err != nil {
			logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Failed to read request body").WithError(err))

			return
		}

		signature := r.Header.Get("Stripe-Signature")

		if err := h.paymentService.HandleWebhook(r.Context(), payload, signature); err != nil {
			logger.Warn("Webhook processing failed", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
