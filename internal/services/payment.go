package service

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"log/slog"

	"github.com/ecommkit/storefront/internal/config"
	"github.com/ecommkit/storefront/internal/errors"
	"github.com/ecommkit/storefront/internal/models"
	repository "github.com/ecommkit/storefront/internal/repositories"
	stripeClient "github.com/ecommkit/storefront/pkg/stripe"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
)

type PaymentService struct {
	orderRepo repository.OrderRepository
	stripe    stripeClient.Client
	currency  string
}

func NewPaymentService(orderRepo repository.OrderRepository, client stripeClient.Client, cfg *config.Stripe) *PaymentService {
	return &PaymentService{orderRepo: orderRepo, stripe: client, currency: cfg.Currency}
}

// CreatePayment opens a payment intent for an unpaid order owned by the
// caller and pins its id on the order row.
func (s *PaymentService) CreatePayment(ctx context.Context, customerID uuid.UUID, req *models.CreatePaymentRequest) (*models.PaymentResponse, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.CustomerID != customerID {
		return nil, errors.NotFoundError("Order not found")
	}

	if order.Status != models.OrderStatusUnpaid {
		return nil, errors.BadRequestError("Order is not payable")
	}

	// Stripe amounts are in the smallest currency unit.
	amount := order.Total().Mul(decimal.NewFromInt(100)).IntPart()

	intent, err := s.stripe.CreatePaymentIntent(amount, s.currency, "Order "+order.ID.String(), "")
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to create payment intent").WithError(err)
	}

	if err := s.orderRepo.SetPaymentIntent(ctx, order.ID, intent.ID); err != nil {
		return nil, errors.DatabaseError("Failed to attach payment intent").WithError(err)
	}

	return &models.PaymentResponse{
		PaymentIntent: &models.PaymentIntent{
			ID:     intent.ID,
			Amount: order.Total(),
			Status: string(intent.Status),
		},
		ClientSecret: intent.ClientSecret,
	}, nil
}

// HandleWebhook verifies the event signature and flips the matching order to
// paid on payment_intent.succeeded. Replayed events are no-ops.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.stripe.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return errors.BadRequestError("Invalid webhook signature").WithError(err)
	}

	if event.Type != "payment_intent.succeeded" {
		slog.Debug("Ignoring stripe event", slog.String("type", string(event.Type)))

		return nil
	}

	var intent stripe.PaymentIntent

	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return errors.BadRequestError("Malformed webhook payload").WithError(err)
	}

	orderID, err := s.orderRepo.MarkPaidByPaymentIntent(ctx, intent.ID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			slog.Warn("No unpaid order for payment intent", slog.String("paymentIntentId", intent.ID))

			return nil
		}

		return errors.DatabaseError("Failed to mark order paid").WithError(err)
	}

	slog.Info("Order marked paid", slog.String("orderId", orderID.String()))

	return nil
}
