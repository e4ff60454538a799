package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentIntent struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
}

type CreatePaymentRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

type PaymentResponse struct {
	PaymentIntent *PaymentIntent `json:"payment_intent"`
	ClientSecret  string         `json:"client_secret"`
}
