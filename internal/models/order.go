package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusUnpaid   OrderStatus = "unpaid"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusCanceled OrderStatus = "canceled"
)

// OrderProduct is the slice of product data embedded in order reads.
type OrderProduct struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// OrderItem snapshots the product price at checkout time. Rows are never
// edited after creation; they are the audit trail for what was charged.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   uuid.UUID       `json:"-"`
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   OrderProduct    `json:"product"`
}

func (i OrderItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

type Order struct {
	ID              uuid.UUID   `json:"id"`
	CustomerID      uuid.UUID   `json:"customer_id"`
	Status          OrderStatus `json:"status"`
	PaymentIntentID string      `json:"payment_intent_id,omitempty"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Total sums the snapshot prices, not current catalog prices.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Total())
	}

	return total
}

type OrderResponse struct {
	ID        uuid.UUID       `json:"id"`
	Status    OrderStatus     `json:"status"`
	Items     []OrderItemView `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

type OrderItemView struct {
	ID       int64           `json:"id"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Product  OrderProduct    `json:"product"`
	Total    decimal.Decimal `json:"total"`
}

func (o Order) View() OrderResponse {
	items := make([]OrderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemView{
			ID:       item.ID,
			Quantity: item.Quantity,
			Price:    item.Price,
			Product:  item.Product,
			Total:    item.Total(),
		})
	}

	return OrderResponse{
		ID:        o.ID,
		Status:    o.Status,
		Items:     items,
		Total:     o.Total(),
		CreatedAt: o.CreatedAt,
	}
}

type CheckoutRequest struct {
	CartID uuid.UUID `json:"cart_id" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=unpaid paid canceled"`
}
