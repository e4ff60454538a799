package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartProduct is the slice of product data embedded in cart reads.
type CartProduct struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

type CartItem struct {
	ID        int64       `json:"id"`
	CartID    uuid.UUID   `json:"-"`
	ProductID int64       `json:"product_id"`
	Quantity  int64       `json:"quantity"`
	Product   CartProduct `json:"product"`
}

// Total is the live line total; carts never store prices.
func (i CartItem) Total() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// Cart is an ephemeral bag of desired items, addressed by a random token.
// Anyone holding the token can act on the cart.
type Cart struct {
	ID        uuid.UUID  `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []CartItem `json:"items"`
}

// Total recomputes the cart total from current product prices on every read.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Total())
	}

	return total
}

type CartResponse struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []CartItemView  `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

type CartItemView struct {
	ID       int64           `json:"id"`
	Quantity int64           `json:"quantity"`
	Product  CartProduct     `json:"product"`
	Total    decimal.Decimal `json:"total"`
}

// View materializes the computed totals for serialization.
func (c Cart) View() CartResponse {
	items := make([]CartItemView, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemView{
			ID:       item.ID,
			Quantity: item.Quantity,
			Product:  item.Product,
			Total:    item.Total(),
		})
	}

	return CartResponse{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		Items:     items,
		Total:     c.Total(),
	}
}

type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int64 `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity" validate:"required,min=1"`
}
