package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Product struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Category    *Category       `json:"category,omitempty"`
}

// ProductResponse carries the display-only price_after_tax next to the stored
// pre-tax price. Order items always snapshot the pre-tax price.
type ProductResponse struct {
	Product

	PriceAfterTax decimal.Decimal `json:"price_after_tax"`
}

// WithTax computes the display price from the configured tax rate.
func (p Product) WithTax(taxRate float64) ProductResponse {
	multiplier := decimal.NewFromFloat(1 + taxRate)

	return ProductResponse{
		Product:       p,
		PriceAfterTax: p.Price.Mul(multiplier).Round(2),
	}
}

type CreateProductRequest struct {
	CategoryID  int64           `json:"category_id" validate:"required"`
	Title       string          `json:"title" validate:"required,min=3,max=255"`
	Slug        string          `json:"slug" validate:"required,min=3,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int64           `json:"stock" validate:"gte=0"`
}

type UpdateProductRequest struct {
	CategoryID  *int64           `json:"category_id,omitempty"`
	Title       *string          `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int64           `json:"stock,omitempty" validate:"omitempty,gte=0"`
}

// ProductFilter narrows product listings. Nil/zero values mean "no filter".
type ProductFilter struct {
	CategoryID int64
	PriceGT    *decimal.Decimal
	PriceLT    *decimal.Decimal
}
