package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ecommkit/storefront/internal/models"
	"github.com/ecommkit/storefront/internal/utils"
	"github.com/google/uuid"
)

type CartRepository interface {
	CreateCart(ctx context.Context) (*models.Cart, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
	UpsertItem(ctx context.Context, cartID uuid.UUID, productID, quantity int64) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemID, quantity int64) (*models.CartItem, error)
	DeleteItem(ctx context.Context, cartID uuid.UUID, itemID int64) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) CreateCart(ctx context.Context) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart := &models.Cart{ID: uuid.New(), Items: []models.CartItem{}}

	query := `
		INSERT INTO carts (id, created_at)
		VALUES ($1, NOW())
		RETURNING created_at
	`

	if err := r.DB.QueryRowContext(dbCtx, query, cart.ID).Scan(&cart.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert cart: %w", err)
	}

	return cart, nil
}

// GetCart loads the cart and its lines joined with current product prices.
// Returns sql.ErrNoRows when the cart does not exist.
func (r *cartRepository) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart := &models.Cart{ID: cartID, Items: []models.CartItem{}}

	query := `SELECT created_at FROM carts WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, cartID).Scan(&cart.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying cart: %w", err)
	}

	query = `
		SELECT ci.id, ci.product_id, ci.quantity, p.title, p.price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`

	rows, err := r.DB.QueryContext(dbCtx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("querying cart items: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		item := models.CartItem{CartID: cartID}

		err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Product.Title, &item.Product.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		item.Product.ID = item.ProductID
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cart, nil
}

func (r *cartRepository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// UpsertItem merges duplicate lines in one statement. The unique
// (cart_id, product_id) constraint makes concurrent adds serialize in the
// database instead of racing a get-then-insert.
func (r *cartRepository) UpsertItem(ctx context.Context, cartID uuid.UUID, productID, quantity int64) (*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	item := &models.CartItem{CartID: cartID, ProductID: productID}

	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity
	`

	err := r.DB.QueryRowContext(dbCtx, query, cartID, productID, quantity).Scan(&item.ID, &item.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return item, nil
}

// UpdateItemQuantity replaces the quantity of a line scoped to its cart.
// Returns sql.ErrNoRows when the item does not belong to the cart.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemID, quantity int64) (*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	item := &models.CartItem{ID: itemID, CartID: cartID, Quantity: quantity}

	query := `
		UPDATE cart_items SET quantity = $1
		WHERE id = $2 AND cart_id = $3
		RETURNING product_id
	`

	err := r.DB.QueryRowContext(dbCtx, query, quantity, itemID, cartID).Scan(&item.ProductID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return item, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID uuid.UUID, itemID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, itemID, cartID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return sql.ErrNoRows
	}

	return nil
}
