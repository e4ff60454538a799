package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ecommkit/storefront/internal/models"
	"github.com/ecommkit/storefront/internal/utils"
	"github.com/google/uuid"
)

// ErrEmptyCart is returned when a checkout finds no lines under the cart
// lock. The service layer pre-validates, but only the in-transaction read is
// authoritative.
var ErrEmptyCart = errors.New("cart is empty")

type OrderRepository interface {
	CreateFromCart(ctx context.Context, cartID, customerID uuid.UUID) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, status *models.OrderStatus, page, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	SetPaymentIntent(ctx context.Context, id uuid.UUID, paymentIntentID string) error
	MarkPaidByPaymentIntent(ctx context.Context, paymentIntentID string) (uuid.UUID, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// CreateFromCart converts a cart into an order in one transaction: lock the
// cart row, snapshot current product prices into order items, delete the
// cart. All or nothing; a rollback leaves the cart untouched, so retrying is
// just calling checkout again.
//
// Concurrent checkouts of the same cart serialize on the FOR UPDATE lock.
// The loser resumes after the winner's commit, finds no cart row and gets
// sql.ErrNoRows.
func (r *orderRepository) CreateFromCart(ctx context.Context, cartID, customerID uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin checkout transaction: %w", err)
	}

	defer tx.Rollback()

	var cartCreatedAt time.Time

	err = tx.QueryRowContext(dbCtx, `SELECT created_at FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&cartCreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}

	query := `
		SELECT ci.product_id, ci.quantity, p.title, p.price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`

	rows, err := tx.QueryContext(dbCtx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}

	var items []models.OrderItem

	for rows.Next() {
		var item models.OrderItem

		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Product.Title, &item.Price); err != nil {
			rows.Close()

			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		item.Product.ID = item.ProductID
		items = append(items, item)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     models.OrderStatusUnpaid,
	}

	query = `
		INSERT INTO orders (id, customer_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowContext(dbCtx, query, order.ID, order.CustomerID, order.Status).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	query = `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	for i := range items {
		items[i].OrderID = order.ID

		err := tx.QueryRowContext(dbCtx, query, order.ID, items[i].ProductID, items[i].Quantity, items[i].Price).Scan(&items[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	order.Items = items

	// Cascades to cart_items.
	if _, err := tx.ExecContext(dbCtx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
		return nil, fmt.Errorf("failed to delete cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	return order, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{ID: id}

	var paymentIntentID sql.NullString

	query := `
		SELECT customer_id, status, payment_intent_id, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&order.CustomerID, &order.Status, &paymentIntentID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	order.PaymentIntentID = paymentIntentID.String

	items, err := r.orderItems(dbCtx, id)
	if err != nil {
		return nil, err
	}

	order.Items = items

	return order, nil
}

func (r *orderRepository) orderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	query := `
		SELECT oi.id, oi.product_id, oi.quantity, oi.price, p.title
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`

	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}

	defer rows.Close()

	var items []models.OrderItem

	for rows.Next() {
		item := models.OrderItem{OrderID: orderID}

		err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Price, &item.Product.Title)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		item.Product.ID = item.ProductID
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *orderRepository) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, status *models.OrderStatus, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM orders WHERE customer_id = $1 AND ($2::text IS NULL OR status = $2)`

	var statusArg any
	if status != nil {
		statusArg = string(*status)
	}

	if err := r.DB.QueryRowContext(dbCtx, countQuery, customerID, statusArg).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, status, payment_intent_id, created_at, updated_at
		FROM orders
		WHERE customer_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.DB.QueryContext(dbCtx, query, customerID, statusArg, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		order := models.Order{CustomerID: customerID}

		var paymentIntentID sql.NullString

		err := rows.Scan(&order.ID, &order.Status, &paymentIntentID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		order.PaymentIntentID = paymentIntentID.String
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		items, err := r.orderItems(dbCtx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}

		orders[i].Items = items
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updated == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *orderRepository) SetPaymentIntent(ctx context.Context, id uuid.UUID, paymentIntentID string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE orders SET payment_intent_id = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, paymentIntentID, id)
	if err != nil {
		return fmt.Errorf("failed to set payment intent: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updated == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// MarkPaidByPaymentIntent flips the order the given intent belongs to.
// Returns the order id for logging.
func (r *orderRepository) MarkPaidByPaymentIntent(ctx context.Context, paymentIntentID string) (uuid.UUID, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var id uuid.UUID

	query := `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE payment_intent_id = $2 AND status = $3
		RETURNING id
	`

	err := r.DB.QueryRowContext(dbCtx, query, models.OrderStatusPaid, paymentIntentID, models.OrderStatusUnpaid).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return uuid.Nil, err
		}

		return uuid.Nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	return id, nil
}
