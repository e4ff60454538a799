package service

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/ecommkit/storefront/internal/errors"
	"github.com/ecommkit/storefront/internal/metrics"
	"github.com/ecommkit/storefront/internal/models"
	repository "github.com/ecommkit/storefront/internal/repositories"
	"github.com/google/uuid"
)

type OrderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	notifier  OrderNotifier
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, notifier OrderNotifier) *OrderService {
	return &OrderService{orderRepo: orderRepo, cartRepo: cartRepo, notifier: notifier}
}

// Checkout converts the cart into an immutable order. Item prices are
// snapshotted from the catalog at this moment; the cart is deleted in the
// same transaction. The order-created notification fires only after the
// transaction commits, at most once, and its outcome never affects the
// checkout result.
func (s *OrderService) Checkout(ctx context.Context, cartID, customerID uuid.UUID) (*models.Order, error) {
	cart, err := s.cartRepo.GetCart(ctx, cartID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if len(cart.Items) == 0 {
		return nil, errors.ValidationError("Cart is empty")
	}

	order, err := s.orderRepo.CreateFromCart(ctx, cartID, customerID)
	if err != nil {
		metrics.ObserveCheckout("failure")

		// A concurrent checkout may have won the race and deleted the cart
		// between our read and the transaction's lock.
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Cart not found").WithError(err)
		}

		if stderrors.Is(err, repository.ErrEmptyCart) {
			return nil, errors.ValidationError("Cart is empty").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to create order").WithError(err)
	}

	metrics.ObserveCheckout("success")

	if s.notifier != nil {
		go s.notifier.NotifyOrderCreated(context.WithoutCancel(ctx), order)
	}

	return order, nil
}

// GetOrder returns the order only to its owner; anyone else sees a 404.
func (s *OrderService) GetOrder(ctx context.Context, id, customerID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.CustomerID != customerID {
		return nil, errors.NotFoundError("Order not found")
	}

	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, customerID uuid.UUID, status *models.OrderStatus, page, size int) ([]models.Order, int, error) {
	orders, total, err := s.orderRepo.ListOrdersByCustomer(ctx, customerID, status, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

// UpdateOrderStatus is the administrative enum flip; it carries no invariant
// beyond writing the new value.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if err := s.orderRepo.UpdateOrderStatus(ctx, id, status); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update order status").WithError(err)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}
