package service

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/ecommkit/storefront/internal/errors"
	"github.com/ecommkit/storefront/internal/models"
	repository "github.com/ecommkit/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *CartService) CreateCart(ctx context.Context) (*models.Cart, error) {
	cart, err := s.cartRepo.CreateCart(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to create cart").WithError(err)
	}

	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.cartRepo.GetCart(ctx, cartID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return cart, nil
}

// AddItem merges the quantity into an existing line for the same product, or
// inserts a new one. The merge is a single atomic upsert in the store.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, req *models.AddCartItemRequest) (*models.CartItem, error) {
	if req.Quantity < 1 {
		return nil, errors.AddValidationError("quantity", "must be a positive integer")
	}

	if _, err := s.cartRepo.GetCart(ctx, cartID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	item, err := s.cartRepo.UpsertItem(ctx, cartID, req.ProductID, req.Quantity)
	if err != nil {
		// The cart can disappear between the existence check and the upsert
		// (a concurrent checkout deletes it); the FK violation means the
		// cart is gone, not that the store failed.
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return nil, errors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to add cart item").WithError(err)
	}

	item.Product = models.CartProduct{ID: product.ID, Title: product.Title, Price: product.Price}

	return item, nil
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemID int64, req *models.UpdateCartItemRequest) (*models.CartItem, error) {
	if req.Quantity < 1 {
		return nil, errors.AddValidationError("quantity", "must be a positive integer")
	}

	item, err := s.cartRepo.UpdateItemQuantity(ctx, cartID, itemID, req.Quantity)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Cart item not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update cart item").WithError(err)
	}

	return item, nil
}

// RemoveItem is strict: deleting a line that is already gone is a 404, not a
// silent success.
func (s *CartService) RemoveItem(ctx context.Context, cartID uuid.UUID, itemID int64) error {
	err := s.cartRepo.DeleteItem(ctx, cartID, itemID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Cart item not found").WithError(err)
		}

		return errors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return nil
}

func (s *CartService) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	err := s.cartRepo.DeleteCart(ctx, cartID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Cart not found").WithError(err)
		}

		return errors.DatabaseError("Failed to delete cart").WithError(err)
	}

	return nil
}
