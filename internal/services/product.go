package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/ecommkit/storefront/internal/cache"
	"github.com/ecommkit/storefront/internal/config"
	"github.com/ecommkit/storefront/internal/errors"
	"github.com/ecommkit/storefront/internal/models"
	repository "github.com/ecommkit/storefront/internal/repositories"
	"github.com/lib/pq"
	"github.com/microcosm-cc/bluemonday"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type ProductService struct {
	repo      repository.ProductRepository
	cache     cache.Cache
	cacheTTL  time.Duration
	sanitizer *bluemonday.Policy
	cfg       *config.Store
}

func NewProductService(repo repository.ProductRepository, productCache cache.Cache, cacheTTL time.Duration, cfg *config.Store) *ProductService {
	return &ProductService{
		repo:      repo,
		cache:     productCache,
		cacheTTL:  cacheTTL,
		sanitizer: bluemonday.StrictPolicy(),
		cfg:       cfg,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.ProductResponse, error) {
	product := &models.Product{
		CategoryID:  req.CategoryID,
		Title:       s.sanitizer.Sanitize(req.Title),
		Slug:        req.Slug,
		Description: s.sanitizer.Sanitize(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
	}

	if product.Price.IsNegative() {
		return nil, errors.AddValidationError("price", "must not be negative")
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, errors.DuplicateEntryError("A product with this slug already exists").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	response := product.WithTax(s.cfg.TaxRate)

	return &response, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.ProductResponse, error) {
	key := cache.Key(cache.ProductKeyPrefix, strconv.FormatInt(id, 10))

	var cached models.Product

	if s.cache != nil {
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			slog.Warn("Product cache read failed", slog.String("error", err.Error()))
		} else if hit {
			response := cached.WithTax(s.cfg.TaxRate)

			return &response, nil
		}
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, product, s.cacheTTL); err != nil {
			slog.Warn("Product cache write failed", slog.String("error", err.Error()))
		}
	}

	response := product.WithTax(s.cfg.TaxRate)

	return &response, nil
}

// GetProductBySlug skips the cache; slug lookups are rare next to id reads.
func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*models.ProductResponse, error) {
	product, err := s.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	response := product.WithTax(s.cfg.TaxRate)

	return &response, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.ProductResponse, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}

	if req.Title != nil {
		product.Title = s.sanitizer.Sanitize(*req.Title)
	}

	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}

	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, errors.AddValidationError("price", "must not be negative")
		}

		product.Price = *req.Price
	}

	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	if s.cache != nil {
		key := cache.Key(cache.ProductKeyPrefix, strconv.FormatInt(id, 10))
		if err := s.cache.Delete(ctx, key); err != nil {
			slog.Warn("Product cache invalidation failed", slog.String("error", err.Error()))
		}
	}

	response := product.WithTax(s.cfg.TaxRate)

	return &response, nil
}

func (s *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter, page, size int) ([]models.ProductResponse, int, error) {
	products, total, err := s.repo.ListProducts(ctx, filter, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	responses := make([]models.ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, product.WithTax(s.cfg.TaxRate))
	}

	return responses, total, nil
}

func (s *ProductService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	return categories, nil
}
