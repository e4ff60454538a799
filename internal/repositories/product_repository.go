package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ecommkit/storefront/internal/models"
	"github.com/ecommkit/storefront/internal/utils"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context, filter models.ProductFilter, page, size int) ([]*models.Product, int, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (category_id, title, slug, description, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, product.CategoryID, product.Title, product.Slug,
		product.Description, product.Price, product.Stock).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT p.id, p.category_id, p.title, p.slug, p.description, p.price,
		       p.stock, p.created_at, p.updated_at,
		       c.id, c.title, c.description
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1
	`

	return r.scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
}

func (r *productRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT p.id, p.category_id, p.title, p.slug, p.description, p.price,
		       p.stock, p.created_at, p.updated_at,
		       c.id, c.title, c.description
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE p.slug = $1
	`

	return r.scanProduct(r.DB.QueryRowContext(dbCtx, query, slug))
}

func (r *productRepository) scanProduct(row *sql.Row) (*models.Product, error) {
	product := &models.Product{}
	category := models.Category{}

	err := row.Scan(&product.ID, &product.CategoryID, &product.Title, &product.Slug,
		&product.Description, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt,
		&category.ID, &category.Title, &category.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying product: %w", err)
	}

	product.Category = &category

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET category_id = $1, title = $2, description = $3, price = $4, stock = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, product.CategoryID, product.Title, product.Description,
		product.Price, product.Stock, product.ID).Scan(&product.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}

		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

func (r *productRepository) ListProducts(ctx context.Context, filter models.ProductFilter, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where := `WHERE ($1::bigint IS NULL OR p.category_id = $1)
		AND ($2::numeric IS NULL OR p.price > $2)
		AND ($3::numeric IS NULL OR p.price < $3)`

	var categoryArg, priceGTArg, priceLTArg any

	if filter.CategoryID != 0 {
		categoryArg = filter.CategoryID
	}

	if filter.PriceGT != nil {
		priceGTArg = *filter.PriceGT
	}

	if filter.PriceLT != nil {
		priceLTArg = *filter.PriceLT
	}

	var total int

	countQuery := `SELECT COUNT(*) FROM products p ` + where

	if err := r.DB.QueryRowContext(dbCtx, countQuery, categoryArg, priceGTArg, priceLTArg).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT p.id, p.category_id, p.title, p.slug, p.description, p.price,
		       p.stock, p.created_at, p.updated_at,
		       c.id, c.title, c.description
		FROM products p
		JOIN categories c ON p.category_id = c.id ` + where + `
		ORDER BY p.created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.DB.QueryContext(dbCtx, query, categoryArg, priceGTArg, priceLTArg, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product := &models.Product{}
		category := models.Category{}

		err := rows.Scan(&product.ID, &product.CategoryID, &product.Title, &product.Slug,
			&product.Description, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt,
			&category.ID, &category.Title, &category.Description)
		if err != nil {
			return nil, 0, err
		}

		product.Category = &category
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT id, title, description FROM categories ORDER BY title`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var categories []models.Category

	for rows.Next() {
		var category models.Category

		if err := rows.Scan(&category.ID, &category.Title, &category.Description); err != nil {
			return nil, err
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}
