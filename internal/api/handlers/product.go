package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ecommkit/storefront/internal/api/middleware"
	"github.com/ecommkit/storefront/internal/config"
	"github.com/ecommkit/storefront/internal/errors"
	"github.com/ecommkit/storefront/internal/models"
	service "github.com/ecommkit/storefront/internal/services"
	"github.com/ecommkit/storefront/internal/utils"
	"github.com/ecommkit/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	productService *service.ProductService
	validator      *validator.Validate
	cfg            *config.Store
}

func NewProductHandler(productService *service.ProductService, cfg *config.Store) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New(), cfg: cfg}
}

// CreateProduct godoc
//	@Summary		Create a new product
//	@Description	Creates a product in the catalog. Title and description are sanitized; the slug must be unique.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product details"
//	@Success		201		{object}	models.ProductResponse		"Successfully created product"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		409		{object}	response.ErrorResponse		"Slug already in use"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")

			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create product", slog.String("slug", req.Slug), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Product created successfully",
			slog.Int64("productId", product.ID),
			slog.String("slug", product.Slug))
		response.Success(w, http.StatusCreated, product)
	}
}

// GetProduct godoc
//	@Summary		Get a product by ID
//	@Description	Retrieves a product with its display price after tax.
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		int						true	"Product ID"
//	@Success		200	{object}	models.ProductResponse	"Successfully retrieved product"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseInt64(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		product, err := h.productService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get product", slog.Int64("productId", id), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// GetProductBySlug godoc
//	@Summary		Get a product by slug
//	@Description	Retrieves a product by its URL slug.
//	@Tags			Products
//	@Produce		json
//	@Param			slug	path		string					true	"Product slug"
//	@Success		200		{object}	models.ProductResponse	"Successfully retrieved product"
//	@Failure		404		{object}	response.ErrorResponse	"Product not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/slug/{slug} [get]
func (h *ProductHandler) GetProductBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		slug := r.PathValue("slug")
		if slug == "" {
			response.Error(w, errors.AddValidationError("slug", "is required"))

			return
		}

		product, err := h.productService.GetProductBySlug(r.Context(), slug)
		if err != nil {
			logger.Error("Failed to get product", slog.String("slug", slug), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// UpdateProduct godoc
//	@Summary		Update a product
//	@Description	Patches product fields. The cached copy is invalidated on success.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Product ID"
//	@Param			product	body		models.UpdateProductRequest	true	"Fields to update"
//	@Success		200		{object}	models.ProductResponse		"Successfully updated product"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/products/{id} [patch]
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseInt64(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update product input")

			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update product", slog.Int64("productId", id), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Product updated successfully", slog.Int64("productId", id))
		response.Success(w, http.StatusOK, product)
	}
}

// ListProducts godoc
//	@Summary		List products
//	@Description	Retrieves a paginated product listing with optional category and price range filters.
//	@Tags			Products
//	@Produce		json
//	@Param			page		query		int														false	"Page number (default: 1)"	minimum(1)
//	@Param			size		query		int														false	"Items per page"			minimum(1)
//	@Param			category	query		int														false	"Filter by category id"
//	@Param			price_gt	query		number													false	"Only products priced above"
//	@Param			price_lt	query		number													false	"Only products priced below"
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.ProductResponse}	"Successfully retrieved products"
//	@Failure		400			{object}	response.ErrorResponse									"Invalid filter value"
//	@Failure		500			{object}	response.ErrorResponse									"Internal server error"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		page, size := utils.ParsePagination(r, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)

		var filter models.ProductFilter

		if raw := r.URL.Query().Get("category"); raw != "" {
			categoryID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				response.Error(w, errors.AddValidationError("category", "must be an integer"))

				return
			}

			filter.CategoryID = categoryID
		}

		if raw := r.URL.Query().Get("price_gt"); raw != "" {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				response.Error(w, errors.AddValidationError("price_gt", "must be a decimal number"))

				return
			}

			filter.PriceGT = &price
		}

		if raw := r.URL.Query().Get("price_lt"); raw != "" {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				response.Error(w, errors.AddValidationError("price_lt", "must be a decimal number"))

				return
			}

			filter.PriceLT = &price
		}

		products, total, err := h.productService.ListProducts(r.Context(), filter, page, size)
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     products,
			Total:    total,
			Page:     page,
			PageSize: size,
		})
	}
}

// ListCategories godoc
//	@Summary		List categories
//	@Tags			Products
//	@Produce		json
//	@Success		200	{array}		models.Category			"Successfully retrieved categories"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/categories [get]
func (h *ProductHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		categories, err := h.productService.ListCategories(r.Context())
		if err != nil {
			logger.Error("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}
