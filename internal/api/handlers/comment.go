package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ecommkit/storefront/internal/api/middleware"
	"github.com/ecommkit/storefront/internal/models"
	service "github.com/ecommkit/storefront/internal/services"
	"github.com/ecommkit/storefront/internal/utils"
	"github.com/ecommkit/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CommentHandler struct {
	commentService *service.CommentService
	validator      *validator.Validate
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService, validator: validator.New()}
}

// CreateComment godoc
//	@Summary		Comment on a product
//	@Description	Submits a comment for moderation. It will not be visible until approved.
//	@Tags			Comments
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Product ID"
//	@Param			comment	body		models.CreateCommentRequest	true	"Comment"
//	@Success		201		{object}	models.Comment				"Comment submitted"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Router			/products/{id}/comments [post]
func (h *CommentHandler) CreateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		productID, err := utils.ParseInt64(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		var req models.CreateCommentRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid comment input")

			return
		}

		comment, err := h.commentService.CreateComment(r.Context(), productID, &req)
		if err != nil {
			logger.Error("Failed to create comment", slog.Int64("productId", productID), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Comment submitted", slog.Int64("productId", productID))
		response.Success(w, http.StatusCreated, comment)
	}
}

// ListComments godoc
//	@Summary		List approved comments for a product
//	@Tags			Comments
//	@Produce		json
//	@Param			id	path		int						true	"Product ID"
//	@Success		200	{array}		models.Comment			"Approved comments"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/{id}/comments [get]
func (h *CommentHandler) ListComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		productID, err := utils.ParseInt64(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		comments, err := h.commentService.ListComments(r.Context(), productID)
		if err != nil {
			logger.Error("Failed to list comments", slog.Int64("productId", productID), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, comments)
	}
}
