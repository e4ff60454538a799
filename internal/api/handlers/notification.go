package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ecommkit/storefront/internal/api/middleware"
	"github.com/ecommkit/storefront/internal/config"
	"github.com/ecommkit/storefront/internal/errors"
	"github.com/ecommkit/storefront/internal/models"
	service "github.com/ecommkit/storefront/internal/services"
	"github.com/ecommkit/storefront/internal/utils"
	"github.com/ecommkit/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	validator           *validator.Validate
	cfg                 *config.Store
}

func NewNotificationHandler(notificationService *service.NotificationService, cfg *config.Store) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, validator: validator.New(), cfg: cfg}
}

// SendEmail godoc
//	@Summary		Send an email notification
//	@Description	Sends an email through the configured provider and records the delivery attempt.
//	@Tags			Notifications
//	@Accept			json
//	@Produce		json
//	@Param			notification	body		models.EmailNotificationRequest	true	"Email details"
//	@Success		200				{object}	models.Notification				"Notification sent"
//	@Failure		400				{object}	response.ErrorResponse			"Validation error"
//	@Failure		401				{object}	response.ErrorResponse			"Authentication required"
//	@Failure		500				{object}	response.ErrorResponse			"Send failed"
//	@Security		BearerAuth
//	@Router			/notifications/email [post]
func (h *NotificationHandler) SendEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		if _, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims); !ok {
			logger.Warn("Unauthorized notification attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.EmailNotificationRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid notification input")

			return
		}

		notification, err := h.notificationService.SendEmail(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to send notification", slog.Any("error", err))
			response.Error(w, errors.InternalError("Failed to send notification").WithError(err))

			return
		}

		logger.Info("Notification sent", slog.String("notificationId", notification.ID.String()))
		response.Success(w, http.StatusOK, notification)
	}
}

// ListNotifications godoc
//	@Summary		List notifications
//	@Tags			Notifications
//	@Produce		json
//	@Param			page	query		int						false	"Page number (default: 1)"	minimum(1)
//	@Param			size	query		int						false	"Items per page"			minimum(1)
//	@Success		200		{array}		models.Notification		"Notifications"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/notifications [get]
func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		if _, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims); !ok {
			logger.Warn("Unauthorized notification list attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		page, size := utils.ParsePagination(r, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)

		notifications, err := h.notificationService.ListNotifications(r.Context(), page, size)
		if err != nil {
			logger.Error("Failed to list notifications", slog.Any("error", err))
			response.Error(w, errors.DatabaseError("Failed to list notifications").WithError(err))

			return
		}

		response.Success(w, http.StatusOK, notifications)
	}
}
