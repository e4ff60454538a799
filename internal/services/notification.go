package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ecommkit/storefront/internal/models"
	repository "github.com/ecommkit/storefront/internal/repositories"
	"github.com/ecommkit/storefront/pkg/sendgrid"
	"github.com/google/uuid"
)

type NotificationService struct {
	repo         repository.NotificationRepository
	userRepo     repository.UserRepository
	emailService sendgrid.EmailService
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, emailService sendgrid.EmailService) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, emailService: emailService}
}

// SendEmail records the attempt, sends through SendGrid and updates the
// record with the outcome.
func (n *NotificationService) SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.Notification, error) {
	var metadataJSON json.RawMessage

	if req.Metadata != nil {
		metadataBytes, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}

		metadataJSON = metadataBytes
	}

	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      models.NotificationTypeEmail,
		Recipient: req.To,
		Subject:   req.Subject,
		Content:   req.Content,
		Status:    models.NotificationStatusPending,
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification record: %w", err)
	}

	if err := n.emailService.Send(ctx, req); err != nil {
		notification.Status = models.NotificationStatusFailed
		notification.ErrorMessage = err.Error()

		_ = n.repo.UpdateNotificationStatus(ctx, notification.ID, models.NotificationStatusFailed, notification.ErrorMessage)

		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	notification.Status = models.NotificationStatusSent

	if err := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.NotificationStatusSent, ""); err != nil {
		return nil, fmt.Errorf("email sent but failed to update notification status: %w", err)
	}

	return notification, nil
}

// NotifyOrderCreated implements OrderNotifier. Delivery is best effort:
// every failure is logged and swallowed.
func (n *NotificationService) NotifyOrderCreated(ctx context.Context, order *models.Order) {
	customer, err := n.userRepo.GetCustomerByUserID(ctx, order.CustomerID)
	if err != nil {
		slog.Error("Order notification skipped, customer lookup failed",
			slog.String("orderId", order.ID.String()),
			slog.String("error", err.Error()))

		return
	}

	content := fmt.Sprintf("Hi %s,\n\nwe received your order %s for a total of %s. We will let you know once it ships.",
		customer.FirstName, order.ID, order.Total().StringFixed(2))

	req := &models.EmailNotificationRequest{
		To:      customer.Email,
		Subject: fmt.Sprintf("Order confirmation %s", order.ID),
		Content: content,
		Metadata: map[string]any{
			"order_id": order.ID.String(),
			"total":    order.Total().StringFixed(2),
		},
	}

	if _, err := n.SendEmail(ctx, req); err != nil {
		slog.Error("Order notification failed",
			slog.String("orderId", order.ID.String()),
			slog.String("error", err.Error()))

		return
	}

	slog.Info("Order notification sent",
		slog.String("orderId", order.ID.String()),
		slog.String("recipient", customer.Email))
}

func (n *NotificationService) ListNotifications(ctx context.Context, page, size int) ([]*models.Notification, error) {
	notifications, err := n.repo.ListNotifications(ctx, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}
