package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ecommkit/storefront/internal/models"
	"github.com/ecommkit/storefront/internal/utils"
	"github.com/google/uuid"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMessage string) error
	GetNotificationByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListNotifications(ctx context.Context, page, size int) ([]*models.Notification, error)
}

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepo(db *sql.DB) NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO notifications (id, type, recipient, subject, content, status, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, notification.ID, notification.Type, notification.Recipient,
		notification.Subject, notification.Content, notification.Status,
		notification.Metadata).Scan(&notification.CreatedAt, &notification.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMessage string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE notifications
		SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update notification status: %w", err)
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

func (r *notificationRepository) GetNotificationByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	notification := &models.Notification{}

	var errorMessage sql.NullString

	query := `
		SELECT id, type, recipient, subject, content, status, error_message, metadata, created_at, updated_at
		FROM notifications
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&notification.ID, &notification.Type,
		&notification.Recipient, &notification.Subject, &notification.Content, &notification.Status,
		&errorMessage, &notification.Metadata, &notification.CreatedAt, &notification.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying notification: %w", err)
	}

	notification.ErrorMessage = errorMessage.String

	return notification, nil
}

func (r *notificationRepository) ListNotifications(ctx context.Context, page, size int) ([]*models.Notification, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	offset := (page - 1) * size

	query := `
		SELECT id, type, recipient, subject, content, status, error_message, metadata, created_at, updated_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	defer rows.Close()

	var notifications []*models.Notification

	for rows.Next() {
		notification := &models.Notification{}

		var errorMessage sql.NullString

		err := rows.Scan(&notification.ID, &notification.Type, &notification.Recipient,
			&notification.Subject, &notification.Content, &notification.Status,
			&errorMessage, &notification.Metadata, &notification.CreatedAt, &notification.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		notification.ErrorMessage = errorMessage.String
		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}
