package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ecommkit/storefront/internal/models"
	"github.com/ecommkit/storefront/internal/utils"
)

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListApprovedByProduct(ctx context.Context, productID int64) ([]models.Comment, error)
}

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepo(db *sql.DB) CommentRepository {
	return &commentRepository{DB: db}
}

func (r *commentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO comments (product_id, name, body, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, comment.ProductID, comment.Name,
		comment.Body, comment.Status).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	return nil
}

func (r *commentRepository) ListApprovedByProduct(ctx context.Context, productID int64) ([]models.Comment, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, product_id, name, body, status, created_at
		FROM comments
		WHERE product_id = $1 AND status = $2
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, productID, models.CommentStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	defer rows.Close()

	var comments []models.Comment

	for rows.Next() {
		var comment models.Comment

		err := rows.Scan(&comment.ID, &comment.ProductID, &comment.Name, &comment.Body,
			&comment.Status, &comment.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}

		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
