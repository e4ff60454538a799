package service

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/ecommkit/storefront/internal/errors"
	"github.com/ecommkit/storefront/internal/models"
	repository "github.com/ecommkit/storefront/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
)

type CommentService struct {
	repo        repository.CommentRepository
	productRepo repository.ProductRepository
	sanitizer   *bluemonday.Policy
}

func NewCommentService(repo repository.CommentRepository, productRepo repository.ProductRepository) *CommentService {
	return &CommentService{repo: repo, productRepo: productRepo, sanitizer: bluemonday.StrictPolicy()}
}

// CreateComment stores the comment as pending; only moderated comments show
// up in listings.
func (s *CommentService) CreateComment(ctx context.Context, productID int64, req *models.CreateCommentRequest) (*models.Comment, error) {
	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	comment := &models.Comment{
		ProductID: productID,
		Name:      s.sanitizer.Sanitize(req.Name),
		Body:      s.sanitizer.Sanitize(req.Body),
		Status:    models.CommentStatusPending,
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, errors.DatabaseError("Failed to create comment").WithError(err)
	}

	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, productID int64) ([]models.Comment, error) {
	comments, err := s.repo.ListApprovedByProduct(ctx, productID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch comments").WithError(err)
	}

	return comments, nil
}
