package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/ecommkit/storefront/internal/config"
	"github.com/ecommkit/storefront/internal/errors"
	"github.com/ecommkit/storefront/internal/models"
	repository "github.com/ecommkit/storefront/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo      repository.UserRepository
	redisRepo *repository.RedisRepo
	jwtKey    []byte
	tokenTTL  time.Duration
}

func NewUserService(repo repository.UserRepository, redisRepo *repository.RedisRepo, cfg *config.Security) *UserService {
	return &UserService{
		repo:      repo,
		redisRepo: redisRepo,
		jwtKey:    []byte(cfg.JWTKey),
		tokenTTL:  cfg.TokenTTL,
	}
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.InternalError("Failed to hash password").WithError(err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, errors.DuplicateEntryError("An account with this email already exists").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to create user").WithError(err)
	}

	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if s.redisRepo != nil {
		allowed, _, retryAfter, err := s.redisRepo.CheckLoginRateLimit(ctx, req.Email)
		if err != nil {
			return nil, errors.InternalError("Failed to check rate limit").WithError(err)
		}

		if !allowed {
			return nil, errors.TooManyRequestsError(
				fmt.Sprintf("Too many login attempts, retry after %d seconds", retryAfter))
		}
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.UnauthorizedError("Invalid email or password").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch user").WithError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.UnauthorizedError("Invalid email or password").WithError(err)
	}

	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, errors.InternalError("Failed to sign token").WithError(err)
	}

	return &models.LoginResponse{Token: signed}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.GetCustomerByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Customer not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch customer").WithError(err)
	}

	return customer, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	if err := s.repo.UpdateCustomer(ctx, userID, req); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Customer not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update customer").WithError(err)
	}

	return s.GetProfile(ctx, userID)
}
