package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Customer is the storefront profile, 1:1 with a user identity. A row is
// provisioned at registration, so every authenticated identity resolves to
// exactly one customer.
type Customer struct {
	UserID      uuid.UUID  `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Address     *Address   `json:"address,omitempty"`
}

type Address struct {
	Province string `json:"province" validate:"required,max=50"`
	City     string `json:"city" validate:"required,max=50"`
	Address  string `json:"address" validate:"required,max=500"`
}

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type UpdateCustomerRequest struct {
	PhoneNumber *string    `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Address     *Address   `json:"address,omitempty"`
}
