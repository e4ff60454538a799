package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ecommkit/storefront/internal/models"
	"github.com/ecommkit/storefront/internal/utils"
	"github.com/google/uuid"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetCustomerByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, userID uuid.UUID, req *models.UpdateCustomerRequest) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

// CreateUser provisions the customer profile row in the same transaction, so
// an authenticated identity always maps to exactly one customer.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`

	err = tx.QueryRowContext(dbCtx, query, user.ID, user.Email, user.PasswordHash,
		user.FirstName, user.LastName).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if _, err := tx.ExecContext(dbCtx, `INSERT INTO customers (user_id) VALUES ($1)`, user.ID); err != nil {
		return fmt.Errorf("failed to provision customer: %w", err)
	}

	return tx.Commit()
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user := &models.User{}

	query := `
		SELECT id, email, password_hash, first_name, last_name, created_at
		FROM users
		WHERE email = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, email).Scan(&user.ID, &user.Email,
		&user.PasswordHash, &user.FirstName, &user.LastName, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying user: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetCustomerByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	customer := &models.Customer{UserID: userID}

	var (
		phone    sql.NullString
		birth    sql.NullTime
		province sql.NullString
		city     sql.NullString
		address  sql.NullString
	)

	query := `
		SELECT u.first_name, u.last_name, u.email, c.phone_number, c.birth_date,
		       a.province, a.city, a.address
		FROM customers c
		JOIN users u ON u.id = c.user_id
		LEFT JOIN addresses a ON a.customer_id = c.user_id
		WHERE c.user_id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&customer.FirstName, &customer.LastName,
		&customer.Email, &phone, &birth, &province, &city, &address)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying customer: %w", err)
	}

	customer.PhoneNumber = phone.String

	if birth.Valid {
		customer.BirthDate = &birth.Time
	}

	if province.Valid {
		customer.Address = &models.Address{
			Province: province.String,
			City:     city.String,
			Address:  address.String,
		}
	}

	return customer, nil
}

func (r *userRepository) UpdateCustomer(ctx context.Context, userID uuid.UUID, req *models.UpdateCustomerRequest) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	query := `
		UPDATE customers
		SET phone_number = COALESCE($1, phone_number),
		    birth_date = COALESCE($2, birth_date)
		WHERE user_id = $3
	`

	result, err := tx.ExecContext(dbCtx, query, req.PhoneNumber, req.BirthDate, userID)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updated == 0 {
		return sql.ErrNoRows
	}

	if req.Address != nil {
		query = `
			INSERT INTO addresses (customer_id, province, city, address)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (customer_id)
			DO UPDATE SET province = EXCLUDED.province, city = EXCLUDED.city, address = EXCLUDED.address
		`

		if _, err := tx.ExecContext(dbCtx, query, userID, req.Address.Province, req.Address.City, req.Address.Address); err != nil {
			return fmt.Errorf("failed to upsert address: %w", err)
		}
	}

	return tx.Commit()
}
