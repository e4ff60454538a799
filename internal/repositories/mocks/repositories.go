// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/ecommkit/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) CreateCart(ctx context.Context) (*models.Cart, error) {
	args := m.Called(ctx)

	cart, _ := args.Get(0).(*models.Cart)

	return cart, args.Error(1)
}

func (m *CartRepository) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, cartID)

	cart, _ := args.Get(0).(*models.Cart)

	return cart, args.Error(1)
}

func (m *CartRepository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	return m.Called(ctx, cartID).Error(0)
}

func (m *CartRepository) UpsertItem(ctx context.Context, cartID uuid.UUID, productID, quantity int64) (*models.CartItem, error) {
	args := m.Called(ctx, cartID, productID, quantity)

	item, _ := args.Get(0).(*models.CartItem)

	return item, args.Error(1)
}

func (m *CartRepository) UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemID, quantity int64) (*models.CartItem, error) {
	args := m.Called(ctx, cartID, itemID, quantity)

	item, _ := args.Get(0).(*models.CartItem)

	return item, args.Error(1)
}

func (m *CartRepository) DeleteItem(ctx context.Context, cartID uuid.UUID, itemID int64) error {
	return m.Called(ctx, cartID, itemID).Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateFromCart(ctx context.Context, cartID, customerID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, cartID, customerID)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

func (m *OrderRepository) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, status *models.OrderStatus, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, customerID, status, page, size)

	orders, _ := args.Get(0).([]models.Order)

	return orders, args.Int(1), args.Error(2)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *OrderRepository) SetPaymentIntent(ctx context.Context, id uuid.UUID, paymentIntentID string) error {
	return m.Called(ctx, id, paymentIntentID).Error(0)
}

func (m *OrderRepository) MarkPaidByPaymentIntent(ctx context.Context, paymentIntentID string) (uuid.UUID, error) {
	args := m.Called(ctx, paymentIntentID)

	id, _ := args.Get(0).(uuid.UUID)

	return id, args.Error(1)
}

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)

	product, _ := args.Get(0).(*models.Product)

	return product, args.Error(1)
}

func (m *ProductRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)

	product, _ := args.Get(0).(*models.Product)

	return product, args.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) ListProducts(ctx context.Context, filter models.ProductFilter, page, size int) ([]*models.Product, int, error) {
	args := m.Called(ctx, filter, page, size)

	products, _ := args.Get(0).([]*models.Product)

	return products, args.Int(1), args.Error(2)
}

func (m *ProductRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)

	categories, _ := args.Get(0).([]models.Category)

	return categories, args.Error(1)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)

	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *UserRepository) GetCustomerByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, userID)

	customer, _ := args.Get(0).(*models.Customer)

	return customer, args.Error(1)
}

func (m *UserRepository) UpdateCustomer(ctx context.Context, userID uuid.UUID, req *models.UpdateCustomerRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *CommentRepository) ListApprovedByProduct(ctx context.Context, productID int64) ([]models.Comment, error) {
	args := m.Called(ctx, productID)

	comments, _ := args.Get(0).([]models.Comment)

	return comments, args.Error(1)
}

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *NotificationRepository) UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMessage string) error {
	return m.Called(ctx, id, status, errorMessage).Error(0)
}

func (m *NotificationRepository) GetNotificationByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	args := m.Called(ctx, id)

	notification, _ := args.Get(0).(*models.Notification)

	return notification, args.Error(1)
}

func (m *NotificationRepository) ListNotifications(ctx context.Context, page, size int) ([]*models.Notification, error) {
	args := m.Called(ctx, page, size)

	notifications, _ := args.Get(0).([]*models.Notification)

	return notifications, args.Error(1)
}
