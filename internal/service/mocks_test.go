package service

import (
	"context"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/domain"
	"github.com/jackc/pgx/v5"
)

// MockProductRepository implements repository.ProductRepository for testing.
type MockProductRepository struct {
	Product       *domain.Product
	GetErr        error
	CreatedID     int64
	CreateErr     error
	Products      []domain.Product
	TotalCount    int64
	ListErr       error
	UpdateErr     error
	SetStockErr   error
	DeleteErr     error
	DecreaseErr   error
	Remaining     int64
	DecreasedIDs  []int64
	DecreasedQtys []int64
	AvailName     string
	AvailStock    int64
	AvailErr      error

	// Captures SetStock arguments.
	SetStockID  int64
	SetStockQty int64
}

func (m *MockProductRepository) Create(_ context.Context, _ *domain.Product) (int64, error) {
	return m.CreatedID, m.CreateErr
}

func (m *MockProductRepository) GetByID(_ context.Context, _ int64) (*domain.Product, error) {
	return m.Product, m.GetErr
}

func (m *MockProductRepository) List(_ context.Context, _, _ int64, _ string) ([]domain.Product, int64, error) {
	return m.Products, m.TotalCount, m.ListErr
}

func (m *MockProductRepository) Update(_ context.Context, _ int64, _ *domain.UpdateProductInput) error {
	return m.UpdateErr
}

func (m *MockProductRepository) SetStock(_ context.Context, id, quantity int64) error {
	m.SetStockID = id
	m.SetStockQty = quantity
	return m.SetStockErr
}

func (m *MockProductRepository) DeleteByID(_ context.Context, _ int64) error {
	return m.DeleteErr
}

func (m *MockProductRepository) DecreaseStock(_ context.Context, _ pgx.Tx, id, quantity int64) (int64, error) {
	m.DecreasedIDs = append(m.DecreasedIDs, id)
	m.DecreasedQtys = append(m.DecreasedQtys, quantity)
	return m.Remaining, m.DecreaseErr
}

func (m *MockProductRepository) GetAvailability(_ context.Context, _ int64) (string, int64, error) {
	return m.AvailName, m.AvailStock, m.AvailErr
}

// MockCartRepository implements repository.CartRepository for testing.
type MockCartRepository struct {
	CartID           int64
	CartIDErr        error
	Items            []domain.CartItem
	ItemsErr         error
	Item             *domain.CartItem
	ItemErr          error
	ItemForProduct   *domain.CartItem
	ItemForProductEr error
	UpsertErr        error
	SetQtyErr        error
	DeleteErr        error
	ClearErr         error

	// Captured arguments.
	UpsertedProductID int64
	UpsertedQuantity  int64
	SetQtyItemID      int64
	SetQtyQuantity    int64
	DeletedItemID     int64
	ClearedCartID     int64
}

func (m *MockCartRepository) CreateForUser(_ context.Context, _ pgx.Tx, _ int64) (int64, error) {
	return m.CartID, nil
}

func (m *MockCartRepository) GetCartID(_ context.Context, _ int64) (int64, error) {
	return m.CartID, m.CartIDErr
}

func (m *MockCartRepository) GetItems(_ context.Context, _ int64) ([]domain.CartItem, error) {
	return m.Items, m.ItemsErr
}

func (m *MockCartRepository) GetItemsTx(_ context.Context, _ pgx.Tx, _ int64) ([]domain.CartItem, error) {
	return m.Items, m.ItemsErr
}

func (m *MockCartRepository) GetItem(_ context.Context, _ int64) (*domain.CartItem, error) {
	return m.Item, m.ItemErr
}

func (m *MockCartRepository) GetItemForProduct(_ context.Context, _, _ int64) (*domain.CartItem, error) {
	return m.ItemForProduct, m.ItemForProductEr
}

func (m *MockCartRepository) UpsertItem(_ context.Context, _, productID, quantity int64) error {
	m.UpsertedProductID = productID
	m.UpsertedQuantity = quantity
	return m.UpsertErr
}

func (m *MockCartRepository) SetItemQuantity(_ context.Context, itemID, quantity int64) error {
	m.SetQtyItemID = itemID
	m.SetQtyQuantity = quantity
	return m.SetQtyErr
}

func (m *MockCartRepository) DeleteItem(_ context.Context, itemID int64) error {
	m.DeletedItemID = itemID
	return m.DeleteErr
}

func (m *MockCartRepository) Clear(_ context.Context, cartID int64) error {
	m.ClearedCartID = cartID
	return m.ClearErr
}

func (m *MockCartRepository) ClearTx(_ context.Context, _ pgx.Tx, cartID int64) error {
	m.ClearedCartID = cartID
	return m.ClearErr
}

// MockOrderRepository implements repository.OrderRepository for testing.
type MockOrderRepository struct {
	Order        *domain.Order
	GetErr       error
	Orders       []domain.Order
	ListErr      error
	CreateErr    error
	StatusErr    error
	ChangedID    int64
	ChangedState domain.OrderStatus
}

func (m *MockOrderRepository) CreateOrder(_ context.Context, _ pgx.Tx, _ *domain.Order) error {
	return m.CreateErr
}

func (m *MockOrderRepository) ChangeOrderStatus(_ context.Context, orderID int64, status domain.OrderStatus) error {
	m.ChangedID = orderID
	m.ChangedState = status
	return m.StatusErr
}

func (m *MockOrderRepository) GetByID(_ context.Context, _ int64) (*domain.Order, error) {
	return m.Order, m.GetErr
}

func (m *MockOrderRepository) ListByUser(_ context.Context, _ int64) ([]domain.Order, error) {
	return m.Orders, m.ListErr
}

func (m *MockOrderRepository) ListAll(_ context.Context) ([]domain.Order, error) {
	return m.Orders, m.ListErr
}
