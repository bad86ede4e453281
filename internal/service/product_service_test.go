package service

import (
	"context"
	"testing"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/domain"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProductCreate_NegativeStock(t *testing.T) {
	svc := NewProductService(&MockProductRepository{}, zap.NewNop())

	_, err := svc.Create(context.Background(), &domain.Product{
		Name:          "mug",
		Price:         500,
		StockQuantity: -1,
	})
	assert.ErrorIs(t, err, ErrNegativeStock)
}

func TestSetStock_Negative(t *testing.T) {
	productRepo := &MockProductRepository{}
	svc := NewProductService(productRepo, zap.NewNop())

	err := svc.SetStock(context.Background(), 5, -10)
	assert.ErrorIs(t, err, ErrNegativeStock)
	assert.Zero(t, productRepo.SetStockID)
}

func TestSetStock_Zero(t *testing.T) {
	productRepo := &MockProductRepository{}
	svc := NewProductService(productRepo, zap.NewNop())

	// Zero is a valid restock target: sold out.
	require.NoError(t, svc.SetStock(context.Background(), 5, 0))
	assert.Equal(t, int64(5), productRepo.SetStockID)
	assert.Zero(t, productRepo.SetStockQty)
}

func TestSetStock_NotFound(t *testing.T) {
	productRepo := &MockProductRepository{SetStockErr: repository.ErrProductNotFound}
	svc := NewProductService(productRepo, zap.NewNop())

	err := svc.SetStock(context.Background(), 99, 5)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestList_ClampsPagination(t *testing.T) {
	productRepo := &MockProductRepository{}
	svc := NewProductService(productRepo, zap.NewNop())

	_, _, err := svc.List(context.Background(), -5, -1, "")
	require.NoError(t, err)

	_, _, err = svc.List(context.Background(), 10_000, 0, "mug")
	require.NoError(t, err)
}
