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

func TestAddItem_InvalidQuantity(t *testing.T) {
	svc := NewCartService(&MockCartRepository{}, &MockProductRepository{}, zap.NewNop())

	_, err := svc.AddItem(context.Background(), 1, 5, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(context.Background(), 1, 5, -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAddItem_ProductNotFound(t *testing.T) {
	productRepo := &MockProductRepository{GetErr: repository.ErrProductNotFound}
	svc := NewCartService(&MockCartRepository{}, productRepo, zap.NewNop())

	_, err := svc.AddItem(context.Background(), 1, 5, 1)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestAddItem_NewLine(t *testing.T) {
	cartRepo := &MockCartRepository{
		CartID:           7,
		ItemForProductEr: repository.ErrCartItemNotFound,
	}
	productRepo := &MockProductRepository{
		Product: &domain.Product{ID: 5, Name: "mug", Price: 500, StockQuantity: 10},
	}
	svc := NewCartService(cartRepo, productRepo, zap.NewNop())

	_, err := svc.AddItem(context.Background(), 1, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cartRepo.UpsertedProductID)
	assert.Equal(t, int64(2), cartRepo.UpsertedQuantity)
}

func TestAddItem_ChecksMergedQuantityAgainstStock(t *testing.T) {
	cartRepo := &MockCartRepository{
		CartID: 7,
		ItemForProduct: &domain.CartItem{
			ID: 1, CartID: 7, ProductID: 5, Quantity: 8,
		},
	}
	productRepo := &MockProductRepository{
		Product: &domain.Product{ID: 5, Name: "mug", Price: 500, StockQuantity: 10},
	}
	svc := NewCartService(cartRepo, productRepo, zap.NewNop())

	// 8 already in cart + 3 requested > 10 available.
	_, err := svc.AddItem(context.Background(), 1, 5, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "mug", stockErr.Product)
	assert.Equal(t, int64(10), stockErr.Available)

	// Nothing was written.
	assert.Zero(t, cartRepo.UpsertedProductID)
}

func TestUpdateItemQuantity_Forbidden(t *testing.T) {
	cartRepo := &MockCartRepository{
		CartID: 7,
		Item:   &domain.CartItem{ID: 1, CartID: 99, ProductID: 5, Quantity: 1},
	}
	productRepo := &MockProductRepository{
		Product: &domain.Product{ID: 5, StockQuantity: 10},
	}
	svc := NewCartService(cartRepo, productRepo, zap.NewNop())

	_, err := svc.UpdateItemQuantity(context.Background(), 1, 1, 2)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateItemQuantity_InsufficientStock(t *testing.T) {
	cartRepo := &MockCartRepository{
		CartID: 7,
		Item:   &domain.CartItem{ID: 1, CartID: 7, ProductID: 5, Quantity: 1},
	}
	productRepo := &MockProductRepository{
		Product: &domain.Product{ID: 5, Name: "mug", StockQuantity: 4},
	}
	svc := NewCartService(cartRepo, productRepo, zap.NewNop())

	_, err := svc.UpdateItemQuantity(context.Background(), 1, 1, 5)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
}

func TestUpdateItemQuantity_Success(t *testing.T) {
	cartRepo := &MockCartRepository{
		CartID: 7,
		Item:   &domain.CartItem{ID: 1, CartID: 7, ProductID: 5, Quantity: 1},
	}
	productRepo := &MockProductRepository{
		Product: &domain.Product{ID: 5, StockQuantity: 10},
	}
	svc := NewCartService(cartRepo, productRepo, zap.NewNop())

	_, err := svc.UpdateItemQuantity(context.Background(), 1, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cartRepo.SetQtyItemID)
	assert.Equal(t, int64(4), cartRepo.SetQtyQuantity)
}

func TestRemoveItem_Forbidden(t *testing.T) {
	cartRepo := &MockCartRepository{
		CartID: 7,
		Item:   &domain.CartItem{ID: 1, CartID: 99},
	}
	svc := NewCartService(cartRepo, &MockProductRepository{}, zap.NewNop())

	_, err := svc.RemoveItem(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, cartRepo.DeletedItemID)
}

func TestRemoveItem_NotFound(t *testing.T) {
	cartRepo := &MockCartRepository{ItemErr: repository.ErrCartItemNotFound}
	svc := NewCartService(cartRepo, &MockProductRepository{}, zap.NewNop())

	_, err := svc.RemoveItem(context.Background(), 1, 42)
	assert.ErrorIs(t, err, repository.ErrCartItemNotFound)
}

func TestClear(t *testing.T) {
	cartRepo := &MockCartRepository{CartID: 7}
	svc := NewCartService(cartRepo, &MockProductRepository{}, zap.NewNop())

	require.NoError(t, svc.Clear(context.Background(), 1))
	assert.Equal(t, int64(7), cartRepo.ClearedCartID)
}
