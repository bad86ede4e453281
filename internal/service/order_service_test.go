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

func newOrderServiceForTest(orderRepo *MockOrderRepository, cartRepo *MockCartRepository, productRepo *MockProductRepository) OrderService {
	return NewOrderService(orderRepo, cartRepo, productRepo, nil, nil, "order_events", zap.NewNop())
}

func TestGetOrderByID_Owner(t *testing.T) {
	orderRepo := &MockOrderRepository{
		Order: &domain.Order{ID: 10, UserID: 1, Status: domain.OrderStatusPending},
	}
	svc := newOrderServiceForTest(orderRepo, &MockCartRepository{}, &MockProductRepository{})

	order, err := svc.GetOrderByID(context.Background(), 1, 10, false)
	require.NoError(t, err)
	assert.Equal(t, int64(10), order.ID)
}

func TestGetOrderByID_NotOwner(t *testing.T) {
	orderRepo := &MockOrderRepository{
		Order: &domain.Order{ID: 10, UserID: 1},
	}
	svc := newOrderServiceForTest(orderRepo, &MockCartRepository{}, &MockProductRepository{})

	_, err := svc.GetOrderByID(context.Background(), 2, 10, false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetOrderByID_AdminBypassesOwnership(t *testing.T) {
	orderRepo := &MockOrderRepository{
		Order: &domain.Order{ID: 10, UserID: 1},
	}
	svc := newOrderServiceForTest(orderRepo, &MockCartRepository{}, &MockProductRepository{})

	order, err := svc.GetOrderByID(context.Background(), 2, 10, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.UserID)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	orderRepo := &MockOrderRepository{GetErr: repository.ErrOrderNotFound}
	svc := newOrderServiceForTest(orderRepo, &MockCartRepository{}, &MockProductRepository{})

	_, err := svc.GetOrderByID(context.Background(), 1, 99, false)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	orderRepo := &MockOrderRepository{}
	svc := newOrderServiceForTest(orderRepo, &MockCartRepository{}, &MockProductRepository{})

	order, err := svc.UpdateOrderStatus(context.Background(), 10, "teleported")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Nil(t, order)
	assert.Zero(t, orderRepo.ChangedID)
}

func TestUpdateOrderStatus_Valid(t *testing.T) {
	orderRepo := &MockOrderRepository{
		Order: &domain.Order{ID: 10, UserID: 3, Status: domain.OrderStatusShipped},
	}
	svc := newOrderServiceForTest(orderRepo, &MockCartRepository{}, &MockProductRepository{})

	order, err := svc.UpdateOrderStatus(context.Background(), 10, "shipped")
	require.NoError(t, err)
	assert.Equal(t, int64(10), orderRepo.ChangedID)
	assert.Equal(t, domain.OrderStatusShipped, orderRepo.ChangedState)

	require.NotNil(t, order)
	assert.Equal(t, int64(10), order.ID)
	assert.Equal(t, domain.OrderStatusShipped, order.Status)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	orderRepo := &MockOrderRepository{StatusErr: repository.ErrOrderNotFound}
	svc := newOrderServiceForTest(orderRepo, &MockCartRepository{}, &MockProductRepository{})

	order, err := svc.UpdateOrderStatus(context.Background(), 99, "paid")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
	assert.Nil(t, order)
}
