package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/domain"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/repository"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/applog"
	outboxdomain "github.com/Jerry1921/mini-ecommerce-api-2/pkg/outbox/domain"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/outbox/worker"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, userID int64) (*domain.Order, error)
	GetOrderByID(ctx context.Context, userID, orderID int64, isAdmin bool) (*domain.Order, error)
	GetUserOrders(ctx context.Context, userID int64) ([]domain.Order, error)
	GetAllOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	outboxRepo  worker.OutboxRepository
	pool        *pgxpool.Pool
	topic       string
	logger      *zap.Logger
	tracer      trace.Tracer
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	outboxRepo worker.OutboxRepository,
	pool *pgxpool.Pool,
	topic string,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		pool:        pool,
		topic:       topic,
		logger:      logger,
		tracer:      otel.Tracer("service/order_service"),
	}
}

type orderPlacedEvent struct {
	OrderID     int64                  `json:"order_id"`
	UserID      int64                  `json:"user_id"`
	TotalAmount int64                  `json:"total_amount"`
	Status      string                 `json:"status"`
	Items       []orderPlacedEventItem `json:"items"`
	PlacedAt    time.Time              `json:"placed_at"`
}

type orderPlacedEventItem struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity"`
}

// PlaceOrder converts the user's cart into an order in one transaction:
// snapshot the cart lines, persist the order, decrement stock per line
// conditionally, clear the cart, record the OrderPlaced event. Any failed
// decrement aborts the whole transaction, so stock never goes negative and
// orders are never half-reserved.
func (s *orderService) PlaceOrder(ctx context.Context, userID int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
	)

	cartID, err := s.cartRepo.GetCartID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		applog.Error(ctx, s.logger, "Failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)

		err := tx.Rollback(cleanupCtx)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			applog.Warn(
				cleanupCtx,
				s.logger,
				"Error rolling back transaction",
				zap.Error(err),
			)
		}
	}()

	items, err := s.cartRepo.GetItemsTx(ctx, tx, cartID)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	// Early validation against the stock read inside this transaction. The
	// conditional decrement below remains the authority; this pass only
	// produces a precise client-facing error before any row is written.
	for _, item := range items {
		if item.ProductDeleted {
			applog.Warn(
				ctx,
				s.logger,
				"Order rejected, product no longer sold",
				zap.Int64("user_id", userID),
				zap.Int64("product_id", item.ProductID),
			)

			return nil, fmt.Errorf("product %d is no longer sold: %w",
				item.ProductID, repository.ErrProductNotFound)
		}

		if item.InStock < item.Quantity {
			span.SetAttributes(attribute.Int64("rejected_product_id", item.ProductID))

			applog.Warn(
				ctx,
				s.logger,
				"Order rejected, insufficient stock",
				zap.Int64("user_id", userID),
				zap.Int64("product_id", item.ProductID),
				zap.Int64("requested", item.Quantity),
				zap.Int64("available", item.InStock),
			)

			return nil, &InsufficientStockError{
				Product:   item.ProductName,
				Available: item.InStock,
			}
		}
	}

	order := &domain.Order{
		UserID: userID,
		Status: domain.OrderStatusPending,
		Items:  make([]domain.OrderItem, 0, len(items)),
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	order.CalculateTotal()

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	// Decrement in product ID order so concurrent placements touching the
	// same products take their row locks in a consistent sequence.
	sort.Slice(order.Items, func(i, j int) bool {
		return order.Items[i].ProductID < order.Items[j].ProductID
	})

	for _, item := range order.Items {
		if _, err := s.productRepo.DecreaseStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				// A concurrent transaction took the stock between our read
				// and the decrement. Report the committed availability.
				name, available, availErr := s.productRepo.GetAvailability(ctx, item.ProductID)
				if availErr != nil {
					name = item.ProductName
					available = 0
				}

				applog.Warn(
					ctx,
					s.logger,
					"Order rejected, stock taken concurrently",
					zap.Int64("user_id", userID),
					zap.Int64("product_id", item.ProductID),
					zap.Int64("requested", item.Quantity),
					zap.Int64("available", available),
				)

				return nil, &InsufficientStockError{
					Product:   name,
					Available: available,
				}
			}

			return nil, err
		}
	}

	if err := s.cartRepo.ClearTx(ctx, tx, cartID); err != nil {
		return nil, err
	}

	if err := s.saveOrderPlacedEvent(ctx, tx, order); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		applog.Error(ctx, s.logger, "Failed to commit transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	applog.Info(
		ctx,
		s.logger,
		"Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.Int64("total_amount", order.TotalAmount),
		zap.Int("items", len(order.Items)),
	)

	return order, nil
}

func (s *orderService) saveOrderPlacedEvent(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	event := orderPlacedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Status:      string(order.Status),
		PlacedAt:    order.CreatedAt,
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, orderPlacedEventItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return s.outboxRepo.SaveOutboxEvent(ctx, tx, &outboxdomain.OutboxEvent{
		AggregateType: "order",
		AggregateID:   strconv.FormatInt(order.ID, 10),
		EventType:     "OrderPlaced",
		Payload:       payload,
		Topic:         s.topic,
	})
}

func (s *orderService) GetOrderByID(ctx context.Context, userID, orderID int64, isAdmin bool) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
	)

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && order.UserID != userID {
		applog.Warn(
			ctx,
			s.logger,
			"Order access denied",
			zap.Int64("order_id", orderID),
			zap.Int64("user_id", userID),
			zap.Int64("owner_id", order.UserID),
		)

		return nil, ErrForbidden
	}

	return order, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetUserOrders")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
	)

	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderService) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetAllOrders")
	defer span.End()

	return s.orderRepo.ListAll(ctx)
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
		attribute.String("status", status),
	)

	if !domain.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	if err := s.orderRepo.ChangeOrderStatus(ctx, orderID, domain.OrderStatus(status)); err != nil {
		return nil, err
	}

	applog.Info(
		ctx,
		s.logger,
		"Order status changed",
		zap.Int64("order_id", orderID),
		zap.String("status", status),
	)

	return s.orderRepo.GetByID(ctx, orderID)
}
