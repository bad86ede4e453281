package service

import (
	"context"
	"errors"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/domain"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/repository"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/applog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CartService interface {
	GetCart(ctx context.Context, userID int64) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID, quantity int64) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID, quantity int64) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID int64) (*domain.Cart, error)
	Clear(ctx context.Context, userID int64) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *zap.Logger
	tracer      trace.Tracer
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger *zap.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
		tracer:      otel.Tracer("service/cart_service"),
	}
}

func (s *cartService) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.GetCart")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
	)

	cartID, err := s.cartRepo.GetCartID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.GetItems(ctx, cartID)
	if err != nil {
		return nil, err
	}

	return &domain.Cart{
		ID:     cartID,
		UserID: userID,
		Items:  items,
	}, nil
}

// AddItem merges the requested quantity into an existing line for the same
// product, or creates a new line. The stock check here is advisory: it
// catches obvious over-asks at add time, while placement re-validates
// everything transactionally.
func (s *cartService) AddItem(ctx context.Context, userID, productID, quantity int64) (*domain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddItem")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("product_id", productID),
		attribute.Int64("quantity", quantity),
	)

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cartID, err := s.cartRepo.GetCartID(ctx, userID)
	if err != nil {
		return nil, err
	}

	requested := quantity
	existing, err := s.cartRepo.GetItemForProduct(ctx, cartID, productID)
	if err != nil && !errors.Is(err, repository.ErrCartItemNotFound) {
		return nil, err
	}
	if existing != nil {
		requested += existing.Quantity
	}

	if product.StockQuantity < requested {
		applog.Warn(
			ctx,
			s.logger,
			"Add to cart rejected, not enough stock",
			zap.Int64("user_id", userID),
			zap.Int64("product_id", productID),
			zap.Int64("requested", requested),
			zap.Int64("available", product.StockQuantity),
		)

		return nil, &InsufficientStockError{
			Product:   product.Name,
			Available: product.StockQuantity,
		}
	}

	if err := s.cartRepo.UpsertItem(ctx, cartID, productID, quantity); err != nil {
		return nil, err
	}

	applog.Info(
		ctx,
		s.logger,
		"Item added to cart",
		zap.Int64("user_id", userID),
		zap.Int64("product_id", productID),
		zap.Int64("quantity", quantity),
	)

	return s.GetCart(ctx, userID)
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, itemID, quantity int64) (*domain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateItemQuantity")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("item_id", itemID),
		attribute.Int64("quantity", quantity),
	)

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}

	if product.StockQuantity < quantity {
		return nil, &InsufficientStockError{
			Product:   product.Name,
			Available: product.StockQuantity,
		}
	}

	if err := s.cartRepo.SetItemQuantity(ctx, itemID, quantity); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID int64) (*domain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveItem")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("item_id", itemID),
	)

	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) Clear(ctx context.Context, userID int64) error {
	ctx, span := s.tracer.Start(ctx, "CartService.Clear")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
	)

	cartID, err := s.cartRepo.GetCartID(ctx, userID)
	if err != nil {
		return err
	}

	return s.cartRepo.Clear(ctx, cartID)
}

// ownedItem loads a cart item and verifies it belongs to the user's cart.
func (s *cartService) ownedItem(ctx context.Context, userID, itemID int64) (*domain.CartItem, error) {
	item, err := s.cartRepo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	cartID, err := s.cartRepo.GetCartID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if item.CartID != cartID {
		applog.Warn(
			ctx,
			s.logger,
			"Cart item access denied",
			zap.Int64("user_id", userID),
			zap.Int64("item_id", itemID),
		)

		return nil, ErrForbidden
	}

	return item, nil
}
